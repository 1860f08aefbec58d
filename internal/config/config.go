package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Backend Backend `yaml:"backend" mapstructure:"backend"`
	Server  Server  `yaml:"server" mapstructure:"server"`
	LLM     LLM     `yaml:"llm" mapstructure:"llm"`
	Sampler Sampler `yaml:"sampler" mapstructure:"sampler"`
	Store   Store   `yaml:"store" mapstructure:"store"`
	Export  Export  `yaml:"export" mapstructure:"export"`
	Log     Log     `yaml:"log" mapstructure:"log"`
}

// Backend configures the client side: where the analysis API lives.
type Backend struct {
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// Server configures the analysis API server.
type Server struct {
	Port           int      `yaml:"port" mapstructure:"port"`
	AllowedOrigins []string `yaml:"allowed_origins" mapstructure:"allowed_origins"`
}

// LLM selects and configures the text-generation provider backing the agents.
type LLM struct {
	Provider       string  `yaml:"provider" mapstructure:"provider"` // gemini, anthropic, or mock
	GeminiKey      string  `yaml:"gemini_api_key" mapstructure:"gemini_api_key"`
	GeminiModel    string  `yaml:"gemini_model" mapstructure:"gemini_model"`
	AnthropicKey   string  `yaml:"anthropic_api_key" mapstructure:"anthropic_api_key"`
	AnthropicModel string  `yaml:"anthropic_model" mapstructure:"anthropic_model"`
	RateLimitRPS   float64 `yaml:"rate_limit_rps" mapstructure:"rate_limit_rps"`
}

// Sampler configures site sampling.
type Sampler struct {
	NumSamples int   `yaml:"num_samples" mapstructure:"num_samples"`
	MaxSites   int   `yaml:"max_sites" mapstructure:"max_sites"`
	Seed       int64 `yaml:"seed" mapstructure:"seed"`
}

// Store configures analysis run persistence.
type Store struct {
	Driver      string `yaml:"driver" mapstructure:"driver"` // sqlite or postgres
	Path        string `yaml:"path" mapstructure:"path"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// Export configures site export output.
type Export struct {
	Dir string `yaml:"dir" mapstructure:"dir"`
}

// Log configures logging.
type Log struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("TERRALINK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("backend.base_url", "http://localhost:5001")
	v.SetDefault("backend.timeout_secs", 60)
	v.SetDefault("server.port", 5001)
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("llm.provider", "mock")
	v.SetDefault("llm.gemini_model", "gemini-pro")
	v.SetDefault("llm.anthropic_model", "claude-haiku-4-5-20251001")
	v.SetDefault("llm.rate_limit_rps", 2)
	v.SetDefault("sampler.num_samples", 100)
	v.SetDefault("sampler.max_sites", 20)
	v.SetDefault("sampler.seed", 42)
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.path", "terralink.db")
	v.SetDefault("export.dir", ".")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Validate checks the fields required for the given mode ("serve", "chat",
// or "store") and reports every problem found.
func (c *Config) Validate(mode string) error {
	var problems []string

	switch mode {
	case "serve":
		if c.Server.Port <= 0 {
			problems = append(problems, "server.port must be > 0")
		}
		if c.Sampler.NumSamples <= 0 {
			problems = append(problems, "sampler.num_samples must be > 0")
		}
		if c.Sampler.MaxSites <= 0 {
			problems = append(problems, "sampler.max_sites must be > 0")
		}
		switch c.LLM.Provider {
		case "gemini":
			if c.LLM.GeminiKey == "" {
				problems = append(problems, "llm.gemini_api_key is required for the gemini provider")
			}
		case "anthropic":
			if c.LLM.AnthropicKey == "" {
				problems = append(problems, "llm.anthropic_api_key is required for the anthropic provider")
			}
		case "mock":
		default:
			problems = append(problems, "llm.provider must be gemini, anthropic, or mock")
		}
	case "chat":
		if c.Backend.BaseURL == "" {
			problems = append(problems, "backend.base_url is required")
		}
	case "store":
		switch c.Store.Driver {
		case "sqlite":
			if c.Store.Path == "" {
				problems = append(problems, "store.path is required for the sqlite driver")
			}
		case "postgres":
			if c.Store.DatabaseURL == "" {
				problems = append(problems, "store.database_url is required for the postgres driver")
			}
		default:
			problems = append(problems, "store.driver must be sqlite or postgres")
		}
	default:
		return eris.Errorf("config: unknown mode %q", mode)
	}

	if len(problems) > 0 {
		return eris.Errorf("config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg Log) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
