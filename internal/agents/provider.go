// Package agents implements the AI assistant roles behind the analysis
// backend: query parsing, dataset selection, result explanation, and trend
// prediction. Every role degrades to a deterministic fallback when no
// language model is available.
package agents

import (
	"context"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"

	"github.com/terralink/terralink/internal/config"
	"github.com/terralink/terralink/pkg/gemini"
)

// TextModel is a single-prompt text generation backend.
type TextModel interface {
	// Generate returns the model's text answer for one prompt.
	Generate(ctx context.Context, prompt string) (string, error)

	// Name identifies the model for health and response metadata.
	Name() string
}

// ErrNoModel is returned by the mock provider; agents catching it fall back
// to their deterministic behavior.
var ErrNoModel = eris.New("agents: no language model configured")

// Suite bundles the agent roles around one TextModel.
type Suite struct {
	llm TextModel
}

// NewSuite creates the agent suite.
func NewSuite(llm TextModel) *Suite {
	return &Suite{llm: llm}
}

// ModelName reports the underlying model identifier.
func (s *Suite) ModelName() string {
	return s.llm.Name()
}

// NewModel builds the TextModel for the configured provider. The "mock"
// provider always errors, which drives every agent down its fallback path.
func NewModel(cfg config.LLM) (TextModel, error) {
	switch cfg.Provider {
	case "gemini":
		if cfg.GeminiKey == "" {
			return nil, eris.New("agents: gemini provider requires an API key")
		}
		return &geminiModel{
			client: gemini.NewClient(cfg.GeminiKey,
				gemini.WithModel(cfg.GeminiModel),
				gemini.WithRateLimit(cfg.RateLimitRPS)),
			model: cfg.GeminiModel,
		}, nil
	case "anthropic":
		if cfg.AnthropicKey == "" {
			return nil, eris.New("agents: anthropic provider requires an API key")
		}
		return &anthropicModel{
			client: sdk.NewClient(option.WithAPIKey(cfg.AnthropicKey)),
			model:  cfg.AnthropicModel,
		}, nil
	case "mock", "":
		return MockModel{}, nil
	default:
		return nil, eris.Errorf("agents: unknown llm provider %q", cfg.Provider)
	}
}

type geminiModel struct {
	client gemini.Client
	model  string
}

func (m *geminiModel) Generate(ctx context.Context, prompt string) (string, error) {
	resp, err := m.client.GenerateContent(ctx, gemini.GenerateContentRequest{
		Contents: []gemini.Content{{Role: "user", Parts: []gemini.Part{{Text: prompt}}}},
	})
	if err != nil {
		return "", err
	}
	return resp.Text(), nil
}

func (m *geminiModel) Name() string { return m.model }

type anthropicModel struct {
	client sdk.Client
	model  string
}

func (m *anthropicModel) Generate(ctx context.Context, prompt string) (string, error) {
	msg, err := m.client.Messages.New(ctx, sdk.MessageNewParams{
		Model:     sdk.Model(m.model),
		MaxTokens: 1024,
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", eris.Wrap(err, "agents: anthropic generate")
	}
	var out string
	for _, block := range msg.Content {
		if block.Type == "text" {
			out += block.Text
		}
	}
	return out, nil
}

func (m *anthropicModel) Name() string { return m.model }

// MockModel is the no-model provider. Generate always fails with ErrNoModel.
type MockModel struct{}

func (MockModel) Generate(_ context.Context, _ string) (string, error) {
	return "", ErrNoModel
}

func (MockModel) Name() string { return "mock_mode" }
