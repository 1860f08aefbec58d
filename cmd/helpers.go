package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/terralink/terralink/internal/store"
	"github.com/terralink/terralink/pkg/siteapi"
)

// initClient builds the backend API client from config.
func initClient() siteapi.Client {
	opts := []siteapi.Option{siteapi.WithBaseURL(cfg.Backend.BaseURL)}
	if cfg.Backend.TimeoutSecs > 0 {
		opts = append(opts, siteapi.WithTimeout(time.Duration(cfg.Backend.TimeoutSecs)*time.Second))
	}
	return siteapi.NewClient(opts...)
}

// initStore opens the configured run history store.
func initStore(ctx context.Context) (store.Store, error) {
	if err := cfg.Validate("store"); err != nil {
		return nil, err
	}

	switch cfg.Store.Driver {
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, nil)
	case "sqlite":
		return store.NewSQLite(cfg.Store.Path)
	default:
		return nil, eris.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
