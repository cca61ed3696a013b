package main

import (
	"context"
	"time"

	"github.com/rotisserie/eris"

	"github.com/autokosten/autokosten-cli/internal/store"
	"github.com/autokosten/autokosten-cli/pkg/rdw"
)

// initStore opens the configured store backend and runs migrations.
func initStore(ctx context.Context) (store.Store, error) {
	var (
		st  store.Store
		err error
	)
	switch cfg.Store.Driver {
	case "sqlite":
		st, err = store.NewSQLite(cfg.Store.DatabaseURL)
	case "postgres":
		st, err = store.NewPostgres(ctx, cfg.Store.DatabaseURL, nil)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close() //nolint:errcheck
		return nil, err
	}
	return st, nil
}

// initRDW builds the registry resolver from configuration.
func initRDW() rdw.Client {
	opts := []rdw.Option{
		rdw.WithBaseURL(cfg.RDW.BaseURL),
		rdw.WithRateLimit(cfg.RDW.RateLimitRPS),
	}
	if cfg.RDW.CacheTTLMins > 0 {
		opts = append(opts, rdw.WithCacheTTL(time.Duration(cfg.RDW.CacheTTLMins)*time.Minute))
	}
	return rdw.NewClient(opts...)
}
