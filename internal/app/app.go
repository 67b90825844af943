// Package app assembles a Ledger from configuration.
package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/sheikh-saqib/daily-cash-reconciliation/internal/catalog"
	"github.com/sheikh-saqib/daily-cash-reconciliation/internal/config"
	"github.com/sheikh-saqib/daily-cash-reconciliation/internal/events/kafka"
	"github.com/sheikh-saqib/daily-cash-reconciliation/internal/ledger"
	"github.com/sheikh-saqib/daily-cash-reconciliation/internal/storage"
)

// App owns the ledger and everything it holds open.
type App struct {
	Ledger  *ledger.Ledger
	closers []func() error
}

// New opens the configured store, catalog and publisher and builds the ledger.
func New(ctx context.Context, cfg *config.Config, log zerolog.Logger) (*App, error) {
	cat := catalog.Default()
	if cfg.CategoryFile != "" {
		loaded, err := catalog.Load(cfg.CategoryFile)
		if err != nil {
			return nil, fmt.Errorf("load category catalog: %w", err)
		}
		cat = loaded
	}

	store, closeStore, err := storage.Open(ctx, cfg.Store)
	if err != nil {
		return nil, err
	}
	a := &App{closers: []func() error{closeStore}}

	opts := []ledger.Option{
		ledger.WithCatalog(cat),
		ledger.WithLookbackDays(cfg.LookbackDays),
		ledger.WithLogger(log),
	}
	if cfg.Kafka.Enabled() {
		pub := kafka.NewPublisher(cfg.Kafka.Brokers)
		a.closers = append(a.closers, pub.Close)
		opts = append(opts, ledger.WithPublisher(pub, cfg.Kafka.Topic))
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("publishing posted reports")
	}

	a.Ledger = ledger.NewLedger(store, opts...)
	log.Info().
		Str("store", cfg.Store.Backend).
		Int("lookback_days", cfg.LookbackDays).
		Int("categories", len(cat.All())).
		Msg("ledger ready")
	return a, nil
}

// Close releases the publisher and the store, newest first.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
