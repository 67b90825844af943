// Package storage opens the ledger store selected by configuration.
package storage

import (
	"context"
	"fmt"

	"github.com/sheikh-saqib/daily-cash-reconciliation/internal/config"
	interfaces "github.com/sheikh-saqib/daily-cash-reconciliation/internal/interfaces"
	"github.com/sheikh-saqib/daily-cash-reconciliation/internal/storage/bolt"
	"github.com/sheikh-saqib/daily-cash-reconciliation/internal/storage/memory"
	"github.com/sheikh-saqib/daily-cash-reconciliation/internal/storage/postgres"
	"github.com/sheikh-saqib/daily-cash-reconciliation/internal/storage/sqlite"
)

// Open returns the configured store and a function that releases it.
func Open(ctx context.Context, cfg config.StoreConfig) (interfaces.LedgerStore, func() error, error) {
	switch cfg.Backend {
	case config.StoreMemory, "":
		return memory.NewMemoryLedgerStore(), func() error { return nil }, nil
	case config.StoreSQLite:
		s, err := sqlite.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return s, s.Close, nil
	case config.StorePostgres:
		s, err := postgres.Open(ctx, cfg.PostgresDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open postgres store: %w", err)
		}
		return s, s.Close, nil
	case config.StoreBolt:
		s, err := bolt.Open(cfg.BoltPath)
		if err != nil {
			return nil, nil, fmt.Errorf("open bolt store: %w", err)
		}
		return s, s.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Backend)
	}
}
