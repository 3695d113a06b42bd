package store

import (
	"context"
	"fmt"

	"github.com/Tanmoy095/LogiSynapse/shared/config"
)

// Open builds the store selected by cfg.STORE. The returned close function is
// never nil.
func Open(ctx context.Context, cfg *config.CommonConfig) (KeyValueStore, func() error, error) {
	noop := func() error { return nil }
	switch cfg.STORE {
	case config.StoreMemory:
		return NewMemoryStore(), noop, nil
	case config.StoreSQLite:
		s, err := NewSQLiteStore(cfg.SQLITE_PATH)
		if err != nil {
			return nil, noop, err
		}
		return s, s.Close, nil
	case config.StorePostgres:
		s, err := NewPostgresStore(ctx, cfg.GetDBURL())
		if err != nil {
			return nil, noop, err
		}
		return s, s.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown store %q", cfg.STORE)
	}
}
