package main

import (
	"context"
	"fmt"

	"github.com/legendastv/ltv/internal/catalog"
	"github.com/legendastv/ltv/internal/common"
	"github.com/legendastv/ltv/internal/config"
	"github.com/legendastv/ltv/internal/memory"
)

// newClient builds a catalog client from the loaded configuration. When
// login is true the configured credentials are required and a session is
// established before returning.
func newClient(ctx context.Context, cfg config.Config, login bool) (*catalog.LegendasTV, error) {
	client, err := catalog.New(catalog.Options{BaseURL: cfg.BaseURL})
	if err != nil {
		return nil, fmt.Errorf("failed to create catalog client: %w", err)
	}

	if login {
		if cfg.Username == "" || cfg.Password == "" {
			return nil, fmt.Errorf("%w: set credentials.username and credentials.password (or LTV_CREDENTIALS_USERNAME/LTV_CREDENTIALS_PASSWORD)",
				common.ErrMissingConfig)
		}
		if err := client.Login(ctx, cfg.Username, cfg.Password); err != nil {
			return nil, fmt.Errorf("login failed: %w", err)
		}
	}

	return client, nil
}

// newStore returns the choice store for a batch. By default choices live
// for the run only; with remember set they also persist in SQLite across
// runs. The returned closer is non-nil only for the persistent store.
func newStore(cfg config.Config, remember bool) (memory.Store, func() error, error) {
	if !remember {
		return memory.NewSessionStore(), nil, nil
	}

	store, err := memory.NewSQLiteStore(cfg.MemoryDB)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open choice database: %w", err)
	}
	return store, store.Close, nil
}

// validLanguage checks the code against the catalog's language table.
func validLanguage(code string) error {
	if _, ok := catalog.LanguageByCode(code); !ok {
		return fmt.Errorf("%w: unknown language %q (see 'ltv languages')", common.ErrInvalidConfig, code)
	}
	return nil
}
