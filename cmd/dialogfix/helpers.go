package main

import (
	"fmt"
	"io"

	"github.com/jmoiron/sqlx"

	"github.com/at-ishikawa/dialogfix/internal/config"
	"github.com/at-ishikawa/dialogfix/internal/database"
	"github.com/at-ishikawa/dialogfix/internal/dialoglog"
	"github.com/at-ishikawa/dialogfix/internal/dialogue"
	"github.com/at-ishikawa/dialogfix/internal/presenter"
)

func loadConfig() (*config.Config, error) {
	loader, err := config.NewConfigLoader(configFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create config loader: %w", err)
	}
	return loader.Load()
}

func openDatabase(cfg *config.Config) (*sqlx.DB, error) {
	if !cfg.Database.Enabled {
		return nil, fmt.Errorf("database is not enabled. Set database.enabled in the config file")
	}
	db, err := database.Open(cfg.Database)
	if err != nil {
		return nil, fmt.Errorf("database.Open() > %w", err)
	}
	return db, nil
}

// newPresenter prints to out and, when the database is enabled, also stores
// every finished line. The returned function releases the database.
func newPresenter(cfg *config.Config, out io.Writer, showPending bool) (dialogue.Presenter, func(), error) {
	terminal := presenter.NewTerminal(out, showPending)
	if !cfg.Database.Enabled {
		return terminal, func() {}, nil
	}

	db, err := openDatabase(cfg)
	if err != nil {
		return nil, nil, err
	}
	return presenter.Multi{
			terminal,
			dialoglog.NewPresenter(dialoglog.NewDBRepository(db)),
		}, func() {
			_ = db.Close()
		}, nil
}
