package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/colonyops/tick/internal/core/config"
	"github.com/colonyops/tick/internal/core/kv"
	"github.com/colonyops/tick/internal/data/db"
	"github.com/colonyops/tick/internal/data/stores"
	"github.com/colonyops/tick/internal/data/sweep"
	"github.com/colonyops/tick/internal/store/jsonfile"
	"github.com/rs/zerolog"
)

// Storage bundles the opened backend and the repositories built on it.
type Storage struct {
	KV      kv.KV
	Tasks   *stores.TaskRepository
	UIState *stores.UIStateStore

	sweeper sweep.Sweeper
	closers []func() error
}

// OpenStorage opens the backend selected by cfg.
func OpenStorage(cfg *config.Config, log zerolog.Logger) (*Storage, error) {
	switch cfg.Storage.Backend {
	case config.BackendJSONFile:
		return openJSONFile(cfg, log)
	default:
		return openSQLite(cfg, log)
	}
}

func openSQLite(cfg *config.Config, log zerolog.Logger) (*Storage, error) {
	dir := cfg.StorageDir()
	opts := db.OpenOptions{
		MaxOpenConns: cfg.Database.MaxOpenConns,
		MaxIdleConns: cfg.Database.MaxIdleConns,
		BusyTimeout:  cfg.Database.BusyTimeout,
	}

	database, err := db.Open(dir, opts)
	if err != nil && stores.IsCorruptionError(err) {
		log.Warn().Err(err).Str("dir", dir).Msg("database corrupt, moving it aside")
		if rerr := stores.RecoverFromCorruption(dir); rerr != nil {
			return nil, fmt.Errorf("recover database: %w", errors.Join(err, rerr))
		}
		database, err = db.Open(dir, opts)
	}
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	store := stores.NewKVStore(database)
	return &Storage{
		KV:      store,
		Tasks:   stores.NewTaskRepository(store, log),
		UIState: stores.NewUIStateStore(store, stores.DefaultUIStateTTL, log),
		sweeper: store,
		closers: []func() error{database.Close},
	}, nil
}

func openJSONFile(cfg *config.Config, log zerolog.Logger) (*Storage, error) {
	dir := cfg.StorageDir()

	store, err := jsonfile.NewStore(dir)
	if err != nil {
		return nil, fmt.Errorf("open json store: %w", err)
	}

	s := &Storage{
		KV:      store,
		UIState: stores.NewUIStateStore(store, stores.DefaultUIStateTTL, log),
	}

	var repoOpts []stores.TaskRepositoryOption
	if cfg.TUI.Watch {
		w, err := jsonfile.NewWatcher(dir, log)
		if err != nil {
			log.Warn().Err(err).Msg("file watching unavailable, falling back to polling")
		} else {
			repoOpts = append(repoOpts, stores.WithKeyWatcher(w))
			s.closers = append(s.closers, w.Close)
		}
	}
	s.Tasks = stores.NewTaskRepository(store, log, repoOpts...)

	return s, nil
}

// StartSweep removes expired entries in the background until ctx is done.
// Backends without expiry do nothing.
func (s *Storage) StartSweep(ctx context.Context, log zerolog.Logger) {
	if s.sweeper == nil {
		return
	}
	go sweep.Start(ctx, s.sweeper, sweep.DefaultInterval, log)
}

// Close releases the backend.
func (s *Storage) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		errs = append(errs, s.closers[i]())
	}
	return errors.Join(errs...)
}
