package providers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/samber/do/v2"

	"github.com/listenupapp/pagetrail/internal/config"
	"github.com/listenupapp/pagetrail/internal/logger"
	"github.com/listenupapp/pagetrail/internal/store"
	"github.com/listenupapp/pagetrail/internal/store/sqlite"
)

// StoreHandle wraps the store with shutdown capability.
type StoreHandle struct {
	*store.Store
}

// Shutdown implements do.Shutdownable.
func (h *StoreHandle) Shutdown() error {
	return h.Close()
}

// ProvideStore opens the configured backend and loads the library from it.
func ProvideStore(i do.Injector) (*StoreHandle, error) {
	cfg := do.MustInvoke[*config.Config](i)
	log := do.MustInvoke[*logger.Logger](i)

	backend, location, err := openBackend(cfg.Storage, log)
	if err != nil {
		return nil, err
	}

	st := store.New(context.Background(), backend, log.Component("store"))

	log.Info("Library loaded",
		"driver", cfg.Storage.Driver,
		"location", location,
		"entries", st.Len(),
		"tags", len(st.Tags()),
	)

	return &StoreHandle{Store: st}, nil
}

func openBackend(cfg config.StorageConfig, log *logger.Logger) (store.Backend, string, error) {
	switch cfg.Driver {
	case config.DriverMemory:
		return store.NewMemoryBackend(), "memory", nil

	case config.DriverSQLite:
		if err := os.MkdirAll(cfg.DataPath, 0o750); err != nil {
			return nil, "", fmt.Errorf("create data directory: %w", err)
		}
		path := filepath.Join(cfg.DataPath, "library.db")
		backend, err := sqlite.Open(path, log.Component("sqlite"))
		if err != nil {
			return nil, "", err
		}
		return backend, path, nil

	case config.DriverBadger:
		path := filepath.Join(cfg.DataPath, "db")
		if err := os.MkdirAll(path, 0o750); err != nil {
			return nil, "", fmt.Errorf("create data directory: %w", err)
		}
		backend, err := store.OpenBadger(path, log.Component("badger"))
		if err != nil {
			return nil, "", err
		}
		return backend, path, nil

	default:
		return nil, "", fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
