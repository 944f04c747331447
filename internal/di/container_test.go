package di

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/samber/do/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/listenupapp/pagetrail/internal/config"
	"github.com/listenupapp/pagetrail/internal/di/providers"
	"github.com/listenupapp/pagetrail/internal/logger"
	"github.com/listenupapp/pagetrail/internal/search"
	"github.com/listenupapp/pagetrail/internal/service"
)

func testConfig(driver, dataPath string) *config.Config {
	return &config.Config{
		App:     config.AppConfig{Environment: "development"},
		Logger:  config.LoggerConfig{Level: "info"},
		Storage: config.StorageConfig{Driver: driver, DataPath: dataPath},
		Catalog: config.CatalogConfig{
			BaseURL:           "http://127.0.0.1:1",
			MaxResults:        10,
			RequestsPerSecond: 1,
			Burst:             1,
		},
	}
}

func testLogger() *logger.Logger {
	var buf bytes.Buffer
	return logger.New(logger.Config{Writer: &buf, Level: slog.LevelError})
}

func TestBootstrapServices_Memory(t *testing.T) {
	injector := NewContainerWithConfig(testConfig(config.DriverMemory, ""), testLogger())
	t.Cleanup(func() { _ = injector.Shutdown() })

	require.NoError(t, BootstrapServices(injector))

	library := do.MustInvoke[*service.LibraryService](injector)
	_, err := library.AddBook(context.Background(), service.AddBookRequest{ID: "b1", Title: "Dune"})
	require.NoError(t, err)

	index := do.MustInvoke[*providers.SearchIndexHandle](injector)
	count, err := index.DocumentCount()
	require.NoError(t, err)
	assert.Equal(t, uint64(1), count, "store writes reach the index")
}

func TestBootstrapServices_PersistsAcrossContainers(t *testing.T) {
	drivers := []string{config.DriverBadger, config.DriverSQLite}

	for _, driver := range drivers {
		t.Run(driver, func(t *testing.T) {
			dir := t.TempDir()

			first := NewContainerWithConfig(testConfig(driver, dir), testLogger())
			require.NoError(t, BootstrapServices(first))
			library := do.MustInvoke[*service.LibraryService](first)
			_, err := library.AddBook(context.Background(), service.AddBookRequest{ID: "b1", Title: "Dune"})
			require.NoError(t, err)
			first.Shutdown()

			second := NewContainerWithConfig(testConfig(driver, dir), testLogger())
			t.Cleanup(func() { _ = second.Shutdown() })
			require.NoError(t, BootstrapServices(second))

			entry, err := do.MustInvoke[*service.LibraryService](second).GetEntry(context.Background(), "b1")
			require.NoError(t, err)
			assert.Equal(t, "Dune", entry.Book.Title)

			result, err := do.MustInvoke[*providers.SearchIndexHandle](second).Search(context.Background(), search.Params{Query: "dune"})
			require.NoError(t, err)
			assert.Equal(t, uint64(1), result.Total, "index is rebuilt from the store")
		})
	}
}

func TestBootstrapServices_UnknownDriver(t *testing.T) {
	injector := NewContainerWithConfig(testConfig("postgres", t.TempDir()), testLogger())
	t.Cleanup(func() { _ = injector.Shutdown() })

	assert.Error(t, BootstrapServices(injector))
}
