package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		App:     AppConfig{Environment: "development"},
		Logger:  LoggerConfig{Level: "info"},
		Storage: StorageConfig{Driver: DriverBadger, DataPath: "/some/path"},
		Catalog: CatalogConfig{
			BaseURL:           "https://example.test/books/v1",
			MaxResults:        20,
			RequestsPerSecond: 2,
			Burst:             4,
		},
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
}

func TestValidate_AllEnvironments(t *testing.T) {
	tests := []struct {
		env   string
		valid bool
	}{
		{"development", true},
		{"staging", true},
		{"production", true},
		{"test", false},
		{"", false},
		{"DEVELOPMENT", false}, // case sensitive
	}

	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			cfg := validConfig()
			cfg.App.Environment = tt.env
			if tt.valid {
				assert.NoError(t, cfg.Validate())
			} else {
				assert.Error(t, cfg.Validate())
			}
		})
	}
}

func TestValidate_AllLogLevels(t *testing.T) {
	tests := []struct {
		level string
		valid bool
	}{
		{"debug", true},
		{"info", true},
		{"warn", true},
		{"error", true},
		{"DEBUG", true}, // case insensitive
		{"trace", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			cfg := validConfig()
			cfg.Logger.Level = tt.level
			if tt.valid {
				assert.NoError(t, cfg.Validate())
			} else {
				assert.Error(t, cfg.Validate())
			}
		})
	}
}

func TestValidate_StorageDrivers(t *testing.T) {
	tests := []struct {
		name     string
		driver   string
		dataPath string
		valid    bool
	}{
		{"badger with path", DriverBadger, "/data", true},
		{"sqlite with path", DriverSQLite, "/data", true},
		{"memory without path", DriverMemory, "", true},
		{"badger without path", DriverBadger, "", false},
		{"unknown driver", "postgres", "/data", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.Storage = StorageConfig{Driver: tt.driver, DataPath: tt.dataPath}
			if tt.valid {
				assert.NoError(t, cfg.Validate())
			} else {
				assert.Error(t, cfg.Validate())
			}
		})
	}
}

func TestValidate_CatalogLimits(t *testing.T) {
	cfg := validConfig()
	cfg.Catalog.MaxResults = 41
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Catalog.RequestsPerSecond = 0
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.Catalog.BaseURL = ""
	assert.Error(t, cfg.Validate())
}

func TestValidate_ServerRateLimit(t *testing.T) {
	cfg := validConfig()
	cfg.Server.RateLimit = 0
	assert.NoError(t, cfg.Validate(), "zero disables limiting")

	cfg.Server.RateLimit = -1
	assert.Error(t, cfg.Validate())

	cfg.Server.RateLimit = 5
	cfg.Server.RateBurst = 0
	assert.Error(t, cfg.Validate())
}

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DATA_PATH", dir)

	cfg, err := Load([]string{"-env-file", filepath.Join(dir, "missing.env")})
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.App.Environment)
	assert.Equal(t, DriverBadger, cfg.Storage.Driver)
	assert.Equal(t, dir, cfg.Storage.DataPath)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 10*time.Second, cfg.Catalog.Timeout)
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)
	assert.Equal(t, 20, cfg.Catalog.MaxResults)
	assert.Equal(t, float64(20), cfg.Server.RateLimit)
	assert.Equal(t, 40, cfg.Server.RateBurst)
}

func TestLoad_FlagsOverrideEnv(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DATA_PATH", dir)
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("STORAGE_DRIVER", DriverSQLite)

	cfg, err := Load([]string{
		"-env-file", filepath.Join(dir, "missing.env"),
		"-port", "7000",
		"-cors-origins", "http://localhost:5173, http://127.0.0.1:5173",
	})
	require.NoError(t, err)

	assert.Equal(t, "7000", cfg.Server.Port)
	assert.Equal(t, DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, []string{"http://localhost:5173", "http://127.0.0.1:5173"}, cfg.Server.CORSOrigins)
}

func TestLoad_InvalidDuration(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("DATA_PATH", dir)

	_, err := Load([]string{"-env-file", filepath.Join(dir, "missing.env"), "-catalog-timeout", "soon"})
	assert.Error(t, err)
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)

	got, err := expandPath("~/books", "")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "books"), got)

	got, err = expandPath("", "/fallback")
	require.NoError(t, err)
	assert.Equal(t, "/fallback", got)

	got, err = expandPath("/abs/../abs/path", "")
	require.NoError(t, err)
	assert.Equal(t, "/abs/path", got)
}

func TestGetConfigValue_Precedence(t *testing.T) {
	t.Setenv("PAGETRAIL_TEST_KEY", "from-env")

	assert.Equal(t, "from-flag", getConfigValue("from-flag", "PAGETRAIL_TEST_KEY", "default"))
	assert.Equal(t, "from-env", getConfigValue("", "PAGETRAIL_TEST_KEY", "default"))
	assert.Equal(t, "default", getConfigValue("", "PAGETRAIL_TEST_UNSET", "default"))
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	content := "# comment\n\nPAGETRAIL_ENV_A=alpha\nPAGETRAIL_ENV_B=\"quoted\"\nPAGETRAIL_ENV_C=keep\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	t.Setenv("PAGETRAIL_ENV_C", "already-set")
	t.Setenv("PAGETRAIL_ENV_A", "")
	t.Setenv("PAGETRAIL_ENV_B", "")

	require.NoError(t, loadEnvFile(path))

	assert.Equal(t, "alpha", os.Getenv("PAGETRAIL_ENV_A"))
	assert.Equal(t, "quoted", os.Getenv("PAGETRAIL_ENV_B"))
	assert.Equal(t, "already-set", os.Getenv("PAGETRAIL_ENV_C"))
}

func TestLoadEnvFile_InvalidFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("NOT_A_PAIR\n"), 0o600))

	assert.Error(t, loadEnvFile(path))
}

func TestLoadEnvFile_NonExistentFile(t *testing.T) {
	assert.Error(t, loadEnvFile("/nonexistent/.env"))
}
