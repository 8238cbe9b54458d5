package app_test

import (
	"context"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"textbuddy/internal/app"
	"textbuddy/internal/domain"
	xlog "textbuddy/internal/log"
	"textbuddy/internal/server"
	"textbuddy/internal/sms"
	"textbuddy/internal/store"
)

var envKeys = []string{
	"TEXTBUDDY_GAME_ID", "TEXTBUDDY_API_KEY", "TEXTBUDDY_BASE_URL", "TEXTBUDDY_ENABLE_LOGS",
	"TEXTBUDDY_TIMEOUT", "TEXTBUDDY_STORE", "TEXTBUDDY_PLATFORM", "TEXTBUDDY_PASSPHRASE", "TEXTBUDDY_HOME",
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range envKeys {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "textbuddy.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadConfig_File(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
game_id: g1
api_key: k1
enable_logs: true
base_url: http://localhost:8080
timeout: 3s
store: sqlite
platform: ios
`)

	cfg, err := app.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "g1", cfg.GameID)
	assert.Equal(t, "k1", cfg.APIKey)
	assert.True(t, cfg.EnableLogs)
	assert.Equal(t, "http://localhost:8080", cfg.BaseURL)
	assert.Equal(t, 3*time.Second, cfg.Timeout)
	assert.Equal(t, store.KindSQLite, cfg.Store)
	assert.Equal(t, sms.PlatformIOS, cfg.Platform)
}

func TestLoadConfig_EnvOverridesFile(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "game_id: g1\napi_key: k1\n")
	t.Setenv("TEXTBUDDY_API_KEY", "from-env")
	t.Setenv("TEXTBUDDY_TIMEOUT", "250ms")
	t.Setenv("TEXTBUDDY_ENABLE_LOGS", "true")
	t.Setenv("TEXTBUDDY_STORE", "MEMORY")

	cfg, err := app.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "g1", cfg.GameID)
	assert.Equal(t, "from-env", cfg.APIKey)
	assert.Equal(t, 250*time.Millisecond, cfg.Timeout)
	assert.True(t, cfg.EnableLogs)
	assert.Equal(t, store.KindMemory, cfg.Store)
	assert.Equal(t, app.DefaultBaseURL, cfg.BaseURL)
}

func TestLoadConfig_Errors(t *testing.T) {
	clearEnv(t)

	_, err := app.LoadConfig(writeConfig(t, "game_id: g1\napi_key: k1\nbogus: 1\n"))
	assert.Error(t, err, "unknown fields are rejected")

	_, err = app.LoadConfig(writeConfig(t, "api_key: k1\n"))
	assert.ErrorIs(t, err, app.ErrMissingGameID)

	_, err = app.LoadConfig(writeConfig(t, "game_id: g1\n"))
	assert.ErrorIs(t, err, app.ErrMissingAPIKey)

	_, err = app.LoadConfig(writeConfig(t, "game_id: g1\napi_key: k1\nstore: redis\n"))
	assert.ErrorIs(t, err, app.ErrInvalidStore)

	_, err = app.LoadConfig(writeConfig(t, "game_id: g1\napi_key: k1\nplatform: windows\n"))
	assert.ErrorIs(t, err, app.ErrInvalidPlatform)

	_, err = app.LoadConfig(writeConfig(t, "game_id: g1\napi_key: k1\ntimeout: -1s\n"))
	assert.ErrorIs(t, err, app.ErrInvalidTimeout)

	t.Setenv("TEXTBUDDY_ENABLE_LOGS", "sometimes")
	_, err = app.LoadConfig(writeConfig(t, "game_id: g1\napi_key: k1\n"))
	assert.Error(t, err)

	_, err = app.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestLoadConfig_EmptyFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	t.Setenv("TEXTBUDDY_GAME_ID", "g1")
	t.Setenv("TEXTBUDDY_API_KEY", "k1")

	cfg, err := app.LoadConfig(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, app.Defaults().Timeout, cfg.Timeout)
	assert.Equal(t, store.KindFile, cfg.Store)
}

func TestWire_StartAgainstBackend(t *testing.T) {
	srv, err := server.New(server.Config{APIKey: "k1", PhoneNumber: "+15550100"}, xlog.Nop())
	require.NoError(t, err)
	ts := httptest.NewServer(srv.Handler())
	defer ts.Close()

	for _, kind := range []store.Kind{store.KindMemory, store.KindFile, store.KindSQLite} {
		t.Run(string(kind), func(t *testing.T) {
			cfg := app.Defaults()
			cfg.GameID, cfg.APIKey, cfg.BaseURL = "g1", "k1", ts.URL
			cfg.Home = filepath.Join(t.TempDir(), "home")
			cfg.Store = kind

			var opened []string
			w, err := app.NewWire(cfg, func(_ context.Context, url string) error {
				opened = append(opened, url)
				return nil
			})
			require.NoError(t, err)
			a := app.New(w)
			defer a.Close()

			require.NoError(t, a.Start(context.Background()))
			assert.Equal(t, domain.PhoneNumber("+15550100"), a.Service.PhoneNumber())

			a.Service.Subscribe(context.Background())
			require.Len(t, opened, 1)
			assert.Equal(t, "sms:+15550100?body=Action%3A%20SUBSCRIBE%0AGameID%3A%20g1", opened[0])
		})
	}
}

func TestWire_StartFailure(t *testing.T) {
	ts := httptest.NewServer(nil)
	url := ts.URL
	ts.Close()

	cfg := app.Defaults()
	cfg.GameID, cfg.APIKey, cfg.BaseURL = "g1", "k1", url
	cfg.Store = store.KindMemory

	w, err := app.NewWire(cfg, nil)
	require.NoError(t, err)
	a := app.New(w)
	defer a.Close()

	err = a.Start(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "network")
}

func TestWire_SealedNeedsPassphrase(t *testing.T) {
	cfg := app.Defaults()
	cfg.GameID, cfg.APIKey = "g1", "k1"
	cfg.Home = t.TempDir()
	cfg.Store = store.KindSealed

	_, err := app.NewWire(cfg, nil)
	assert.ErrorIs(t, err, store.ErrNoPassphrase)
}
