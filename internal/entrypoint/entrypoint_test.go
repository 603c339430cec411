package entrypoint

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/commlog/internal/config"
	"github.com/mrlokans/commlog/internal/services"
)

func testConfig(t *testing.T, backend config.StorageBackend) *config.Config {
	t.Helper()
	return &config.Config{
		Global:   config.Global{ShutdownTimeoutInSeconds: 1},
		Database: config.Database{Path: filepath.Join(t.TempDir(), "commlog.db")},
		Storage:  config.Storage{Backend: backend},
		Import: config.Import{
			MaxFileMB:     1,
			SessionTTL:    time.Minute,
			PurgeSchedule: "*/10 * * * *",
		},
		Auth: config.Auth{Mode: config.AuthModeNone},
		Audit: config.Audit{
			RetentionDays:   30,
			CleanupSchedule: "0 3 * * *",
		},
	}
}

func TestNewApp_SQLite(t *testing.T) {
	app, err := NewApp(testConfig(t, config.StorageSQLite))
	require.NoError(t, err)
	defer app.Close()

	assert.NotNil(t, app.DB)
	assert.NotNil(t, app.Audit)
	assert.NotNil(t, app.Users)

	entry, err := app.Entries.Create(context.Background(), 0, services.EntryInput{Title: "a", Description: "b"})
	require.NoError(t, err)
	assert.NotZero(t, entry.ID)
}

func TestNewApp_Memory(t *testing.T) {
	app, err := NewApp(testConfig(t, config.StorageMemory))
	require.NoError(t, err)
	defer app.Close()

	assert.Nil(t, app.DB)
	assert.Nil(t, app.Audit)
	assert.Nil(t, app.Users)
	assert.NotNil(t, app.Sessions)
}

func TestNewApp_RejectsBadConfig(t *testing.T) {
	_, err := NewApp(testConfig(t, "postgres"))
	assert.ErrorContains(t, err, "unknown storage backend")

	cfg := testConfig(t, config.StorageMemory)
	cfg.Auth.Mode = config.AuthModeToken
	_, err = NewApp(cfg)
	assert.ErrorContains(t, err, "sqlite")
}

func TestApp_Router(t *testing.T) {
	for _, backend := range []config.StorageBackend{config.StorageSQLite, config.StorageMemory} {
		t.Run(string(backend), func(t *testing.T) {
			app, err := NewApp(testConfig(t, backend))
			require.NoError(t, err)
			defer app.Close()
			router := app.Router("test")

			w := httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest("GET", "/health", nil))
			assert.Equal(t, http.StatusOK, w.Code)

			w = httptest.NewRecorder()
			router.ServeHTTP(w, httptest.NewRequest("GET", "/api/entries", nil))
			assert.Equal(t, http.StatusOK, w.Code)
		})
	}
}

func TestApp_Scheduler(t *testing.T) {
	app, err := NewApp(testConfig(t, config.StorageSQLite))
	require.NoError(t, err)
	defer app.Close()

	s, err := app.Scheduler()
	require.NoError(t, err)
	require.NotNil(t, s)

	app.Config.Import.PurgeSchedule = "not a schedule"
	_, err = app.Scheduler()
	assert.Error(t, err)
}

func TestServe_ShutsDownOnCancel(t *testing.T) {
	cfg := testConfig(t, config.StorageMemory)
	srv := &http.Server{Addr: "127.0.0.1:0", Handler: http.NotFoundHandler()}

	ctx, cancel := context.WithCancel(context.Background())
	shutdownCalled := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- Serve(ctx, srv, cfg, func(context.Context) { close(shutdownCalled) })
	}()

	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
	<-shutdownCalled
}
