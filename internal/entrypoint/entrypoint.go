package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mrlokans/commlog/internal/audit"
	"github.com/mrlokans/commlog/internal/auth"
	"github.com/mrlokans/commlog/internal/config"
	"github.com/mrlokans/commlog/internal/database"
	dbaudit "github.com/mrlokans/commlog/internal/database/audit"
	"github.com/mrlokans/commlog/internal/database/entries"
	"github.com/mrlokans/commlog/internal/database/users"
	http_controllers "github.com/mrlokans/commlog/internal/http"
	"github.com/mrlokans/commlog/internal/importers"
	"github.com/mrlokans/commlog/internal/memstore"
	"github.com/mrlokans/commlog/internal/scheduler"
	"github.com/mrlokans/commlog/internal/services"
)

// ShutdownFunc is called during graceful shutdown to clean up resources.
type ShutdownFunc func(ctx context.Context)

// App holds the components shared by the server and the CLI commands.
type App struct {
	Config   *config.Config
	Entries  *services.EntryService
	Sessions *importers.Registry

	// Nil with the memory backend.
	DB    *database.Database
	Audit *audit.Service
	Users *users.Repository
}

// NewApp opens the configured store and wires the services on top of it.
func NewApp(cfg *config.Config) (*App, error) {
	app := &App{Config: cfg}

	var store services.EntryStore
	switch cfg.Storage.Backend {
	case config.StorageSQLite, "":
		db, err := database.NewDatabase(cfg.Database.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		app.DB = db
		app.Audit = audit.NewService(dbaudit.NewRepository(db.DB))
		app.Users = users.NewRepository(db.DB)
		store = entries.NewRepository(db.DB)
	case config.StorageMemory:
		if cfg.Auth.Mode == config.AuthModeToken {
			return nil, errors.New("token auth needs the sqlite backend to store users")
		}
		zap.L().Warn("using in-memory storage, entries are lost on exit")
		store = memstore.New()
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage.Backend)
	}

	app.Entries = services.NewEntryService(store)
	app.Sessions = importers.NewRegistry(app.Entries, cfg.Import.SessionTTL)
	return app, nil
}

// Close flushes pending audit writes and closes the database.
func (a *App) Close() error {
	if a.Audit != nil {
		a.Audit.Wait()
	}
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}

// Router builds the HTTP router for the app.
func (a *App) Router(version string) *gin.Engine {
	routerCfg := http_controllers.RouterConfig{
		Entries:        a.Entries,
		Sessions:       a.Sessions,
		Audit:          a.Audit,
		MaxUploadBytes: a.Config.Import.MaxUploadBytes(),
		Version:        version,
	}
	// Assigned separately so a nil *Database never becomes a non-nil interface
	if a.DB != nil {
		routerCfg.Database = a.DB
	}

	var lookup auth.UserLookup
	if a.Users != nil {
		lookup = a.Users
	}
	routerCfg.AuthMiddleware = auth.NewMiddleware(lookup, a.Config.Auth)

	return http_controllers.NewRouter(routerCfg)
}

// Scheduler registers the housekeeping jobs. Audit cleanup only runs when
// there is an audit log.
func (a *App) Scheduler() (*scheduler.Scheduler, error) {
	s := scheduler.New()
	if err := s.AddJob(scheduler.NewSessionPurgeJob(a.Sessions), a.Config.Import.PurgeSchedule); err != nil {
		return nil, err
	}
	if a.Audit != nil {
		job := scheduler.NewAuditCleanupJob(a.Audit, a.Config.Audit.RetentionDays)
		if err := s.AddJob(job, a.Config.Audit.CleanupSchedule); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// Serve runs srv until ctx is cancelled, then shuts it down within the
// configured timeout.
func Serve(ctx context.Context, srv *http.Server, cfg *config.Config, onShutdown ShutdownFunc) error {
	errCh := make(chan error, 1)
	go func() {
		zap.L().Info("starting server", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	timeout := time.Duration(cfg.Global.ShutdownTimeoutInSeconds) * time.Second
	zap.L().Info("shutting down server", zap.Duration("timeout", timeout))

	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	// Call shutdown callback first (e.g., to stop the scheduler)
	if onShutdown != nil {
		onShutdown(shutdownCtx)
	}

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	zap.L().Info("server exiting")
	return nil
}

// Run starts the HTTP server and the housekeeping jobs and blocks until
// SIGINT or SIGTERM.
func Run(cfg *config.Config, version string) error {
	zap.L().Info("starting commlog",
		zap.String("version", version),
		zap.String("storage", string(cfg.Storage.Backend)),
		zap.String("auth", string(cfg.Auth.Mode)))

	app, err := NewApp(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := app.Close(); err != nil {
			zap.L().Error("error closing app", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	jobs, err := app.Scheduler()
	if err != nil {
		return fmt.Errorf("failed to schedule jobs: %w", err)
	}
	jobs.Start(ctx)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.HTTP.Host, cfg.HTTP.Port),
		Handler: app.Router(version),
	}

	return Serve(ctx, srv, cfg, func(context.Context) {
		jobs.Stop()
	})
}
