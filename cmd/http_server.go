package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	goredis "github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/frahmantamala/maintenance-management/api"
	"github.com/frahmantamala/maintenance-management/internal"
	"github.com/frahmantamala/maintenance-management/internal/app"
	authRedis "github.com/frahmantamala/maintenance-management/internal/auth/redis"
	"github.com/frahmantamala/maintenance-management/internal/core/database"
	"github.com/frahmantamala/maintenance-management/internal/core/events"
	"github.com/frahmantamala/maintenance-management/internal/core/metrics"
	"github.com/frahmantamala/maintenance-management/internal/notifier"
	"github.com/frahmantamala/maintenance-management/internal/transport/middleware"
	"github.com/frahmantamala/maintenance-management/internal/transport/rest"
	"github.com/frahmantamala/maintenance-management/internal/transport/swagger"
	"github.com/frahmantamala/maintenance-management/pkg/logger"
)

const shutdownTimeout = 30 * time.Second

var httpServerCmd = &cobra.Command{
	Use:   "server",
	Short: "Start HTTP server",
	Long:  `Start the HTTP server to handle API requests`,
	Run: func(cmd *cobra.Command, args []string) {
		if err := startHTTPServer(); err != nil {
			fmt.Fprintf(os.Stderr, "server: %v\n", err)
			os.Exit(1)
		}
	},
}

type Dependencies struct {
	Config   *internal.Config
	DB       *gorm.DB
	SQL      *sqlx.DB
	Redis    *goredis.Client
	EventBus *events.EventBus
	Notifier *notifier.Notifier
	Limiter  *middleware.RateLimiter
	Router   *chi.Mux
	Logger   *slog.Logger
}

func startHTTPServer() error {
	deps, err := initializeDependencies()
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	defer deps.close()

	if err := setupRoutes(deps); err != nil {
		return err
	}

	cfg := deps.Config.Server
	addr := fmt.Sprintf(":%d", cfg.Port)
	server := &http.Server{
		Addr:              addr,
		Handler:           deps.Router,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
		ReadTimeout:       cfg.ReadTimeout,
		WriteTimeout:      cfg.WriteTimeout,
		IdleTimeout:       cfg.IdleTimeout,
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	serverErrChan := make(chan error, 1)
	go func() {
		deps.Logger.Info("starting HTTP server", "address", addr)
		serverErrChan <- server.ListenAndServe()
	}()

	select {
	case sig := <-sigChan:
		deps.Logger.Info("received signal, shutting down", "signal", sig)
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			deps.Logger.Error("server shutdown error", "error", err)
		}
		if err := deps.EventBus.Wait(ctx); err != nil {
			deps.Logger.Warn("event handlers still running at shutdown", "error", err)
		}
	case err := <-serverErrChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	}

	deps.Logger.Info("server stopped")
	return nil
}

func setupRoutes(deps *Dependencies) error {
	doc, err := swagger.Load(context.Background(), api.OpenAPI)
	if err != nil {
		return err
	}
	spec, err := swagger.SpecHandler(doc)
	if err != nil {
		return err
	}

	a := app.New(app.Dependencies{
		DB:        deps.DB,
		Tokens:    authRedis.NewTokenStore(deps.Redis),
		Publisher: deps.EventBus,
		Security:  deps.Config.Security,
		Logger:    deps.Logger,
	})

	handlers := a.Handlers
	handlers.Health = rest.NewHealthHandler(deps.SQL, deps.Redis)
	handlers.OpenAPI = spec
	handlers.RateLimiter = deps.Limiter

	opts := rest.Options{AllowedOrigins: deps.Config.Server.Origins()}
	if deps.Config.Observability.Metrics.Enabled {
		metrics.Init()
		opts.MetricsPath = deps.Config.Observability.Metrics.Path
	}

	rest.RegisterAllRoutes(deps.Router, handlers, opts, deps.Logger)
	return nil
}

func initializeDependencies() (*Dependencies, error) {
	config, err := loadConfig(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	lg := logger.Init(config.Environment, config.Observability.Logging.Level, config.Observability.Logging.Format)

	db, err := database.Open(config.Database, config.Observability.Logging.Level == "debug")
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to access sql.DB: %w", err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	deps := &Dependencies{
		Config:   config,
		DB:       db,
		SQL:      sqlx.NewDb(sqlDB, "pgx"),
		Redis:    authRedis.NewClient(config.Redis, lg),
		EventBus: events.NewEventBus(lg),
		Router:   chi.NewRouter(),
		Logger:   lg,
	}

	if config.Notifier.WebhookURL != "" {
		deps.Notifier = notifier.New(notifier.Config{
			WebhookURL:   config.Notifier.WebhookURL,
			Timeout:      config.Notifier.Timeout,
			MaxWorkers:   config.Notifier.MaxWorkers,
			JobQueueSize: config.Notifier.JobQueueSize,
			DrainTimeout: config.Notifier.DrainTimeout,
		}, lg)
		deps.EventBus.SubscribeAll(deps.Notifier.Handle, events.AllTypes...)
	} else {
		lg.Info("notifier disabled: no webhook_url configured")
	}

	if config.RateLimit.Enabled {
		deps.Limiter = middleware.NewRateLimiter(config.RateLimit.RequestsPerSecond, config.RateLimit.Burst, lg)
	}

	return deps, nil
}

func (d *Dependencies) close() {
	if d.Limiter != nil {
		d.Limiter.Stop()
	}
	if d.Notifier != nil {
		d.Notifier.Shutdown()
	}
	if err := d.Redis.Close(); err != nil {
		d.Logger.Error("redis close error", "error", err)
	}
	if err := d.SQL.Close(); err != nil {
		d.Logger.Error("database close error", "error", err)
	}
}
