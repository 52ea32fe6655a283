package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/phrazzld/scry-progress/internal/api"
	"github.com/phrazzld/scry-progress/internal/config"
	"github.com/phrazzld/scry-progress/internal/domain/srs"
	"github.com/phrazzld/scry-progress/internal/platform/lock"
	"github.com/phrazzld/scry-progress/internal/platform/memory"
	"github.com/phrazzld/scry-progress/internal/platform/postgres"
	"github.com/phrazzld/scry-progress/internal/platform/redis"
	"github.com/phrazzld/scry-progress/internal/redact"
	"github.com/phrazzld/scry-progress/internal/service"
	"github.com/phrazzld/scry-progress/internal/service/auth"
	"github.com/phrazzld/scry-progress/internal/store"
	goredis "github.com/redis/go-redis/v9"
)

// application holds the shared dependencies and releases them on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	db    *sql.DB
	redis *goredis.Client

	attemptStore  store.AttemptStore
	scheduleStore store.ScheduleStore
	sessionStore  store.SessionStore
	catalog       store.QuestionCatalog
	locker        service.PairLocker

	jwtService auth.JWTService
	services   api.Services
}

// newApplication wires stores, locks and services from cfg. An empty
// database URL selects the in-memory stores and an empty redis address keeps
// pair locking in-process.
func newApplication(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*application, error) {
	app := &application{config: cfg, logger: logger}

	var err error
	app.jwtService, err = auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize JWT service: %w", err)
	}
	logger.Info("JWT authentication service initialized",
		slog.Int("token_lifetime_minutes", cfg.Auth.TokenLifetimeMinutes))

	if err := app.setupStores(ctx); err != nil {
		app.cleanup()
		return nil, err
	}
	if err := app.setupLocker(ctx); err != nil {
		app.cleanup()
		return nil, err
	}
	if err := app.setupServices(); err != nil {
		app.cleanup()
		return nil, err
	}

	logger.Info("application initialized")
	return app, nil
}

func (app *application) setupStores(ctx context.Context) error {
	if app.config.Database.URL == "" {
		app.attemptStore = memory.NewAttemptStore()
		app.scheduleStore = memory.NewScheduleStore()
		app.sessionStore = memory.NewSessionStore()
		app.catalog = memory.NewQuestionCatalog(nil)
		app.logger.Warn("database.url not set, using in-memory stores")
		return nil
	}

	db, err := openDatabase(ctx, app.config.Database, app.logger)
	if err != nil {
		return err
	}
	app.db = db
	app.attemptStore = postgres.NewPostgresAttemptStore(db, app.logger)
	app.scheduleStore = postgres.NewPostgresScheduleStore(db, app.logger)
	app.sessionStore = postgres.NewPostgresSessionStore(db, app.logger)
	app.catalog = postgres.NewPostgresQuestionCatalog(db, app.logger)
	return nil
}

func (app *application) setupLocker(ctx context.Context) error {
	if app.config.Redis.Addr == "" {
		app.locker = lock.NewLocal()
		app.logger.Info("using in-process pair locks")
		return nil
	}

	client, err := redis.Connect(ctx, app.config.Redis)
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %s", redact.Error(err))
	}
	app.redis = client
	ttl := time.Duration(app.config.Redis.LockTTLMillis) * time.Millisecond
	app.locker = redis.NewLocker(client, ttl, app.logger)
	app.logger.Info("using redis pair locks",
		slog.String("addr", app.config.Redis.Addr),
		slog.Duration("ttl", ttl))
	return nil
}

func (app *application) setupServices() error {
	cfg := app.config

	location, err := time.LoadLocation(cfg.Analytics.Timezone)
	if err != nil {
		return fmt.Errorf("invalid analytics timezone %q: %w", cfg.Analytics.Timezone, err)
	}
	opts := []service.Option{
		service.WithLocation(location),
		service.WithTrendDefaults(cfg.Analytics.TrendWindowDays, cfg.Analytics.TrendHorizonDays),
	}

	srsService, err := srs.NewServiceWithParams(srs.NewParams(srs.ParamsConfig{
		InitialEaseFactor: cfg.SRS.InitialEaseFactor,
		MinEaseFactor:     cfg.SRS.MinEaseFactor,
	}))
	if err != nil {
		return fmt.Errorf("failed to create SRS service: %w", err)
	}

	streaks := service.NewStreakService(app.scheduleStore, app.sessionStore, app.logger, opts...)
	app.services = api.Services{
		Attempts: service.NewAttemptService(app.attemptStore, app.locker, app.logger),
		Reviews:  service.NewReviewService(app.scheduleStore, srsService, app.locker, app.logger, opts...),
		Progress: service.NewProgressService(
			app.attemptStore, app.catalog, app.scheduleStore, streaks, app.logger, opts...,
		),
		Streaks:  streaks,
		Sessions: service.NewSessionService(app.sessionStore, app.attemptStore, app.catalog, app.logger, opts...),
	}
	return nil
}

func (app *application) handler() http.Handler {
	return api.NewRouter(app.services, app.jwtService, app.logger)
}

// cleanup releases connections. It is safe to call on a partly built
// application.
func (app *application) cleanup() {
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error("error closing redis client", slog.String("error", err.Error()))
		}
	}
	if app.db != nil {
		if err := app.db.Close(); err != nil {
			app.logger.Error("error closing database connection", slog.String("error", err.Error()))
		}
	}
	app.logger.Info("application shutdown completed")
}
