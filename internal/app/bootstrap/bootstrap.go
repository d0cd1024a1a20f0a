package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	votingroom "ivote/contexts/estimation/voting-room"
	"ivote/contexts/estimation/voting-room/adapters/memory"
	postgresadapter "ivote/contexts/estimation/voting-room/adapters/postgres"
	redisadapter "ivote/contexts/estimation/voting-room/adapters/redis"
	"ivote/contexts/estimation/voting-room/adapters/runtime"
	sqliteadapter "ivote/contexts/estimation/voting-room/adapters/sqlite"
	"ivote/contexts/estimation/voting-room/application/workers"
	"ivote/internal/platform/config"
	"ivote/internal/platform/db"
	"ivote/internal/platform/httpserver"
	"ivote/internal/platform/logging"
	"ivote/internal/platform/messaging"
	"ivote/internal/shared/codec"

	"github.com/redis/go-redis/v9"
)

// Package bootstrap is the composition root.
// Keep construction/wiring here so module code stays framework-agnostic.

const shutdownTimeout = 10 * time.Second

type APIApp struct {
	server        *httpserver.Server
	sweeper       *workers.RoomExpirySweeper
	sweepInterval time.Duration
	closeStore    func() error
	logger        *slog.Logger
}

type WorkerApp struct {
	sweeper       *workers.RoomExpirySweeper
	sweepInterval time.Duration
	store         string
	closeStore    func() error
	logger        *slog.Logger
}

func BuildAPI(ctx context.Context, overrides config.Overrides) (*APIApp, error) {
	cfg, err := loadConfig(overrides)
	if err != nil {
		return nil, err
	}
	logger := newLogger(cfg, "api")

	deps, closeStore, err := openRoomStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}

	events := messaging.NewBroadcaster(logger)
	deps.Events = events
	module := votingroom.NewModule(deps)

	app := &APIApp{
		server: httpserver.New(module, events, logger, httpserver.Options{
			Addr:            normalizeAddr(cfg.HTTPPort),
			SecureCookies:   cfg.SecureCookies,
			SessionSecret:   cfg.SessionSecret,
			TrustUserHeader: cfg.TrustUserHeader,
		}),
		sweepInterval: cfg.SweepInterval,
		closeStore:    closeStore,
		logger:        logger,
	}
	// A memory store lives and dies with this process, so it is swept here.
	if cfg.RoomStore == config.StoreMemory {
		app.sweeper = module.Sweeper
	}
	return app, nil
}

func BuildWorker(ctx context.Context, overrides config.Overrides) (*WorkerApp, error) {
	cfg, err := loadConfig(overrides)
	if err != nil {
		return nil, err
	}
	logger := newLogger(cfg, "worker")

	app := &WorkerApp{
		sweepInterval: cfg.SweepInterval,
		store:         cfg.RoomStore,
		closeStore:    func() error { return nil },
		logger:        logger,
	}
	switch cfg.RoomStore {
	case config.StorePostgres, config.StoreSQLite:
	default:
		return app, nil
	}

	deps, closeStore, err := openRoomStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	app.closeStore = closeStore
	app.sweeper = votingroom.NewModule(deps).Sweeper
	return app, nil
}

// Run serves HTTP until ctx is cancelled, then shuts the server down.
func (a *APIApp) Run(ctx context.Context) error {
	a.logger.Info("api app started",
		"event", "bootstrap_api_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
	)

	if a.sweeper != nil {
		go func() {
			_ = a.sweeper.Run(ctx, a.sweepInterval)
		}()
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- a.server.Start()
	}()

	select {
	case err := <-serveErr:
		return err
	case <-ctx.Done():
	}

	a.logger.Info("api app stopping",
		"event", "bootstrap_api_stopping",
		"module", "internal/app/bootstrap",
		"layer", "platform",
	)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}
	return <-serveErr
}

func (a *APIApp) Close() error {
	if a.closeStore == nil {
		return nil
	}
	return a.closeStore()
}

func (w *WorkerApp) Run(ctx context.Context) error {
	if w.sweeper == nil {
		w.logger.Info("room store expires rooms natively, nothing to sweep",
			"event", "bootstrap_worker_idle",
			"module", "internal/app/bootstrap",
			"layer", "platform",
			"room_store", w.store,
		)
		return nil
	}

	w.logger.Info("worker app started",
		"event", "bootstrap_worker_started",
		"module", "internal/app/bootstrap",
		"layer", "platform",
		"room_store", w.store,
		"poll_interval", w.sweepInterval.String(),
	)
	err := w.sweeper.Run(ctx, w.sweepInterval)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (w *WorkerApp) Close() error {
	if w.closeStore == nil {
		return nil
	}
	return w.closeStore()
}

func loadConfig(overrides config.Overrides) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	return cfg.WithOverrides(overrides)
}

func newLogger(cfg config.Config, process string) *slog.Logger {
	logger := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat).
		With("service", cfg.ServiceName, "process", process)
	slog.SetDefault(logger)
	return logger
}

// openRoomStore builds the configured room store. The returned dependencies
// carry everything except the event publisher.
func openRoomStore(ctx context.Context, cfg config.Config, logger *slog.Logger) (votingroom.Dependencies, func() error, error) {
	deps := votingroom.Dependencies{
		RoomIDs: runtime.RoomIDs{},
		Clock:   runtime.SystemClock{},
		Logger:  logger,
	}

	if cfg.RoomStore == config.StoreMemory {
		store := memory.NewStore(cfg.RoomTTL)
		deps.Rooms = store
		deps.RoomIDs = store
		deps.Clock = store
		deps.Expired = store
		return deps, func() error { return nil }, nil
	}

	roomCodec, err := codec.New(cfg.RoomCodec)
	if err != nil {
		return votingroom.Dependencies{}, nil, err
	}

	switch cfg.RoomStore {
	case config.StoreRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			return votingroom.Dependencies{}, nil, fmt.Errorf("ping redis: %w", err)
		}
		deps.Rooms = redisadapter.NewStore(client, roomCodec, cfg.RoomTTL, logger)
		return deps, client.Close, nil

	case config.StorePostgres:
		pg, err := db.Connect(cfg.PostgresDSN)
		if err != nil {
			return votingroom.Dependencies{}, nil, err
		}
		if err := pg.Migrate(); err != nil {
			_ = pg.Close()
			return votingroom.Dependencies{}, nil, err
		}
		repo := postgresadapter.NewRepository(pg.DB, roomCodec, cfg.RoomTTL, logger)
		deps.Rooms = repo
		deps.Expired = repo
		return deps, pg.Close, nil

	case config.StoreSQLite:
		sqlDB, err := db.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return votingroom.Dependencies{}, nil, err
		}
		store := sqliteadapter.New(sqlDB, roomCodec, cfg.RoomTTL, logger)
		if err := store.InitSchema(ctx); err != nil {
			_ = sqlDB.Close()
			return votingroom.Dependencies{}, nil, err
		}
		deps.Rooms = store
		deps.Expired = store
		return deps, sqlDB.Close, nil
	}
	return votingroom.Dependencies{}, nil, fmt.Errorf("unsupported room store %q", cfg.RoomStore)
}

func normalizeAddr(port string) string {
	value := strings.TrimSpace(port)
	if value == "" {
		return ":8080"
	}
	if strings.Contains(value, ":") {
		return value
	}
	return ":" + value
}
