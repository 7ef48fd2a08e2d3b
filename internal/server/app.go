// Package server initializes and runs the application: it connects storage
// backends, applies migrations and serves the HTTP API until shutdown.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/contactkeeper/contactkeeper/internal/logging"
	"github.com/contactkeeper/contactkeeper/internal/server/auth"
	"github.com/contactkeeper/contactkeeper/internal/server/avatar"
	"github.com/contactkeeper/contactkeeper/internal/server/cache"
	"github.com/contactkeeper/contactkeeper/internal/server/config"
	"github.com/contactkeeper/contactkeeper/internal/server/email"
	"github.com/contactkeeper/contactkeeper/internal/server/httpapi"
	"github.com/contactkeeper/contactkeeper/internal/server/repositories/repomanager"
	"github.com/contactkeeper/contactkeeper/internal/server/services"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/redis/go-redis/v9"
)

type App struct {
	config *config.Config
	logger logging.Logger
	db     *sql.DB
	redis  *redis.Client
	server *httpapi.Server
}

func NewApp(ctx context.Context, cfg *config.Config) (*App, error) {

	logger := logging.NewSlogLogger(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	db, err := sql.Open("pgx", cfg.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm, err := repomanager.NewPostgresRepositoryManager(db)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := rm.RunMigrations(ctx, db); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	tokens := auth.NewTokenService([]byte(cfg.SecretKey))
	userCache := cache.NewRedisUserCache(redisClient, logger)
	sender := email.NewSMTPSender(cfg)
	uploader := avatar.NewS3Uploader(cfg)

	userService := services.NewUserService(db, rm, tokens, userCache, sender, uploader, logger, cfg)
	contactService := services.NewContactService(db, rm)

	server := httpapi.NewServer(cfg, userService, contactService, logger)

	return &App{
		config: cfg,
		logger: logger,
		db:     db,
		redis:  redisClient,
		server: server,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info("starting app", "addr", app.config.EndpointAddr)

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.server.Run(ctx); err != nil {
			app.logger.Error("http server error", "error", err)
			cancelFunc()
		}
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error("db close error", "error", err)
	}
	if err := app.redis.Close(); err != nil {
		app.logger.Error("redis close error", "error", err)
	}

	app.logger.Info("app stopped")
}
