// Package loginserver собирает HTTP-сервер регистрации и входа:
// хранилище, сервис учетных записей, публикацию событий и маршруты.
package loginserver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/magabrotheeeer/login-server/internal/config"
	"github.com/magabrotheeeer/login-server/internal/http/middlewarectx"
	"github.com/magabrotheeeer/login-server/internal/lib/password"
	"github.com/magabrotheeeer/login-server/internal/lib/sl"
	"github.com/magabrotheeeer/login-server/internal/migrations"
	"github.com/magabrotheeeer/login-server/internal/rabbitmq"
	"github.com/magabrotheeeer/login-server/internal/services/account"
	"github.com/magabrotheeeer/login-server/internal/storage/inmem"
	"github.com/magabrotheeeer/login-server/internal/storage/mongodb"
	"github.com/magabrotheeeer/login-server/internal/storage/postgresql"
	"github.com/magabrotheeeer/login-server/internal/storage/redisstore"
)

const shutdownTimeout = 15 * time.Second

// userStore — общий контракт всех драйверов хранилища.
type userStore interface {
	account.UserRepository
	Ping(ctx context.Context) error
	io.Closer
}

type App struct {
	server    *http.Server
	logger    *slog.Logger
	store     userStore
	publisher *rabbitmq.Publisher
}

func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "loginserver.New"

	store, err := openStore(ctx, cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var (
		publisher *rabbitmq.Publisher
		events    account.EventPublisher
	)
	if cfg.RabbitMQ.URL != "" {
		publisher, err = rabbitmq.NewPublisher(cfg.RabbitMQ)
		if err != nil {
			_ = store.Close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		events = publisher
		logger.Info("account events enabled",
			slog.String("exchange", cfg.RabbitMQ.Exchange),
			slog.String("queue", cfg.RabbitMQ.Queue))
	}

	hasher := password.NewHasher(cfg.BcryptCost)
	accountService := account.NewService(store, hasher, events, logger)

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	metrics, err := middlewarectx.NewMetrics(registry)
	if err != nil {
		_ = store.Close()
		if publisher != nil {
			_ = publisher.Close()
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	router := chi.NewRouter()
	RegisterRoutes(router, logger, accountService, store, metrics,
		promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	logger.Debug("app initialized",
		slog.String("storage", cfg.Storage.Driver),
		slog.Int("bcrypt_cost", hasher.Cost()))

	return &App{
		server:    srv,
		logger:    logger,
		store:     store,
		publisher: publisher,
	}, nil
}

// openStore открывает хранилище, выбранное в storage.driver.
// Для postgres дополнительно применяются миграции.
func openStore(ctx context.Context, cfg *config.Config, logger *slog.Logger) (userStore, error) {
	const op = "loginserver.openStore"

	switch cfg.Storage.Driver {
	case config.DriverPostgres:
		db, err := postgresql.New(ctx, cfg.Storage.ConnectionString)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if err := migrations.Run(db.DB, cfg.Storage.MigrationsPath); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		logger.Info("postgres storage ready")
		return db, nil
	case config.DriverMongo:
		db, err := mongodb.New(ctx, cfg.Mongo.URI, cfg.Mongo.Database, cfg.Mongo.Collection)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		logger.Info("mongo storage ready", slog.String("database", cfg.Mongo.Database))
		return db, nil
	case config.DriverRedis:
		db, err := redisstore.New(ctx, cfg.RedisConnection)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		logger.Info("redis storage ready", slog.String("address", cfg.AddressRedis))
		return db, nil
	case config.DriverMemory:
		logger.Warn("using in-memory storage, users are lost on restart")
		return inmem.New(), nil
	default:
		return nil, fmt.Errorf("%s: unknown storage driver %q", op, cfg.Storage.Driver)
	}
}

// Handler возвращает корневой HTTP-обработчик приложения.
func (a *App) Handler() http.Handler {
	return a.server.Handler
}

// Run запускает HTTP-сервер и блокируется до ошибки сервера или отмены ctx.
// После остановки закрывает хранилище и публикатор событий.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	var runErr error
	select {
	case runErr = <-errCh:
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		runErr = a.server.Shutdown(timeoutCtx)
	}

	a.close()
	return runErr
}

func (a *App) close() {
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Error("failed to close event publisher", sl.Err(err))
		}
	}
	if err := a.store.Close(); err != nil {
		a.logger.Error("failed to close storage", sl.Err(err))
	}
}
