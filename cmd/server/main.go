package main

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/webscaffold/webapp/internal/api"
	"github.com/webscaffold/webapp/internal/api/handler"
	"github.com/webscaffold/webapp/internal/core/domain"
	"github.com/webscaffold/webapp/internal/core/ports"
	"github.com/webscaffold/webapp/internal/core/service"
	"github.com/webscaffold/webapp/internal/infrastructure/db/memory"
	mongodb "github.com/webscaffold/webapp/internal/infrastructure/db/mongo"
	redisdb "github.com/webscaffold/webapp/internal/infrastructure/db/redis"
	httpserver "github.com/webscaffold/webapp/internal/infrastructure/http"
	"github.com/webscaffold/webapp/internal/infrastructure/system"
	"github.com/webscaffold/webapp/internal/pkg/config"
	"github.com/webscaffold/webapp/pkg/logger"
)

func main() {
	if err := run(); err != nil {
		// Init is a no-op once run has configured the logger.
		log := logger.Init(logger.Options{})
		log.Error().Err(err).Msg("server exited with error")
		_ = logger.Close()
		os.Exit(1)
	}
	_ = logger.Close()
}

// stores bundles the repositories and their readiness checks.
type stores struct {
	users    ports.UserRepository
	examples ports.ExampleRepository
	database string
	checkers map[string]handler.Checker
}

func run() error {
	// A missing .env is fine; the process environment still applies.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		return err
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Pretty(),
		File:   cfg.LogFile,
		App:    cfg.AppName,
	})
	log.Info().
		Str("env", cfg.Environment).
		Str("version", cfg.AppVersion).
		Bool("debug", bool(cfg.Debug)).
		Msg("starting")

	srv := httpserver.NewServer(nil, httpserver.Options{
		Addr:            cfg.Addr(),
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, log)
	// Disconnects anything opened below when startup fails or serving stops
	// early. After a graceful shutdown the hooks already ran and this is a no-op.
	defer func() {
		if err := srv.Close(); err != nil {
			log.Error().Err(err).Msg("release dependencies")
		}
	}()

	st, err := openStores(ctx, cfg, srv, log)
	if err != nil {
		return err
	}

	var limiterStore echomiddleware.RateLimiterStore
	if cfg.Redis.Addr != "" {
		client, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
		if err != nil {
			return err
		}
		srv.OnShutdown("redis", func(context.Context) error { return client.Close() })
		st.checkers["redis"] = redisdb.NewPinger(client)
		limiterStore = redisdb.NewRateLimitStore(client, cfg.RateLimit.Requests, cfg.RateLimit.Window)
		log.Info().Str("addr", cfg.Redis.Addr).Msg("redis connected")
	}

	tokens, err := service.NewJWTManager(cfg.SecretKey, cfg.Algorithm, cfg.TokenTTL())
	if err != nil {
		return err
	}
	authSvc := service.NewAuthService(st.users, tokens, log)
	exampleSvc := service.NewExampleService(st.examples, log)

	if err := seedUsers(ctx, authSvc, cfg.Seed); err != nil {
		return err
	}

	router, err := api.NewRouter(api.Deps{
		Config:         cfg,
		Logger:         log,
		Auth:           authSvc,
		Examples:       exampleSvc,
		Tokens:         tokens,
		Inspector:      system.NewInspector(""),
		Database:       st.database,
		Checkers:       st.checkers,
		RateLimitStore: limiterStore,
	})
	if err != nil {
		return err
	}
	srv.SetHandler(router)

	return srv.Run(ctx)
}

func openStores(ctx context.Context, cfg *config.Config, srv *httpserver.Server, log zerolog.Logger) (*stores, error) {
	if cfg.Mongo.URI == "" {
		log.Info().Msg("MONGO_URI not set, using in-memory storage")
		return &stores{
			users:    memory.NewUserRepository(),
			examples: memory.NewExampleRepository(),
			database: "memory",
			checkers: map[string]handler.Checker{},
		}, nil
	}

	client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return nil, err
	}
	srv.OnShutdown("mongodb", client.Disconnect)

	users := mongodb.NewUserRepository(db)
	idxCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := users.EnsureIndexes(idxCtx); err != nil {
		return nil, err
	}
	log.Info().Str("database", cfg.Mongo.Database).Msg("mongodb connected")

	return &stores{
		users:    users,
		examples: mongodb.NewExampleRepository(db),
		database: "mongodb",
		checkers: map[string]handler.Checker{"mongodb": mongodb.NewPinger(db)},
	}, nil
}

func seedUsers(ctx context.Context, auth *service.AuthService, seed config.SeedConfig) error {
	if err := auth.SeedUser(ctx, domain.NewUser{
		Username: seed.DemoUsername,
		Email:    seed.DemoUsername + "@example.com",
		FullName: "Demo User",
		Password: seed.DemoPassword,
	}); err != nil {
		return err
	}
	return auth.SeedUser(ctx, domain.NewUser{
		Username: seed.AdminUsername,
		Email:    seed.AdminEmail,
		FullName: "Administrator",
		Password: seed.AdminPassword,
		Roles:    []string{domain.RoleAdmin, domain.RoleUser},
	})
}
