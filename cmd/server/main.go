package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	natsclient "github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	httpadapter "github.com/0xsj/aegis/internal/adapter/inbound/http"
	idpadapter "github.com/0xsj/aegis/internal/adapter/outbound/idp"
	natsadapter "github.com/0xsj/aegis/internal/adapter/outbound/nats"
	"github.com/0xsj/aegis/internal/adapter/outbound/postgres"
	rediscache "github.com/0xsj/aegis/internal/adapter/outbound/redis"
	"github.com/0xsj/aegis/internal/app/command"
	"github.com/0xsj/aegis/internal/app/query"
	"github.com/0xsj/aegis/internal/app/service"
	"github.com/0xsj/aegis/internal/config"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	logger, err := newLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("starting aegis",
		zap.String("addr", cfg.Server.Addr),
		zap.String("failure_policy", cfg.Revocation.FailurePolicy),
	)

	pool, err := connectPostgres(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to postgres: %w", err)
	}
	defer pool.Close()

	redisClient, err := connectRedis(ctx, cfg.Redis, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	defer redisClient.Close()

	natsConn, err := connectNATS(cfg.NATS, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to nats: %w", err)
	}
	defer natsConn.Close()

	// Outbound adapters
	userRepo := postgres.NewUserRepository(pool)
	revocationStore := rediscache.NewRevocationStore(redisClient, cfg.Revocation.TemporaryTTL)
	eventPublisher := natsadapter.NewEventPublisher(natsConn, cfg.NATS.SubjectPrefix)
	provider := idpadapter.NewClient(idpadapter.Config{
		BaseURL:        cfg.IdP.BaseURL,
		APIKey:         cfg.IdP.APIKey,
		RequestTimeout: cfg.IdP.Timeout,
	})

	// Services
	passwords := service.NewPasswordService(service.DefaultArgon2Params())
	tokens, err := service.NewTokenService(service.TokenConfig{
		Issuer:           cfg.Token.Issuer,
		Audience:         cfg.Token.Audience,
		SigningKey:       []byte(cfg.Token.SigningKey),
		MaxTokenLifetime: cfg.Token.MaxLifetime,
	})
	if err != nil {
		return fmt.Errorf("failed to create token service: %w", err)
	}

	// Command handlers
	writer := command.NewRevocationWriter(revocationStore, eventPublisher, logger, cfg.Revocation.MaxWriteRetries)
	changePasswordHandler := command.NewChangePasswordHandler(userRepo, passwords, writer, provider, eventPublisher, logger)
	changeEmailHandler := command.NewChangeEmailHandler(userRepo, passwords, writer, provider, eventPublisher, logger)
	logoutEverywhereHandler := command.NewLogoutEverywhereHandler(writer, provider, logger)
	forceLogoutHandler := command.NewForceLogoutHandler(writer, provider, logger)
	deleteAccountHandler := command.NewDeleteAccountHandler(userRepo, writer, provider, eventPublisher, logger)
	clearRevocationHandler := command.NewClearRevocationHandler(revocationStore, eventPublisher)
	identityEventHandler := command.NewProcessIdentityEventHandler(writer, logger)

	// Query handlers
	getUserHandler := query.NewGetUserHandler(userRepo)
	searchUsersHandler := query.NewSearchUsersHandler(userRepo)
	securityStatusHandler := query.NewGetSecurityStatusHandler(revocationStore)

	// HTTP surface
	handler := httpadapter.NewHandler(httpadapter.HandlerConfig{
		ChangePassword:    changePasswordHandler,
		ChangeEmail:       changeEmailHandler,
		LogoutEverywhere:  logoutEverywhereHandler,
		ForceLogout:       forceLogoutHandler,
		DeleteAccount:     deleteAccountHandler,
		ClearRevocation:   clearRevocationHandler,
		GetUser:           getUserHandler,
		SearchUsers:       searchUsersHandler,
		GetSecurityStatus: securityStatusHandler,
		Logger:            logger,
	})
	enforcement := httpadapter.NewEnforcement(
		tokens,
		revocationStore,
		httpadapter.FailurePolicy(cfg.Revocation.FailurePolicy),
		cfg.Revocation.CheckTimeout,
		logger,
	)
	adminAuth := httpadapter.NewAdminAuth(cfg.Admin.Token, logger)
	webhook := httpadapter.NewWebhookHandler([]byte(cfg.Webhook.Secret), identityEventHandler, eventPublisher, logger)

	router := httpadapter.NewRouter(handler, enforcement, adminAuth, webhook)
	server := httpadapter.NewServer(httpadapter.ServerConfig{
		Addr:            cfg.Server.Addr,
		ReadTimeout:     cfg.Server.ReadTimeout,
		WriteTimeout:    cfg.Server.WriteTimeout,
		ShutdownTimeout: cfg.Server.ShutdownTimeout,
	}, router, logger)

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Run()
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		return fmt.Errorf("server error: %w", err)
	case sig := <-sigChan:
		logger.Info("received shutdown signal", zap.String("signal", sig.String()))
		cancel()

		if err := server.Stop(context.Background()); err != nil {
			return fmt.Errorf("failed to stop server: %w", err)
		}

		logger.Info("aegis stopped gracefully")
		return nil
	}
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}

	var zapCfg zap.Config
	if cfg.Development {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}
	zapCfg.Level = zap.NewAtomicLevelAt(level)

	return zapCfg.Build()
}

func connectPostgres(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*pgxpool.Pool, error) {
	poolCfg, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to parse dsn: %w", err)
	}

	pool, err := pgxpool.NewWithConfig(ctx, poolCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("connected to postgres")
	return pool, nil
}

func connectRedis(ctx context.Context, cfg config.RedisConfig, logger *zap.Logger) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	logger.Info("connected to redis", zap.String("addr", cfg.Addr))
	return client, nil
}

func connectNATS(cfg config.NATSConfig, logger *zap.Logger) (*natsclient.Conn, error) {
	opts := []natsclient.Option{
		natsclient.MaxReconnects(-1),
		natsclient.ReconnectWait(2 * time.Second),
		natsclient.DisconnectErrHandler(func(nc *natsclient.Conn, err error) {
			if err != nil {
				logger.Warn("nats disconnected", zap.Error(err))
			}
		}),
		natsclient.ReconnectHandler(func(nc *natsclient.Conn) {
			logger.Info("nats reconnected", zap.String("url", nc.ConnectedUrl()))
		}),
	}

	conn, err := natsclient.Connect(cfg.URL, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	logger.Info("connected to nats", zap.String("url", conn.ConnectedUrl()))
	return conn, nil
}
