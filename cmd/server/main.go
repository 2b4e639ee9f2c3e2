package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	cip "github.com/aws/aws-sdk-go-v2/service/cognitoidentityprovider"
	"github.com/caarlos0/env/v11"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	bankgate "github.com/goliatone/bankgate"
	"github.com/goliatone/bankgate/provider/cognito"
	"github.com/goliatone/go-router"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/pgdriver"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func main() {
	if err := run(); err != nil {
		log.Fatal(err)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := env.ParseAs[bankgate.Config]()
	if err != nil {
		return fmt.Errorf("parse configuration: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logger := newLogger(cfg.Environment)

	db, err := openDatabase(cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	if err := ensureSchema(ctx, db); err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}

	repos := bankgate.NewRepositoryManager(db)
	if err := repos.Validate(); err != nil {
		return err
	}

	provider, screener, err := buildProvider(ctx, cfg)
	if err != nil {
		return err
	}
	if screener != nil {
		defer screener.Close()
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	metrics := bankgate.NewCollector(registry)

	errorHandler := bankgate.NewJSONErrorHandler(logger)

	resolver := bankgate.NewResolver(provider, repos.Users(), repos.Agents()).
		WithLogger(logger).
		WithMetrics(metrics)

	guard := bankgate.NewAccessGuard(resolver).
		WithLogger(logger).
		WithMetrics(metrics).
		WithErrorHandler(errorHandler)
	if screener != nil {
		guard.WithScreener(screener)
	}

	bootstrap := &bankgate.EnsureAdminAgentHandler{
		Agents:   repos.Agents(),
		Resolver: resolver,
		Logger:   logger,
	}
	if err := bootstrap.Execute(ctx, bankgate.EnsureAdminAgentMessage{Email: cfg.Admin.Email}); err != nil {
		return fmt.Errorf("admin bootstrap: %w", err)
	}

	authController := bankgate.NewAuthController(resolver).
		WithLogger(logger).
		WithErrorHandler(errorHandler)
	userController := bankgate.NewUserController(resolver, repos.Users(), repos.BusinessProfiles()).
		WithLogger(logger).
		WithErrorHandler(errorHandler)
	agentController := bankgate.NewAgentController(resolver).
		WithLogger(logger).
		WithErrorHandler(errorHandler)

	var fiberApp *fiber.App
	srv := router.NewFiberAdapter(func(a *fiber.App) *fiber.App {
		fiberApp = router.DefaultFiberOptions(fiber.New(fiber.Config{
			AppName:       "bankgate",
			StrictRouting: false,
		}))
		return fiberApp
	})

	fiberApp.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	bankgate.RegisterRoutes(srv.Router(), guard, authController, userController, agentController)

	go func() {
		<-ctx.Done()
		if err := fiberApp.Shutdown(); err != nil {
			logger.Error("server shutdown", "error", err)
		}
	}()

	logger.Info("listening", "port", cfg.Port, "env", cfg.Environment)
	return srv.Serve(fmt.Sprintf(":%d", cfg.Port))
}

func openDatabase(dsn string) (*bun.DB, error) {
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
		return bun.NewDB(sqldb, pgdialect.New()), nil
	}

	sqldb, err := sql.Open(sqliteshim.ShimName, dsn)
	if err != nil {
		return nil, err
	}
	return bun.NewDB(sqldb, sqlitedialect.New()), nil
}

func ensureSchema(ctx context.Context, db *bun.DB) error {
	models := []any{
		(*bankgate.User)(nil),
		(*bankgate.Agent)(nil),
		(*bankgate.BusinessProfile)(nil),
	}
	for _, model := range models {
		if _, err := db.NewCreateTable().
			Model(model).
			IfNotExists().
			WithForeignKeys().
			Exec(ctx); err != nil {
			return err
		}
	}
	return nil
}

func buildProvider(ctx context.Context, cfg bankgate.Config) (bankgate.IdentityProvider, *cognito.TokenValidator, error) {
	pcfg := cognito.Config{
		Region:                 cfg.Cognito.Region,
		UserPoolID:             cfg.Cognito.UserPoolID,
		ClientID:               cfg.Cognito.ClientID,
		ClientSecret:           cfg.Cognito.ClientSecret,
		Endpoint:               cfg.Cognito.Endpoint,
		AgentTemporaryPassword: cfg.Admin.TemporaryPassword,
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(pcfg.Region))
	if err != nil {
		return nil, nil, fmt.Errorf("load aws configuration: %w", err)
	}

	client := cip.NewFromConfig(awsCfg, func(o *cip.Options) {
		if pcfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(pcfg.Endpoint)
		}
	})

	adapter, err := cognito.NewAdapter(client, pcfg)
	if err != nil {
		return nil, nil, err
	}

	// The screener is optional; a custom endpoint usually means a local pool
	// emulator without a JWKS, so skip it there.
	if pcfg.Endpoint != "" {
		return adapter, nil, nil
	}

	screener, err := cognito.NewTokenValidator(pcfg)
	if err != nil {
		return nil, nil, err
	}
	return adapter, screener, nil
}

type slogLogger struct {
	logger *slog.Logger
}

func newLogger(environment string) slogLogger {
	level := slog.LevelInfo
	if environment == "development" {
		level = slog.LevelDebug
	}
	return slogLogger{
		logger: slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})),
	}
}

func (l slogLogger) Debug(msg string, args ...any) { l.logger.Debug(msg, args...) }
func (l slogLogger) Info(msg string, args ...any)  { l.logger.Info(msg, args...) }
func (l slogLogger) Error(msg string, args ...any) { l.logger.Error(msg, args...) }
