// Command resultd serves the users demo API on top of resultkit.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/kbukum/resultkit/bootstrap"
	"github.com/kbukum/resultkit/config"
	"github.com/kbukum/resultkit/errors"
	"github.com/kbukum/resultkit/internal/users"
	"github.com/kbukum/resultkit/logger"
)

const serviceName = "resultd"

// envDefaults are the keys that can be set from the environment even when
// the config file leaves them out, e.g. AUTH_SECRET or SERVER_PORT.
var envDefaults = map[string]any{
	"name":                       serviceName,
	"environment":                "development",
	"server.host":                "",
	"server.port":                8080,
	"server.tls.cert_file":       "",
	"server.tls.key_file":        "",
	"server.tls.ca_file":         "",
	"server.metrics.enabled":     false,
	"server.compression.enabled": false,
	"database.driver":            "sqlite",
	"database.dsn":               "resultd.db",
	"database.auto_migrate":      true,
	"auth.secret":                "",
	"auth.issuer":                serviceName,
	"events.log":                 true,
	"events.stream":              true,
	"events.kafka.enabled":       false,
	"events.kafka.brokers":       []string{},
	"events.redis.enabled":       false,
	"events.redis.addr":          "localhost:6379",
	"observability.enabled":      false,
	"observability.endpoint":     "localhost:4318",
	"messages.success":           "",
	"messages.error_format":      "",
}

func main() {
	configPath := flag.String("config", "", "Path to configuration file")
	envFile := flag.String("env", "", "Path to .env file")
	adminEmail := flag.String("admin-email", os.Getenv("RESULTD_ADMIN_EMAIL"), "Seed an admin account with this email")
	flag.Parse()

	if err := run(*configPath, *envFile, *adminEmail, os.Getenv("RESULTD_ADMIN_PASSWORD")); err != nil {
		logger.Error("resultd exited with error", logger.ErrorFields("run", err))
		os.Exit(1)
	}
}

func run(configPath, envFile, adminEmail, adminPassword string) error {
	opts := []config.LoaderOption{config.WithDefaults(envDefaults)}
	if configPath != "" {
		opts = append(opts, config.WithConfigFile(configPath))
	}
	if envFile != "" {
		opts = append(opts, config.WithEnvFile(envFile))
	}

	cfg, err := bootstrap.LoadAppConfig(serviceName, opts...)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	svc, err := bootstrap.NewService(cfg)
	if err != nil {
		return err
	}
	svc.Database.WithAutoMigrate(&users.User{})

	userSvc := users.NewService(users.Deps{
		DB:        svc.Database,
		Tokens:    svc.Tokens,
		Passwords: svc.Passwords,
		Events:    svc.Publisher,
		Metrics:   svc.Metrics,
	})
	users.NewHandler(userSvc).Register(svc.Server.GinEngine().Group("/api/v1"), svc.Tokens)

	if adminEmail != "" {
		svc.OnConfigure(func(ctx context.Context, app *bootstrap.App[*bootstrap.AppConfig]) error {
			return seedAdmin(ctx, app, userSvc, adminEmail, adminPassword)
		})
	}

	return svc.Run(context.Background())
}

func seedAdmin(ctx context.Context, app *bootstrap.App[*bootstrap.AppConfig], svc *users.Service, email, password string) error {
	seeded := svc.Create(ctx, users.CreateRequest{
		Email:    email,
		Name:     "Administrator",
		Password: password,
		Role:     users.RoleAdmin,
	})
	switch {
	case seeded.IsSuccess():
		app.Logger.Info("Admin account created", logger.Fields("email", email))
	case errors.IsKind(seeded.Err(), errors.KindAlreadyExists):
		app.Logger.Debug("Admin account already exists", logger.Fields("email", email))
	default:
		return fmt.Errorf("seed admin: %s", seeded.Message())
	}
	return nil
}
