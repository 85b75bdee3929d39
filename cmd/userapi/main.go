package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/urfave/cli/v2"

	"github.com/lborres/userapi"
	fiberadapter "github.com/lborres/userapi/adapters/fiber"
	"github.com/lborres/userapi/config"
	"github.com/lborres/userapi/pkg/logging"
)

var Version = "dev"

const (
	connectTimeout  = 10 * time.Second
	shutdownTimeout = 10 * time.Second
)

func main() {
	app := &cli.App{
		Name:    "userapi",
		Usage:   "HTTP CRUD service for users backed by a document store",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to a TOML config file",
				EnvVars: []string{"USERAPI_CONFIG"},
			},
			&cli.StringFlag{
				Name:  "database-uri",
				Usage: "store URI (mongodb://, postgres://, memory://)",
			},
			&cli.StringFlag{
				Name:  "database-name",
				Usage: "database name for MongoDB",
			},
			&cli.StringFlag{
				Name:  "listen",
				Usage: "HTTP listen address",
			},
			&cli.StringFlag{
				Name:  "log-level",
				Usage: "trace, debug, info, warn or error",
			},
			&cli.StringFlag{
				Name:  "log-format",
				Usage: "console or json",
			},
		},
		Action: serve,
		Commands: []*cli.Command{
			{
				Name:   "serve",
				Usage:  "start the HTTP server (default)",
				Action: serve,
			},
			{
				Name:  "routes",
				Usage: "list the HTTP endpoints with their request bodies and status codes",
				Action: func(c *cli.Context) error {
					cfg, err := loadConfig(c)
					if err != nil {
						return err
					}
					endpoints, err := registeredEndpoints()
					if err != nil {
						return err
					}
					return printRoutes(c.App.Writer, cfg.Server.BasePath, endpoints)
				},
			},
			{
				Name:  "check-config",
				Usage: "load and validate the configuration, then print it",
				Action: func(c *cli.Context) error {
					cfg, err := loadConfig(c)
					if err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "database: %s (%s)\nlisten: %s\nlog: %s/%s\n",
						redactURI(cfg.Database.URI), cfg.Database.Name, cfg.Server.Listen, cfg.Log.Level, cfg.Log.Format)
					return nil
				},
			},
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := app.RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "userapi:", err)
		os.Exit(1)
	}
}

// loadConfig applies CLI flag overrides on top of file and environment settings
func loadConfig(c *cli.Context) (*config.Config, error) {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return nil, err
	}

	overrides := []struct {
		flag string
		dst  *string
	}{
		{"database-uri", &cfg.Database.URI},
		{"database-name", &cfg.Database.Name},
		{"listen", &cfg.Server.Listen},
		{"log-level", &cfg.Log.Level},
		{"log-format", &cfg.Log.Format},
	}
	for _, o := range overrides {
		if c.IsSet(o.flag) {
			*o.dst = c.String(o.flag)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func serve(c *cli.Context) error {
	cfg, err := loadConfig(c)
	if err != nil {
		return err
	}

	logger, err := logging.New(logging.Options{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
	})
	if err != nil {
		return err
	}

	connectCtx, cancel := context.WithTimeout(c.Context, connectTimeout)
	storage, err := openStorage(connectCtx, cfg.Database)
	cancel()
	if err != nil {
		return fmt.Errorf("could not open storage: %w", err)
	}
	defer closeStorage(logger, storage)

	app := fiberadapter.NewApp()

	if _, err := userapi.New(userapi.Config{
		Storage: storage,
		HTTP: fiberadapter.New(app,
			fiberadapter.WithLogger(logger),
			fiberadapter.WithRoutes(extraRoutes()...),
		),
		Logger:   &logger,
		BasePath: cfg.Server.BasePath,
	}); err != nil {
		return fmt.Errorf("could not create userapi instance: %w", err)
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info().
			Str("addr", cfg.Server.Listen).
			Str("database", redactURI(cfg.Database.URI)).
			Msg("server starting")
		errCh <- app.Listen(cfg.Server.Listen)
	}()

	select {
	case err := <-errCh:
		return err
	case <-c.Context.Done():
	}

	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown error")
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
		logger.Warn().Err(err).Msg("listener returned after shutdown")
	}

	logger.Info().Msg("server shutdown complete")
	return nil
}

func closeStorage(logger zerolog.Logger, storage userapi.UserStorage) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := storage.Close(ctx); err != nil {
		logger.Error().Err(err).Msg("storage close error")
	}
}
