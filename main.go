package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trailerstore/internal/cache"
	"trailerstore/internal/config"
	"trailerstore/internal/database"
	"trailerstore/internal/middleware"
	"trailerstore/internal/seed"
	"trailerstore/internal/server"
	"trailerstore/internal/services"
	"trailerstore/pkg/logger"
	"trailerstore/pkg/rabbitmq"

	"github.com/spf13/cobra"
	"github.com/streadway/amqp"
)

const shutdownTimeout = 10 * time.Second

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:          "trailerstore",
		Short:        "Trailer catalogue API",
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVarP(&configFile, "config", "c", "", "path to a YAML config file")

	root.AddCommand(
		newServeCmd(&configFile),
		newMigrateCmd(&configFile),
		newSeedCmd(&configFile),
		newTokenCmd(&configFile),
	)
	return root
}

// setup loads configuration and builds the process logger.
func setup(configFile string) (*config.Config, *logger.Logger, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, nil, err
	}
	log, err := logger.New(logger.Config{
		Level:       cfg.App.LogLevel,
		Development: !cfg.Production(),
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	return cfg, log, nil
}

func newServeCmd(configFile *string) *cobra.Command {
	var consumeEvents bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := setup(*configFile)
			if err != nil {
				return err
			}
			defer log.Sync() //nolint:errcheck
			return serve(cmd.Context(), cfg, log, consumeEvents)
		},
	}
	cmd.Flags().BoolVar(&consumeEvents, "consume-events", false, "log catalogue events received from RabbitMQ")
	return cmd
}

func serve(ctx context.Context, cfg *config.Config, log *logger.Logger, consumeEvents bool) error {
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// --- Store ---
	store, err := database.NewStore(cfg.Database, true)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer store.Close()
	log.Infow("store ready", "driver", cfg.Database.Driver)

	// --- Optional Redis cache ---
	var aggregates services.AggregateCache
	if cfg.Redis.Addr != "" {
		redisCache := cache.NewRedisCache(cache.NewRedisClient(cfg.Redis), "trailerstore:", cfg.Redis.TTL)
		if err := redisCache.Ping(ctx); err != nil {
			log.Warnw("redis unavailable, aggregate cache disabled", "addr", cfg.Redis.Addr, "error", err)
			redisCache.Close()
		} else {
			defer redisCache.Close()
			aggregates = redisCache
		}
	}

	// --- Optional RabbitMQ client ---
	var mqClient *rabbitmq.Client
	var events services.EventPublisher
	if cfg.RabbitMQ.URL != "" {
		mqClient, err = rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQ.URL, Exchange: cfg.RabbitMQ.Exchange}, log)
		if err != nil {
			log.Warnw("rabbitmq unavailable, catalogue events disabled", "error", err)
			mqClient = nil
		} else {
			defer mqClient.Close()
			events = mqClient
		}
	}

	service := services.NewTrailerService(store.Repo, events, aggregates, log)

	// The memory store starts empty on every run.
	if cfg.Database.Driver == config.DriverMemory {
		inputs, err := seed.Default()
		if err != nil {
			return err
		}
		if _, err := seed.Run(ctx, store.Repo, service, inputs, false, log); err != nil {
			return err
		}
	}

	var tokens middleware.TokenValidator
	if cfg.Auth.JWTSecret != "" {
		tokens = services.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
		log.Infow("write routes require a bearer token")
	}

	app := server.New(service, server.Options{
		Production: cfg.Production(),
		BodyLimit:  cfg.BodyLimit(),
		Logger:     log,
		Tokens:     tokens,
	})

	// --- Audit consumer ---
	if consumeEvents {
		if mqClient == nil {
			log.Warnw("--consume-events ignored, RabbitMQ is not configured")
		} else {
			go func() {
				handler := func(msg amqp.Delivery) error {
					return services.AuditEvent(log, msg.Body)
				}
				if err := mqClient.Consume(ctx, cfg.RabbitMQ.Queue, "trailer.*", handler); err != nil {
					log.Errorw("catalogue event consumer stopped", "error", err)
				}
			}()
		}
	}

	// Graceful shutdown handling
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	listenErr := make(chan error, 1)
	go func() {
		log.Infow("starting server", "addr", cfg.App.Port, "env", cfg.App.Env)
		listenErr <- app.Listen(cfg.App.Port)
	}()

	select {
	case err := <-listenErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case sig := <-quit:
		log.Infow("shutting down server", "signal", sig.String())
	case <-ctx.Done():
		log.Infow("shutting down server")
	}

	cancel()
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		log.Errorw("error during server shutdown", "error", err)
	}
	log.Infow("server gracefully stopped")
	return nil
}

func newMigrateCmd(configFile *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the trailers schema",
		RunE: func(_ *cobra.Command, _ []string) error {
			cfg, log, err := setup(*configFile)
			if err != nil {
				return err
			}
			defer log.Sync() //nolint:errcheck
			if cfg.Database.Driver == config.DriverMemory {
				return errors.New("migrate requires DATABASE_DRIVER sqlite or postgres")
			}

			db, err := database.Open(cfg.Database)
			if err != nil {
				return err
			}
			if sqlDB, err := db.DB(); err == nil {
				defer sqlDB.Close()
			}
			if err := database.Migrate(db); err != nil {
				return err
			}
			log.Infow("migration complete", "driver", cfg.Database.Driver)
			return nil
		},
	}
}

func newSeedCmd(configFile *string) *cobra.Command {
	var reset bool
	var file string

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load sample trailers into the store",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, log, err := setup(*configFile)
			if err != nil {
				return err
			}
			defer log.Sync() //nolint:errcheck

			inputs, err := seedInputs(file)
			if err != nil {
				return err
			}

			store, err := database.NewStore(cfg.Database, true)
			if err != nil {
				return fmt.Errorf("failed to open store: %w", err)
			}
			defer store.Close()

			service := services.NewTrailerService(store.Repo, nil, nil, log)
			created, err := seed.Run(cmd.Context(), store.Repo, service, inputs, reset, log)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d trailers\n", len(created))
			return nil
		},
	}
	cmd.Flags().BoolVar(&reset, "reset", false, "delete all trailers before seeding")
	cmd.Flags().StringVarP(&file, "file", "f", "", "YAML catalogue to load instead of the built-in one")
	return cmd
}

func seedInputs(file string) ([]services.CreateTrailerInput, error) {
	if file == "" {
		return seed.Default()
	}
	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	return seed.Parse(data)
}

func newTokenCmd(configFile *string) *cobra.Command {
	var subject string

	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for write routes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(*configFile)
			if err != nil {
				return err
			}
			if cfg.Auth.JWTSecret == "" {
				return errors.New("JWT_SECRET is not set")
			}
			token, err := services.NewTokenService(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL).Issue(subject)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "admin", "token subject")
	return cmd
}
