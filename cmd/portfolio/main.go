package main

import (
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"portfolio/internal/app"
	"portfolio/internal/config"
	"portfolio/internal/lib/logger/handlers/slogpretty"
	"portfolio/internal/lib/logger/sl"
	"portfolio/internal/storage/migrations"

	"github.com/spf13/cobra"
)

const (
	envLocal = "local"
	envDev   = "dev"
	envProd  = "prod"
)

var configPath string

// @title Portfolio API
// @version 1.0
// @description Сайт-портфолио художника: разделы, работы, медиа, новости и информационные страницы
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name Authorization
func main() {
	rootCmd := &cobra.Command{
		Use:          "portfolio",
		Short:        "Portfolio site backend",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config file (default $CONFIG_PATH)")

	rootCmd.AddCommand(serveCmd(), migrateCmd(), seedCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Apply migrations and start the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.MustLoadPath(configPath)
			log := setupLogger(cfg.Env)

			log.Info("starting portfolio", slog.String("env", cfg.Env))

			if err := migrations.MigrateUp(cfg.DSN); err != nil {
				log.Error("failed to apply migrations", sl.Err(err))
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			application, err := app.New(ctx, log, cfg)
			if err != nil {
				log.Error("failed to init application", sl.Err(err))
				return err
			}

			return application.Run(ctx)
		},
	}
}

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database schema",
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply all pending migrations",
			RunE: func(*cobra.Command, []string) error {
				cfg := config.MustLoadPath(configPath)
				log := setupLogger(cfg.Env)

				if err := migrations.MigrateUp(cfg.DSN); err != nil {
					return err
				}
				log.Info("migrations applied")
				return nil
			},
		},
		&cobra.Command{
			Use:   "down [steps]",
			Short: "Roll back migrations, one step by default",
			Args:  cobra.MaximumNArgs(1),
			RunE: func(_ *cobra.Command, args []string) error {
				cfg := config.MustLoadPath(configPath)
				log := setupLogger(cfg.Env)

				steps := 1
				if len(args) == 1 {
					n, err := strconv.Atoi(args[0])
					if err != nil || n <= 0 {
						return fmt.Errorf("invalid steps %q", args[0])
					}
					steps = n
				}

				if err := migrations.MigrateDown(cfg.DSN, steps); err != nil {
					return err
				}
				log.Info("migrations rolled back", slog.Int("steps", steps))
				return nil
			},
		},
		&cobra.Command{
			Use:   "version",
			Short: "Print current schema version",
			RunE: func(cmd *cobra.Command, _ []string) error {
				cfg := config.MustLoadPath(configPath)

				version, dirty, err := migrations.Version(cfg.DSN)
				if err != nil {
					return err
				}
				cmd.Printf("version %d, dirty %t\n", version, dirty)
				return nil
			},
		},
	)

	return cmd
}

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Create the admin account and default sections",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.MustLoadPath(configPath)
			log := setupLogger(cfg.Env)

			if err := migrations.MigrateUp(cfg.DSN); err != nil {
				return err
			}

			application, err := app.New(cmd.Context(), log, cfg)
			if err != nil {
				return err
			}
			defer application.Close()

			return application.Seed(cmd.Context(), cfg.Admin)
		},
	}
}

func setupLogger(env string) *slog.Logger {
	var log *slog.Logger

	switch env {
	case envLocal:
		log = setupPrettySlog()
	case envDev:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}),
		)
	case envProd:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	default:
		log = slog.New(
			slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}),
		)
	}

	return log
}

func setupPrettySlog() *slog.Logger {
	opts := slogpretty.PrettyHandlerOptions{
		SlogOpts: &slog.HandlerOptions{
			Level: slog.LevelDebug,
		},
	}

	handler := opts.NewPrettyHandler(os.Stdout)

	return slog.New(handler)
}
