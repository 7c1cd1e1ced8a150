package cmd

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/SarprasYP/sispras/internal/core/config"
	"github.com/SarprasYP/sispras/internal/core/container"
	"github.com/SarprasYP/sispras/internal/core/logger"
	"github.com/SarprasYP/sispras/internal/core/routes"
	"github.com/SarprasYP/sispras/internal/database"
	"github.com/SarprasYP/sispras/internal/inventory/reconcile"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

var envFile string

var ServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, log, err := bootstrap()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		migrate, _ := cmd.Flags().GetBool("migrate")
		return serve(cmd.Context(), cfg, log, migrate)
	},
}

var MigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run migrations manually.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, log, err := bootstrap()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		migrationDir, _ := cmd.Flags().GetString("dir")
		if migrationDir == "" {
			migrationDir = cfg.Database.MigrationsDir
		}

		if err := database.RunMigrations(cfg.Database.URL, migrationDir, log.Named("migrate")); err != nil {
			return fmt.Errorf("migrate database: %w", err)
		}
		return nil
	},
}

var ReconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Replay every stock log and report quantities that disagree with it.",
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, log, err := bootstrap()
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		if cfg.UsesMemoryStore() {
			return errors.New("reconcile needs DATABASE_URL")
		}

		db, err := database.NewPostgresConnection(cmd.Context(), cfg.Database.URL, cfg.Database.MaxOpenConns)
		if err != nil {
			return err
		}
		defer db.Close()

		app, err := container.NewAppContainer(cfg, db, log)
		if err != nil {
			return err
		}

		mismatches, err := app.Reconciler.Run(cmd.Context())
		if err != nil {
			return fmt.Errorf("reconcile: %w", err)
		}
		for _, m := range mismatches {
			fmt.Fprintf(cmd.OutOrStdout(), "stock item %d (product %d): cached %d, log replays to %d over %d entries\n",
				m.StockItemID, m.ProductID, m.Cached, m.Replayed, m.Entries)
		}
		if len(mismatches) > 0 {
			return fmt.Errorf("%d stock items do not match their log", len(mismatches))
		}
		fmt.Fprintln(cmd.OutOrStdout(), "all stock items match their log")
		return nil
	},
}

func init() {
	ServeCmd.Flags().Bool("migrate", false, "Apply pending migrations before serving")
	MigrateCmd.Flags().String("dir", "", "Directory containing the migration files (defaults to MIGRATIONS_DIR)")
}

func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "sispras",
		Short:         "Sarana prasarana inventory service",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", "", "Path to a .env file")
	rootCmd.AddCommand(ServeCmd, MigrateCmd, ReconcileCmd)
	return rootCmd
}

func Execute(ctx context.Context) error {
	return NewRootCmd().ExecuteContext(ctx)
}

func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(envFile)
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	return cfg, logger.NewLogger(cfg.Env), nil
}

func serve(ctx context.Context, cfg *config.Config, log *zap.Logger, migrate bool) error {
	var db *sql.DB
	if !cfg.UsesMemoryStore() {
		var err error
		db, err = database.NewPostgresConnection(ctx, cfg.Database.URL, cfg.Database.MaxOpenConns)
		if err != nil {
			return err
		}
		defer db.Close()
		log.Info("Connected to the database")

		if migrate {
			if err := database.RunMigrations(cfg.Database.URL, cfg.Database.MigrationsDir, log.Named("migrate")); err != nil {
				return fmt.Errorf("migrate database: %w", err)
			}
		}
	}

	app, err := container.NewAppContainer(cfg, db, log)
	if err != nil {
		return err
	}
	go app.RateLimiter.Run(ctx)

	if cfg.Reconcile.Schedule != "" {
		sched, err := reconcile.NewScheduler(cfg.Reconcile.Schedule, app.Reconciler, log.Named("scheduler"))
		if err != nil {
			return err
		}
		sched.Start()
		defer sched.Stop()
	}

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	srv := &http.Server{
		Addr:         cfg.Server.Host,
		Handler:      routes.NewRouter(app, cfg.Server.RequestTimeout, log.Named("router")),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.Server.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("server starting", zap.String("addr", cfg.Server.Host))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server crashed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}
	log.Info("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("graceful shutdown failed: %w", err)
	}
	return nil
}
