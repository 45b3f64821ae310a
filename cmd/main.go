package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vegoodies/config"
	"vegoodies/controllers"
	"vegoodies/routes"
	"vegoodies/services"
	"vegoodies/utils"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var envFile string

	root := &cobra.Command{
		Use:           "vegoodies",
		Short:         "Recipe API server",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&envFile, "env-file", "", "optional .env file (defaults to ./.env)")

	serve := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServer(cmd.Context(), envFile)
		},
	}
	migrate := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the recipes table",
		RunE: func(_ *cobra.Command, _ []string) error {
			return runMigrate(envFile)
		},
	}

	root.AddCommand(serve, migrate)
	root.RunE = serve.RunE
	return root
}

func loadConfig(envFile string) (*config.Config, error) {
	var files []string
	if envFile != "" {
		files = append(files, envFile)
	}
	cfg, err := config.Load(files...)
	if err != nil {
		slog.Error("config", "error", err)
		return nil, err
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})))
	return cfg, nil
}

func runMigrate(envFile string) error {
	cfg, err := loadConfig(envFile)
	if err != nil {
		return err
	}
	db, err := config.OpenDB(cfg)
	if err != nil {
		slog.Error("database", "error", err)
		return err
	}
	if err := config.Migrate(db); err != nil {
		slog.Error("migrate", "error", err)
		return err
	}
	slog.Info("recipes table migrated")
	return nil
}

func runServer(ctx context.Context, envFile string) error {
	cfg, err := loadConfig(envFile)
	if err != nil {
		return err
	}
	if !cfg.Debug() {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := config.OpenDB(cfg)
	if err != nil {
		slog.Error("database", "error", err)
		return err
	}
	if err := config.Migrate(db); err != nil {
		slog.Error("migrate", "error", err)
		return err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("database handle: %w", err)
	}
	defer sqlDB.Close()

	s3Client, err := utils.NewS3Client(ctx, utils.S3Options{
		Region:    cfg.S3Region,
		AccessKey: cfg.S3Key,
		SecretKey: cfg.S3Secret,
		Endpoint:  cfg.S3Endpoint,
	})
	if err != nil {
		slog.Error("s3", "error", err)
		return err
	}

	svc := services.NewRecipeService(
		services.NewGormRecipeStore(db),
		services.NewS3ImageStore(s3Client, cfg.S3Bucket),
	)
	router := routes.SetupRouter(controllers.NewRecipeController(svc), sqlDB)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", srv.Addr, "env", cfg.Env, "bucket", cfg.S3Bucket)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			slog.Error("server", "error", err)
			return err
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
