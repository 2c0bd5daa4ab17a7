/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>

*/
package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/godmath04/newsfront/internal/config"
	"github.com/godmath04/newsfront/internal/devserver"
	"github.com/godmath04/newsfront/internal/logging"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run a local emulator of the portal's backend services",
	Long: `Run a local emulator of the portal's backend services.
It serves both the auth-service and the article-service surfaces on a
single port, backed by sqlite, and seeds itself with one account per
role so the client can be exercised offline. Point backend.auth_url and
backend.article_url at it.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, _ := cmd.Flags().GetString("config")
		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		logger := logging.New(&cfg.Log)

		if config.IsProduction(cfg) {
			gin.SetMode(gin.ReleaseMode)
		}

		store, err := devserver.OpenStore(cfg.Database.Path)
		if err != nil {
			return fmt.Errorf("failed to open store: %w", err)
		}

		seed := devserver.DefaultSeed()
		if cfg.Database.SeedFile != "" {
			if seed, err = devserver.LoadSeedFile(cfg.Database.SeedFile); err != nil {
				return fmt.Errorf("failed to load seed file: %w", err)
			}
		}
		if err := store.Apply(seed); err != nil {
			return fmt.Errorf("failed to seed store: %w", err)
		}

		secret, _ := cmd.Flags().GetString("token-secret")
		server := devserver.NewServer(store, secret, logger)

		addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		srv := &http.Server{
			Addr:    addr,
			Handler: server.Handler(),
		}

		// Hot-reload the log level on config file changes. Only possible
		// when an explicit config file is in play.
		if configPath != "" {
			watcher := config.NewWatcher(cfg, configPath, logger)
			watcher.OnChange(func(next *config.Config) {
				logging.SetLevel(logger, next.Log.Level)
			})
			if err := watcher.Start(); err != nil {
				logger.WithError(err).Warn("config watcher not started")
			}
			defer watcher.Stop()
		}

		go func() {
			logger.WithField("addr", addr).Info("emulator starting")
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.WithError(err).Fatal("failed to start emulator")
			}
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit

		logger.Info("shutting down emulator")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("forced shutdown: %w", err)
		}
		logger.Info("emulator exited")
		return nil
	},
}

func init() {
	serveCmd.Flags().String("token-secret", "newsfront-dev-secret", "HMAC secret for issued tokens")
	rootCmd.AddCommand(serveCmd)
}
