package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"referral-tracker/internal/config"
	"referral-tracker/internal/database"
	"referral-tracker/internal/logging"
	"referral-tracker/internal/repository"
	"referral-tracker/internal/server"
	"referral-tracker/internal/services"
)

var rootCmd = &cobra.Command{
	Use:   "referral-tracker",
	Short: "Referral tracking backend",
	Long:  `Tracks user signups and the Buy/Sell referrals they submit.`,
	// Running with no subcommand starts the server.
	RunE:          runServe,
	SilenceUsage:  true,
	SilenceErrors: true,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

var exportOut string

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Write a spreadsheet snapshot of all users and referrals",
	RunE:  runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", services.ExportFilename, "output file")
	rootCmd.AddCommand(serveCmd, exportCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func setup() (*config.Config, *logrus.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	return cfg, logging.New(cfg.Log), nil
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	db, err := database.Connect(cfg, log)
	if err != nil {
		return err
	}

	if !log.IsLevelEnabled(logrus.DebugLevel) {
		gin.SetMode(gin.ReleaseMode)
	}
	router := server.NewRouter(cfg, db, log)

	// Create HTTP server
	srv := &http.Server{
		Addr:              ":" + cfg.Server.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Start server in a goroutine
	errCh := make(chan error, 1)
	go func() {
		log.WithField("port", cfg.Server.Port).Info("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return fmt.Errorf("failed to start server: %w", err)
	case <-quit:
	}

	log.Info("shutting down server")

	// Graceful shutdown with 5 second timeout
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info("server exited")
	return nil
}

func runExport(cmd *cobra.Command, args []string) error {
	cfg, log, err := setup()
	if err != nil {
		return err
	}

	db, err := database.Connect(cfg, log)
	if err != nil {
		return err
	}

	exportService := services.NewExportService(
		repository.NewUserRepository(db),
		repository.NewReferralRepository(db),
		log,
	)
	data, err := exportService.Export(cmd.Context())
	if err != nil {
		return err
	}

	if err := os.WriteFile(exportOut, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", exportOut, err)
	}
	log.WithField("file", exportOut).Info("export written")
	return nil
}
