package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/conversa-labs/user-agent/pkg/httpapi"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the chat HTTP server",
	Long:  `Starts the agent behind a JSON API: POST /chat resolves a message and maintains the session transcript.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		debug, _ := cmd.Flags().GetBool("debug")
		log, err := newLogger(debug)
		if err != nil {
			return err
		}
		defer func() { _ = log.Sync() }()

		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if v, _ := cmd.Flags().GetString("listen"); v != "" {
			cfg.Listen = v
		}

		ctx := cmd.Context()
		a, _, cleanup, err := buildAgent(ctx, cfg, log)
		if err != nil {
			return err
		}
		defer cleanup()

		transcripts, err := buildTranscripts(cfg)
		if err != nil {
			return err
		}

		srv := &http.Server{
			Addr:    cfg.Listen,
			Handler: httpapi.NewHandler(a, transcripts, log),
		}

		serverErrors := make(chan error, 1)
		go func() {
			log.Info("server listening",
				zap.String("addr", srv.Addr),
				zap.String("store", cfg.Store.Backend),
				zap.String("provider", cfg.Provider),
			)
			serverErrors <- srv.ListenAndServe()
		}()

		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			return fmt.Errorf("server error: %w", err)
		case sig := <-shutdown:
			log.Info("shutting down", zap.Stringer("signal", sig))
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := srv.Shutdown(shutdownCtx); err != nil {
				_ = srv.Close()
				return fmt.Errorf("graceful shutdown failed: %w", err)
			}
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().String("listen", "", "Listen address (default :8080)")
	rootCmd.AddCommand(serveCmd)
}
