package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Ashin-Amanulla/unma-2nd-anniversary-sub002/internal/handlers"
	"github.com/gin-gonic/gin"
	"github.com/google/logger"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 15 * time.Second

func serveCmd(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, *configPath)
		},
	}
}

func serve(ctx context.Context, configPath string) error {
	// 1. Load configuration and open the registration store
	a, err := newApp(ctx, configPath)
	if err != nil {
		return err
	}
	defer a.close()

	// 2. Initialize the HTTP handler and router
	gin.SetMode(a.cfg.HTTP.Mode)
	httpHandler := handlers.NewHTTPHandler(a.matching, a.stats)
	srv := &http.Server{
		Addr:              a.cfg.HTTP.Addr,
		Handler:           httpHandler.NewRouter(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	// 3. Run the server until interrupted
	errCh := make(chan error, 1)
	go func() {
		logger.Infof("Server starting on %s (store: %s)", a.cfg.HTTP.Addr, a.cfg.Store.Driver)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
