//go:generate swag init -g main.go -d .,../../internal/api -o ../../internal/docs --outputTypes go

package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/projecthelena/gitops-demo/internal/api"
	"github.com/projecthelena/gitops-demo/internal/config"
	"github.com/projecthelena/gitops-demo/internal/logging"
	"github.com/projecthelena/gitops-demo/internal/status"
)

// @title        GitOps Demo API
// @version      1.0
// @description  Read-only status endpoints of the GitOps demo application.
// @license.name MIT
// @license.url  https://opensource.org/licenses/MIT
// @BasePath     /
func main() {
	logger := logging.New("gitops-demo")

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	r := api.NewRouter(ctx, status.NewService(time.Now), cfg, logger)

	srv := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		ErrorLog:          logger,
	}

	go func() {
		logger.Printf("Starting server on %s", cfg.ListenAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("listen: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Println("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Fatalf("Server forced to shutdown: %v", err)
	}

	logger.Println("Server exiting")
}
