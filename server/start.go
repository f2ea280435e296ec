package server

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"blog-service/config"
	"blog-service/database"
	"blog-service/logging"

	"go.uber.org/zap"
)

// StartServer connects to the database, applies migrations and serves the API
// until SIGINT or SIGTERM. Fatal startup errors are logged and passed to exit.
func StartServer(cfg *config.Config, log logging.Logger, exit func(int)) {
	log.Info("Starting Blog Service...")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbConn, err := database.InitializeDatabase(ctx, cfg, log)
	if err != nil {
		log.Error("Database initialization failed", zap.Error(err))
		exit(1)
		return
	}
	defer dbConn.Close()

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           NewHandler(dbConn, cfg.BcryptCost, log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	log.Info("Blog Service started", zap.String("port", cfg.Port))
	log.Info("Health check: GET /health")
	log.Info("API endpoints: GET/POST/PUT/DELETE /api/users, /api/posts")

	if err := Serve(ctx, srv, cfg.ShutdownTimeout, log); err != nil {
		log.Error("Server failed", zap.Error(err))
		exit(1)
	}
}

// Serve runs srv until ctx is done and then shuts it down, waiting at most
// timeout for in-flight requests.
func Serve(ctx context.Context, srv *http.Server, timeout time.Duration, log logging.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server", zap.Duration("timeout", timeout))
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info("Server stopped")
	return nil
}
