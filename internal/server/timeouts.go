// internal/server/timeouts.go
//
// HTTP server helper with robust timeouts and graceful shutdown.
//
// Production hardening recommends:
//
//   • ReadHeaderTimeout – abort slow-loris headers (10 s)
//   • ReadTimeout       – bound the whole body, uploads included (60 s)
//   • WriteTimeout      – cap total response time (30 s)
//   • IdleTimeout       – close keep-alives on idle clients (60 s)
//
// This helper centralises those defaults so cmd/web doesn’t repeat boilerplate.
//

package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// ShutdownTimeout bounds how long in-flight requests may run after a stop
// signal.
const ShutdownTimeout = 15 * time.Second

// New constructs an *http.Server with sensible defaults.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       60 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully.  It
// returns the listener error if the server fails before that.
func Run(ctx context.Context, srv *http.Server, log *zap.SugaredLogger) error {
	errCh := make(chan error, 1)
	go func() {
		log.Infow("listening", "addr", srv.Addr)
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

	log.Infow("shutting down", "timeout", ShutdownTimeout)
	sctx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
