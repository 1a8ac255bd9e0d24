// internal/server/server.go
//
// HTTP server lifecycle.
//
// Timeouts come from the [server] table:
//
//   - ReadTimeout, WriteTimeout  request_timeout_secs (0 disables)
//   - ReadHeaderTimeout          fixed 10 s, slow-loris guard
//   - IdleTimeout                fixed 60 s, keep-alive reaping
//
// `Run` serves until ctx is cancelled, then drains in-flight requests for
// at most the request timeout (or shutdownGrace when that is zero).
//

package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/vallheru/game-web/internal/config"
)

const (
	readHeaderTimeout = 10 * time.Second
	idleTimeout       = 60 * time.Second
	shutdownGrace     = 30 * time.Second
)

// New constructs an *http.Server listening on cfg.Addr().
func New(cfg config.Server, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              cfg.Addr(),
		Handler:           handler,
		ReadTimeout:       cfg.RequestTimeout(),
		WriteTimeout:      cfg.RequestTimeout(),
		ReadHeaderTimeout: readHeaderTimeout,
		IdleTimeout:       idleTimeout,
	}
}

// Run listens on srv.Addr and serves until ctx ends.
func Run(ctx context.Context, srv *http.Server, log *zap.SugaredLogger) error {
	ln, err := net.Listen("tcp", srv.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", srv.Addr, err)
	}
	return Serve(ctx, srv, ln, log)
}

// Serve is Run on an existing listener.  A clean shutdown returns nil.
func Serve(ctx context.Context, srv *http.Server, ln net.Listener, log *zap.SugaredLogger) error {
	errCh := make(chan error, 1)
	go func() {
		log.Infow("listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	grace := srv.WriteTimeout
	if grace <= 0 {
		grace = shutdownGrace
	}
	log.Infow("shutting down", "grace", grace)

	sctx, cancel := context.WithTimeout(context.Background(), grace)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	log.Infow("server stopped")
	return nil
}
