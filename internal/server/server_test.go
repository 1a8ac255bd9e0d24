package server

import (
	"context"
	"io"
	"net"
	"net/http"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/vallheru/game-web/internal/config"
)

func TestNew_Timeouts(t *testing.T) {
	srv := New(config.Server{Host: "0.0.0.0", Port: 8080, RequestTimeoutSecs: 12}, http.NotFoundHandler())

	if srv.Addr != "0.0.0.0:8080" {
		t.Fatalf("Addr = %q", srv.Addr)
	}
	if srv.ReadTimeout != 12*time.Second || srv.WriteTimeout != 12*time.Second {
		t.Fatalf("read/write = %v/%v", srv.ReadTimeout, srv.WriteTimeout)
	}
	if srv.ReadHeaderTimeout != readHeaderTimeout || srv.IdleTimeout != idleTimeout {
		t.Fatalf("header/idle = %v/%v", srv.ReadHeaderTimeout, srv.IdleTimeout)
	}
}

func TestNew_ZeroTimeoutDisables(t *testing.T) {
	srv := New(config.Server{Host: "127.0.0.1", Port: 1}, http.NotFoundHandler())
	if srv.ReadTimeout != 0 || srv.WriteTimeout != 0 {
		t.Fatalf("read/write = %v/%v, want 0", srv.ReadTimeout, srv.WriteTimeout)
	}
}

func TestServe_StopsOnCancel(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	h := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = io.WriteString(w, "pong")
	})
	srv := New(config.Server{Host: "127.0.0.1", RequestTimeoutSecs: 1}, h)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, srv, ln, zap.NewNop().Sugar()) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	if string(body) != "pong" {
		t.Fatalf("body = %q", body)
	}

	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Serve = %v, want nil", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("Serve did not return after cancel")
	}
}

func TestRun_ListenError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	srv := &http.Server{Addr: ln.Addr().String()}
	if err := Run(context.Background(), srv, zap.NewNop().Sugar()); err == nil {
		t.Fatalf("expected address-in-use error")
	}
}
