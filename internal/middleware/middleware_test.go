// internal/middleware/middleware_test.go
//
// Unit-tests for the HTTP wrappers.
//
// Run: go test ./internal/middleware -v

package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

var ok = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestSecurity_SetsHeaders(t *testing.T) {
	rr := httptest.NewRecorder()
	Security(ok).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))

	for _, kv := range securityHeaders {
		if got := rr.Header().Get(kv[0]); got != kv[1] {
			t.Fatalf("%s = %q, want %q", kv[0], got, kv[1])
		}
	}
}

func TestGate(t *testing.T) {
	for _, enabled := range []bool{true, false} {
		rr := httptest.NewRecorder()
		Gate(enabled)(ok).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/world-map", nil))

		want := http.StatusNotFound
		if enabled {
			want = http.StatusOK
		}
		if rr.Code != want {
			t.Fatalf("enabled=%v: status = %d, want %d", enabled, rr.Code, want)
		}
	}
}

func TestLimit_ZeroDisables(t *testing.T) {
	h := Limit(0, time.Second)(ok)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d", rr.Code)
	}
}

func TestLimit_WaitingRequestGives503OnCancel(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	slow := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		close(entered)
		<-release
		w.WriteHeader(http.StatusOK)
	})
	h := Limit(1, 0)(slow)

	var wg sync.WaitGroup
	wg.Add(1)
	first := httptest.NewRecorder()
	go func() {
		defer wg.Done()
		h.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/", nil))
	}()
	<-entered

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	second := httptest.NewRecorder()
	h.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/", nil).WithContext(ctx))

	if second.Code != http.StatusServiceUnavailable {
		t.Fatalf("second status = %d, want 503", second.Code)
	}

	close(release)
	wg.Wait()
	if first.Code != http.StatusOK {
		t.Fatalf("first status = %d, want 200", first.Code)
	}
}

func TestLimit_WaitBoundGivesSingle503(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	slow := http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		close(entered)
		<-release
		w.WriteHeader(http.StatusOK)
	})

	// Same order as the router: limiter outside chi's Timeout.
	r := chi.NewRouter()
	r.Use(Limit(1, 20*time.Millisecond))
	r.Use(chimw.Timeout(time.Hour))
	r.Get("/", slow)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	}()
	<-entered

	second := &headerCounter{ResponseRecorder: httptest.NewRecorder()}
	r.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/", nil))

	close(release)
	wg.Wait()

	if second.Code != http.StatusServiceUnavailable {
		t.Fatalf("second status = %d, want 503", second.Code)
	}
	if second.writes != 1 {
		t.Fatalf("WriteHeader called %d times, want 1", second.writes)
	}
}

// headerCounter counts WriteHeader calls.
type headerCounter struct {
	*httptest.ResponseRecorder
	writes int
}

func (h *headerCounter) WriteHeader(code int) {
	h.writes++
	h.ResponseRecorder.WriteHeader(code)
}

func TestAccessLog_RecordsRoute(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	log := zap.New(core).Sugar()

	r := chi.NewRouter()
	r.Use(AccessLog(log))
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("User-Agent", "Mozilla/5.0 (X11; Linux x86_64; rv:128.0) Gecko/20100101 Firefox/128.0")
	r.ServeHTTP(httptest.NewRecorder(), req)
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nope", nil))

	entries := logs.FilterMessage("request").All()
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}

	first := entries[0].ContextMap()
	if first["route"] != "/health" || first["status"] != int64(http.StatusTeapot) {
		t.Fatalf("unexpected first entry %v", first)
	}
	if first["device"] != "Desktop" {
		t.Fatalf("device = %v", first["device"])
	}
	if second := entries[1].ContextMap(); second["route"] != unmatchedRoute {
		t.Fatalf("unmatched route = %v", second["route"])
	}
}
