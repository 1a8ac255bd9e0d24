// internal/database/database_test.go
//
// Unit-tests for pool setup using sqlmock.
//
// Run: go test ./internal/database -v

package database

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"

	"github.com/vallheru/game-web/internal/config"
)

// mockConnect returns an Options whose Connect hands out one sqlmock pool
// and records the driver and DSN it was asked for.
func mockConnect(t *testing.T) (Options, sqlmock.Sqlmock, *[2]string) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	var seen [2]string
	opts := Options{Connect: func(driver, dsn string) (*sqlx.DB, error) {
		seen = [2]string{driver, dsn}
		return sqlx.NewDb(db, driver), nil
	}}
	return opts, mock, &seen
}

type fakeSecrets map[string]string

func (f fakeSecrets) GetKV(_ context.Context, path, key string, _ time.Duration) (string, error) {
	v, ok := f[path+"#"+key]
	if !ok {
		return "", errors.New("no such secret")
	}
	return v, nil
}

func TestOpen_PostgresPool(t *testing.T) {
	opts, mock, seen := mockConnect(t)
	mock.ExpectPing()

	cfg := config.Database{URL: "postgres://game@db/vallheru", PoolSize: 7, ConnectTimeoutSecs: 1}
	db, err := OpenWithOptions(context.Background(), cfg, nil, opts)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	if seen[0] != "pgx" || seen[1] != cfg.URL {
		t.Fatalf("connect(%q, %q)", seen[0], seen[1])
	}
	if got := db.Stats().MaxOpenConnections; got != 7 {
		t.Fatalf("MaxOpenConnections = %d, want 7", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestOpen_PingFailureClosesPool(t *testing.T) {
	opts, mock, _ := mockConnect(t)
	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	mock.ExpectClose()

	cfg := config.Database{URL: "mysql://game:pw@tcp(db:3306)/vallheru", PoolSize: 2, ConnectTimeoutSecs: 1}
	if _, err := OpenWithOptions(context.Background(), cfg, nil, opts); err == nil {
		t.Fatalf("expected ping error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet expectations: %v", err)
	}
}

func TestOpen_VaultURL(t *testing.T) {
	opts, mock, seen := mockConnect(t)
	mock.ExpectPing()

	secrets := fakeSecrets{"secret/game-web#database_url": "postgres://game:s3cret@db/vallheru"}
	cfg := config.Database{URL: "vault:secret/game-web#database_url", PoolSize: 1}
	if _, err := OpenWithOptions(context.Background(), cfg, secrets, opts); err != nil {
		t.Fatalf("Open: %v", err)
	}
	if seen[1] != "postgres://game:s3cret@db/vallheru" {
		t.Fatalf("dsn = %q", seen[1])
	}
}

func TestResolveURL(t *testing.T) {
	ctx := context.Background()

	if got, err := ResolveURL(ctx, "postgres://x", nil); err != nil || got != "postgres://x" {
		t.Fatalf("plain url: %q, %v", got, err)
	}
	if _, err := ResolveURL(ctx, "vault:secret/x#k", nil); !errors.Is(err, ErrNoSecretSource) {
		t.Fatalf("nil source: %v", err)
	}
	for _, bad := range []string{"vault:secret/x", "vault:#k", "vault:secret/x#"} {
		if _, err := ResolveURL(ctx, bad, fakeSecrets{}); err == nil {
			t.Fatalf("%q: expected error", bad)
		}
	}
	if _, err := ResolveURL(ctx, "vault:secret/x#k", fakeSecrets{}); err == nil {
		t.Fatalf("missing secret: expected error")
	}
}

func TestDriverDSN(t *testing.T) {
	cases := []struct {
		url, driver, dsn string
	}{
		{"postgres://u@h/db", "pgx", "postgres://u@h/db"},
		{"PostgreSQL://u@h/db", "pgx", "PostgreSQL://u@h/db"},
		{"mysql://u:p@tcp(h:3306)/db?parseTime=true", "mysql", "u:p@tcp(h:3306)/db?parseTime=true"},
	}
	for _, tc := range cases {
		driver, dsn, err := DriverDSN(tc.url)
		if err != nil || driver != tc.driver || dsn != tc.dsn {
			t.Fatalf("DriverDSN(%q) = %q, %q, %v", tc.url, driver, dsn, err)
		}
	}

	for _, bad := range []string{"sqlite://file.db", "user:secret@host"} {
		if _, _, err := DriverDSN(bad); !errors.Is(err, ErrUnsupportedScheme) {
			t.Fatalf("%q: err = %v", bad, err)
		}
	}
}

func TestDriverDSN_ErrorHidesCredentials(t *testing.T) {
	for _, url := range []string{"user:secret@host", "game:pw@db/vallheru"} {
		_, _, err := DriverDSN(url)
		if err == nil {
			t.Fatalf("%q: expected error", url)
		}
		got := err.Error()
		for _, part := range []string{"user", "secret", "game", "pw"} {
			if strings.Contains(got, part) {
				t.Fatalf("%q: %q leaked in %q", url, part, got)
			}
		}
	}
}

func TestRedact(t *testing.T) {
	cases := map[string]string{
		"postgres://game:pw@db/vallheru": "postgres://…",
		"game:pw@db/vallheru":            "…",
		"":                               "…",
	}
	for in, want := range cases {
		if got := redact(in); got != want {
			t.Fatalf("redact(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestIdleConns(t *testing.T) {
	cases := map[uint32]int{0: 2, 1: 1, 2: 2, 50: 2}
	for in, want := range cases {
		if got := idleConns(in); got != want {
			t.Fatalf("idleConns(%d) = %d, want %d", in, got, want)
		}
	}
}
