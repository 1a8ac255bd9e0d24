package config

import (
	"strings"
	"testing"
	"time"
)

func sample() *Config {
	return &Config{
		Server:    Server{Host: "::1", Port: 9000, Workers: 16, RequestTimeoutSecs: 45},
		Database:  Database{URL: "postgres://game:hunter2@db/vallheru", PoolSize: 25, ConnectTimeoutSecs: 3},
		Templates: Templates{TemplateRoot: "/srv/vallheru/templates", HotReload: true},
		Features:  Features{EnableRegistration: false, EnableWorldMap: true},
	}
}

func TestRender_Layout(t *testing.T) {
	got := Render(sample())
	want := "Server: host=::1 port=9000 workers=16 request_timeout_secs=45\n" +
		"Database: url=postgres://game:hunter2@db/vallheru pool_size=25 connect_timeout_secs=3\n" +
		"Templates: template_root=/srv/vallheru/templates hot_reload=true\n" +
		"Features: enable_registration=false enable_world_map=true"
	if got != want {
		t.Fatalf("render mismatch:\n got: %q\nwant: %q", got, want)
	}
	if strings.HasSuffix(got, "\n") {
		t.Fatalf("render must not end with a newline")
	}
}

func TestRender_Stable(t *testing.T) {
	c := sample()
	first := Render(c)
	for i := 0; i < 10; i++ {
		if got := c.String(); got != first {
			t.Fatalf("iteration %d: render changed: %q", i, got)
		}
	}
}

func TestRender_LossyPath(t *testing.T) {
	c := sample()
	c.Templates.TemplateRoot = "/srv/\xff/templates"

	got := c.Templates.String()
	if want := "template_root=/srv/�/templates hot_reload=true"; got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestServer_Helpers(t *testing.T) {
	s := sample().Server
	if got := s.Addr(); got != "[::1]:9000" {
		t.Fatalf("Addr = %q", got)
	}
	if got := s.RequestTimeout(); got != 45*time.Second {
		t.Fatalf("RequestTimeout = %v", got)
	}

	s.Host = "127.0.0.1"
	if got := s.Addr(); got != "127.0.0.1:9000" {
		t.Fatalf("Addr = %q", got)
	}
}

func TestDatabase_ConnectTimeout(t *testing.T) {
	if got := sample().Database.ConnectTimeout(); got != 3*time.Second {
		t.Fatalf("ConnectTimeout = %v", got)
	}
}
