// internal/config/model.go
//
// Typed configuration model for game-web.
//
// Context
// -------
// These structs are the shape every other package consumes.  They are
// built exclusively by `Load` (see loader.go) from one TOML document and
// are never mutated afterwards, so any number of goroutines may read them
// without locking.
//
// The TOML schema has four tables:
//
//   - [server]     listener address, worker bound, request timeout
//   - [database]   opaque connection URL and pool tunables
//   - [templates]  template root and hot-reload switch
//   - [features]   optional feature gates
//
// Notes
// -----
//   - Field widths mirror the schema (`uint16` port, `uint32` pool size),
//     so an out-of-range value can never reach a consumer.
//   - Durations are kept as whole seconds; the helper methods below turn
//     them into `time.Duration` for net/http and database/sql.
//   - Struct tags are absent on purpose.  Decoding goes through the
//     pointer-based document in document.go, not through these types.
package config

import (
	"net"
	"strconv"
	"time"
)

// Schema defaults.
const (
	DefaultHost               = "127.0.0.1"
	DefaultWorkers            = 4
	DefaultRequestTimeoutSecs = 30
	DefaultPoolSize           = 10
	DefaultConnectTimeoutSecs = 5
	DefaultHotReload          = false
)

//
// Server section
//

// Server holds listener tunables.
type Server struct {
	Host               string
	Port               uint16
	Workers            uint
	RequestTimeoutSecs uint64
}

// Addr joins Host and Port into a listen address.  IPv6 hosts are
// bracketed.
func (s Server) Addr() string {
	return net.JoinHostPort(s.Host, strconv.FormatUint(uint64(s.Port), 10))
}

// RequestTimeout converts RequestTimeoutSecs.
func (s Server) RequestTimeout() time.Duration {
	return time.Duration(s.RequestTimeoutSecs) * time.Second
}

//
// Database section
//

// Database holds the connection URL and pool sizing.  URL is opaque to
// this package; the database package decides what scheme it speaks.
type Database struct {
	URL                string
	PoolSize           uint32
	ConnectTimeoutSecs uint64
}

// ConnectTimeout converts ConnectTimeoutSecs.
func (d Database) ConnectTimeout() time.Duration {
	return time.Duration(d.ConnectTimeoutSecs) * time.Second
}

//
// Templates section
//

// Templates points at the template tree.  TemplateRoot is not checked for
// existence at load time.
type Templates struct {
	TemplateRoot string
	HotReload    bool
}

//
// Features section
//

// Features gates optional request handlers.
type Features struct {
	EnableRegistration bool
	EnableWorldMap     bool
}

// DefaultFeatures is what an absent [features] table turns into.  A
// present but partial table defaults each missing key to false instead.
func DefaultFeatures() Features {
	return Features{
		EnableRegistration: true,
		EnableWorldMap:     true,
	}
}

//
// Root aggregate
//

// Config is the immutable aggregate returned by Load.
type Config struct {
	Server    Server
	Database  Database
	Templates Templates
	Features  Features
}
