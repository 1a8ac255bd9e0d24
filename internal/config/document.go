// internal/config/document.go
//
// Decoding target for the TOML tree.
//
// Every leaf is a pointer so the binder can tell "absent" from "zero".
// Integers are decoded as int64 (the TOML integer type) and range-checked
// by the validator before they are narrowed into the public model.

package config

import "strings"

type document struct {
	Server    *serverDocument    `koanf:"server"    validate:"required"`
	Database  *databaseDocument  `koanf:"database"  validate:"required"`
	Templates *templatesDocument `koanf:"templates" validate:"required"`
	Features  *featuresDocument  `koanf:"features"`
}

type serverDocument struct {
	Host               *string `koanf:"host"                 validate:"omitempty,min=1"`
	Port               *int64  `koanf:"port"                 validate:"required,min=0,max=65535"`
	Workers            *int64  `koanf:"workers"              validate:"omitempty,min=0"`
	RequestTimeoutSecs *int64  `koanf:"request_timeout_secs" validate:"omitempty,min=0"`
}

type databaseDocument struct {
	URL                *string `koanf:"url"                  validate:"required"`
	PoolSize           *int64  `koanf:"pool_size"            validate:"omitempty,min=0,max=4294967295"`
	ConnectTimeoutSecs *int64  `koanf:"connect_timeout_secs" validate:"omitempty,min=0"`
}

type templatesDocument struct {
	TemplateRoot *string `koanf:"template_root" validate:"required"`
	HotReload    *bool   `koanf:"hot_reload"`
}

type featuresDocument struct {
	EnableRegistration *bool `koanf:"enable_registration"`
	EnableWorldMap     *bool `koanf:"enable_world_map"`
}

/*──────────────────────────── defaulting ──────────────────────────────────*/

// toConfig fills absent leaves with their defaults and copies the result
// into a fresh Config.  It assumes validate has already passed.
func (d *document) toConfig() *Config {
	cfg := &Config{
		Server: Server{
			Host:               strOr(d.Server.Host, DefaultHost),
			Port:               uint16(*d.Server.Port),
			Workers:            uint(intOr(d.Server.Workers, DefaultWorkers)),
			RequestTimeoutSecs: uint64(intOr(d.Server.RequestTimeoutSecs, DefaultRequestTimeoutSecs)),
		},
		Database: Database{
			URL:                strings.Clone(*d.Database.URL),
			PoolSize:           uint32(intOr(d.Database.PoolSize, DefaultPoolSize)),
			ConnectTimeoutSecs: uint64(intOr(d.Database.ConnectTimeoutSecs, DefaultConnectTimeoutSecs)),
		},
		Templates: Templates{
			TemplateRoot: strings.Clone(*d.Templates.TemplateRoot),
			HotReload:    boolOr(d.Templates.HotReload, DefaultHotReload),
		},
		Features: DefaultFeatures(),
	}

	// A present table opts in key by key.
	if f := d.Features; f != nil {
		cfg.Features = Features{
			EnableRegistration: boolOr(f.EnableRegistration, false),
			EnableWorldMap:     boolOr(f.EnableWorldMap, false),
		}
	}
	return cfg
}

func strOr(p *string, def string) string {
	if p == nil {
		return def
	}
	return strings.Clone(*p)
}

func intOr(p *int64, def int64) int64 {
	if p == nil {
		return def
	}
	return *p
}

func boolOr(p *bool, def bool) bool {
	if p == nil {
		return def
	}
	return *p
}
