// internal/config/render.go
//
// Fixed-format, operator-facing rendering of a loaded Config.
//
// The layout is a contract (startup logs are grepped), so it is written
// out field by field rather than derived from reflection:
//
//	Server: host=<h> port=<p> workers=<w> request_timeout_secs=<s>
//	Database: url=<u> pool_size=<n> connect_timeout_secs=<s>
//	Templates: template_root=<path> hot_reload=<bool>
//	Features: enable_registration=<bool> enable_world_map=<bool>
//
// Notes
// -----
//   - No trailing newline after the last line.
//   - The database URL is printed verbatim, credentials included.
//     Redact before shipping the text anywhere shared.
//   - A template root that is not valid UTF-8 is rendered lossily.

package config

import (
	"strconv"
	"strings"
)

// Render returns the four-line description of c.
func Render(c *Config) string {
	var b strings.Builder

	b.WriteString("Server: ")
	b.WriteString(c.Server.String())
	b.WriteByte('\n')

	b.WriteString("Database: ")
	b.WriteString(c.Database.String())
	b.WriteByte('\n')

	b.WriteString("Templates: ")
	b.WriteString(c.Templates.String())
	b.WriteByte('\n')

	b.WriteString("Features: ")
	b.WriteString(c.Features.String())

	return b.String()
}

// String implements fmt.Stringer via Render.
func (c *Config) String() string { return Render(c) }

func (s Server) String() string {
	return "host=" + s.Host +
		" port=" + strconv.FormatUint(uint64(s.Port), 10) +
		" workers=" + strconv.FormatUint(uint64(s.Workers), 10) +
		" request_timeout_secs=" + strconv.FormatUint(s.RequestTimeoutSecs, 10)
}

func (d Database) String() string {
	return "url=" + d.URL +
		" pool_size=" + strconv.FormatUint(uint64(d.PoolSize), 10) +
		" connect_timeout_secs=" + strconv.FormatUint(d.ConnectTimeoutSecs, 10)
}

func (t Templates) String() string {
	return "template_root=" + displayPath(t.TemplateRoot) +
		" hot_reload=" + strconv.FormatBool(t.HotReload)
}

func (f Features) String() string {
	return "enable_registration=" + strconv.FormatBool(f.EnableRegistration) +
		" enable_world_map=" + strconv.FormatBool(f.EnableWorldMap)
}

// displayPath is the lossy text form of a path.
func displayPath(p string) string {
	return strings.ToValidUTF8(p, "\uFFFD")
}
