// internal/ua/ua.go
//
// User-Agent classification for access logs.
//
// This wrapper isolates `github.com/avct/uasurfer` so the rest of the
// codebase never sees its enums.  Only coarse attributes are kept: the
// access log wants "which client family hit us", not a fingerprint.
package ua

import (
	"fmt"
	"strconv"

	surfer "github.com/avct/uasurfer"
)

// Info is the classified form of one User-Agent header.
//
// Example (Firefox on Linux):
//
//	Browser  "BrowserFirefox"
//	Version  "128"
//	OS       "OSLinux"
//	Device   "Desktop"
//	IsBot    false
//
// Device is one of "Desktop", "Mobile", "Tablet", or "Other".
type Info struct {
	Browser string
	Version string
	OS      string
	Device  string
	IsBot   bool
}

// Parse classifies a raw header.  An empty header yields Device "Other".
func Parse(raw string) Info {
	u := surfer.Parse(raw)

	info := Info{
		Browser: u.Browser.Name.String(),
		Version: versionToString(u.Browser.Version),
		OS:      u.OS.Name.String(),
		IsBot:   u.IsBot(),
	}

	switch u.DeviceType {
	case surfer.DeviceComputer:
		info.Device = "Desktop"
	case surfer.DeviceTablet:
		info.Device = "Tablet"
	case surfer.DevicePhone, surfer.DeviceWearable:
		info.Device = "Mobile"
	default:
		info.Device = "Other"
	}
	return info
}

// Fields flattens Info into zap key-value pairs.
func (i Info) Fields() []any {
	return []any{
		"browser", i.Browser,
		"browser_version", i.Version,
		"os", i.OS,
		"device", i.Device,
		"bot", i.IsBot,
	}
}

// versionToString renders a version while trimming trailing zeros,
// e.g. 17.0.0 → "17", 17.3.0 → "17.3", 17.3.1 → "17.3.1".
func versionToString(v surfer.Version) string {
	switch {
	case v.Major == 0 && v.Minor == 0 && v.Patch == 0:
		return ""
	case v.Patch != 0:
		return fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch)
	case v.Minor != 0:
		return fmt.Sprintf("%d.%d", v.Major, v.Minor)
	default:
		return strconv.Itoa(int(v.Major))
	}
}
