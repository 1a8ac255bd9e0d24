package view

import (
	"html/template"
	"path"
)

// AssetPrefix is the URL prefix static assets are served under.
const AssetPrefix = "/static/"

// FuncMap returns the helpers available in every template.
func FuncMap() template.FuncMap {
	return template.FuncMap{
		"dict":  dict,
		"asset": asset,
	}
}

// dict builds a map in templates: {{ dict "k" 1 "k2" "v" }}.
func dict(kv ...any) map[string]any {
	m := make(map[string]any, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		key, _ := kv[i].(string)
		m[key] = kv[i+1]
	}
	return m
}

// asset resolves {{ asset "css/main.css" }} to /static/css/main.css.
func asset(p string) string {
	return AssetPrefix + path.Clean("/" + p)[1:]
}
