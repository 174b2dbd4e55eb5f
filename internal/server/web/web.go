// internal/server/web/web.go

// Package web holds the embedded templates of the browser UI.
package web

import "embed"

//go:embed templates/*.html
var Templates embed.FS
