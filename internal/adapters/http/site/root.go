// Package site serves the embedded browser workbench: a single page that
// drives the session API to paste, synchronize, chart and inspect profiles.
package site

import (
	"context"
	"net/http"
)

// Register attaches the workbench routes to mux.
//
//	GET /          -> index.html
//	GET /static/*  -> embedded assets
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	files := http.FileServer(FS())
	mux.Handle("GET /{$}", files)
	mux.Handle("GET /static/", http.StripPrefix("/static", files))
}
