//go:build dev

package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func registerDevRoutes(r chi.Router, chartDataDir string) {
	// Exported chart files
	r.Handle("/chartdata/*", http.StripPrefix("/chartdata/", http.FileServer(http.Dir(chartDataDir))))
}
