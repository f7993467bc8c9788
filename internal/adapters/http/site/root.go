// Package site serves the embedded live monitor page. The page lists
// sessions from /sessions and plots frames streamed over /monitor.
package site

import (
	"context"
	"net/http"
)

// Register serves the monitor page at / on mux. Responses are never cached
// so a reloaded page always matches the running server.
func Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("site: nil mux")
	}
	pages := http.FileServer(Pages())
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		pages.ServeHTTP(w, r)
	})
}
