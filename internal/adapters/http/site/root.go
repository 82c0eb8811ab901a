// Package site serves the embedded leaderboard dashboard.
package site

import (
	"net/http"
)

// Register attaches the dashboard routes to mux:
//
//	GET /          -> index.html
//	GET /static/*  -> scripts and styles
//
// Any other path under / is a 404 so API typos are not masked by the page.
func Register(mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}

	files := http.FileServer(FS())
	mux.Handle("/static/", http.StripPrefix("/static", files))
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		if r.Method != http.MethodGet && r.Method != http.MethodHead {
			w.Header().Set("Allow", "GET, HEAD")
			http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
			return
		}
		files.ServeHTTP(w, r)
	})
}
