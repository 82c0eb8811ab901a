package site

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static
var staticFS embed.FS

// FS returns an http.FileSystem rooted at the embedded static directory.
func FS() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		// fs.Sub only fails on an invalid path.
		return http.FS(staticFS)
	}
	return http.FS(sub)
}
