// Package ui embeds the dashboard, a single-page viewer over the run-log
// API. The assets are plain HTML, CSS, and JavaScript with no build step;
// whatever is in static/ at compile time is what the server ships.
package ui

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed static
var staticFS embed.FS

// FS returns the embedded dashboard assets rooted at static/, ready for
// http.FileServer.
func FS() http.FileSystem {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return http.FS(sub)
}
