// Package frontend embeds the built web console. The dist directory is
// produced by the console build and may be empty in API-only builds.
package frontend

import (
	"embed"
	"io/fs"
	"net/http"
)

//go:embed all:dist
var dist embed.FS

// GetHTTPFS returns the embedded console bundle for HTTP serving. It fails
// when the bundle was not built, so the server can fall back to a
// placeholder page.
func GetHTTPFS() (http.FileSystem, error) {
	bundle, err := fs.Sub(dist, "dist")
	if err != nil {
		return nil, err
	}

	// index.html marks a complete console build
	if _, err := fs.Stat(bundle, "index.html"); err != nil {
		return nil, err
	}

	return http.FS(bundle), nil
}
