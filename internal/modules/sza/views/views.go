package views

import (
	"embed"

	"sza-server/internal/page"
)

const (
	IndexTemplate = "index.html"
	// TableKey is the context key index.html embeds the rendered table from.
	TableKey = "sza_gt"
)

//go:embed templates/*.html
var viewsFS embed.FS

// Load parses the embedded page templates. Call during startup; if it
// returns an error, do not start the server.
func Load() (*page.Renderer, error) {
	return page.ParseFS(viewsFS, "templates")
}
