package views

import (
	"embed"
	"io/fs"
	"net/http"

	"github.com/gofiber/template/html/v2"
)

//go:embed templates
var files embed.FS

// Engine returns the Fiber template engine backed by the embedded templates.
// Embedding keeps rendering working regardless of the process working
// directory, which also makes handler tests self-contained.
func Engine() *html.Engine {
	sub, err := fs.Sub(files, "templates")
	if err != nil {
		panic(err)
	}
	return html.NewFileSystem(http.FS(sub), ".html")
}
