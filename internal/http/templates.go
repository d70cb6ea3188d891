package http

import (
	"embed"
	"html/template"
	"path/filepath"

	"github.com/mrlokans/atlas/internal/catalog"
	"github.com/mrlokans/atlas/internal/favorites"
)

//go:embed templates/*.html
var embeddedTemplates embed.FS

var templateFuncs = template.FuncMap{
	"pageSize": func() int { return catalog.PageSize },
	"capacity": func() int { return favorites.Capacity },
	"flagURL": func(code string) string {
		return "/api/flags/" + code
	},
}

// loadTemplates parses templates from dir, or the embedded set when dir is
// empty.
func loadTemplates(dir string) (*template.Template, error) {
	tmpl := template.New("").Funcs(templateFuncs)
	if dir == "" {
		return tmpl.ParseFS(embeddedTemplates, "templates/*.html")
	}
	return tmpl.ParseGlob(filepath.Join(dir, "*.html"))
}
