package page

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"location-pages/internal/location_pages/model"
)

//go:embed templates/*.html
var templateFS embed.FS

const (
	baseLayout = "templates/base.html"
	partials   = "templates/partials.html"
)

// views holds one template set per page kind; each set is base + partials +
// the page file, so every page can redefine the "content" block.
var views = mustParseViews("neighborhood.html", "city.html", "site.html", "notfound.html")

func mustParseViews(names ...string) map[string]*template.Template {
	base := template.Must(template.ParseFS(templateFS, baseLayout, partials))
	out := make(map[string]*template.Template, len(names))
	for _, name := range names {
		t := template.Must(base.Clone())
		out[name] = template.Must(t.ParseFS(templateFS, "templates/"+name))
	}
	return out
}

// Render writes the HTML document for p.
func Render(w io.Writer, p *Page) error {
	return execute(w, p.Kind+".html", p)
}

// RenderNotFound writes the not-found document.
func RenderNotFound(w io.Writer, b model.BusinessInfo) error {
	return execute(w, "notfound.html", &Page{Kind: "notfound", Title: "Page Not Found", Business: b})
}

func execute(w io.Writer, name string, data any) error {
	t, ok := views[name]
	if !ok {
		return fmt.Errorf("no view %q", name)
	}
	if err := t.ExecuteTemplate(w, "base.html", data); err != nil {
		return fmt.Errorf("execute %s: %w", name, err)
	}
	return nil
}
