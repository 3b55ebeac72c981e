// Package views renders the server-side HTML pages: public tag pages,
// their error states and the static landing/auth pages.
package views

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"path"
	"strings"
)

//go:embed templates/*.html
var files embed.FS

// Page is the data handed to every template. Data carries the
// page-specific payload.
type Page struct {
	Title     string
	NoIndex   bool
	BodyClass string
	Data      any
}

var funcs = template.FuncMap{
	"initial": func(s string) string {
		s = strings.TrimSpace(s)
		if s == "" {
			return "?"
		}
		return strings.ToUpper(string([]rune(s)[:1]))
	},
	"stripScheme": func(s string) string {
		s = strings.TrimPrefix(s, "https://")
		return strings.TrimPrefix(s, "http://")
	},
	"join": func(parts ...string) string {
		out := make([]string, 0, len(parts))
		for _, p := range parts {
			if p != "" {
				out = append(out, p)
			}
		}
		return strings.Join(out, " · ")
	},
}

var pages = mustParse()

func mustParse() map[string]*template.Template {
	names, err := fs.Glob(files, "templates/*.html")
	if err != nil {
		panic(err)
	}
	out := make(map[string]*template.Template, len(names))
	for _, name := range names {
		base := strings.TrimSuffix(path.Base(name), ".html")
		if base == "layout" {
			continue
		}
		out[base] = template.Must(template.New("layout.html").Funcs(funcs).ParseFS(files, "templates/layout.html", name))
	}
	return out
}

// Render writes the named page wrapped in the shared layout.
func Render(w io.Writer, name string, page Page) error {
	t, ok := pages[name]
	if !ok {
		return fmt.Errorf("views: unknown page %q", name)
	}
	return t.ExecuteTemplate(w, "layout.html", page)
}

// Has reports whether a page template exists.
func Has(name string) bool {
	_, ok := pages[name]
	return ok
}
