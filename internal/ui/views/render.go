package views

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/yigit/tourofcourses/internal/ui/routes"
)

//go:embed templates/*.gohtml
var templateFS embed.FS

// Renderer turns view models into HTML
type Renderer struct {
	tmpl *template.Template
}

// NewRenderer parses the embedded templates
func NewRenderer() (*Renderer, error) {
	tmpl, err := template.New("views").Funcs(template.FuncMap{
		"upper":      strings.ToUpper,
		"detailPath": routes.DetailPath,
	}).ParseFS(templateFS, "templates/*.gohtml")
	if err != nil {
		return nil, fmt.Errorf("failed to parse view templates: %w", err)
	}
	return &Renderer{tmpl: tmpl}, nil
}

// MustRenderer is NewRenderer for package initialization and tests
func MustRenderer() *Renderer {
	r, err := NewRenderer()
	if err != nil {
		panic(err)
	}
	return r
}

// Root is the content of <app-root>
type Root struct {
	View     View
	Messages []string
}

// Document is a full HTML page
type Document struct {
	Title string
	Path  string
	Root  template.HTML
}

// View renders v wrapped in its element tag
func (r *Renderer) View(v View) (template.HTML, error) {
	var b bytes.Buffer
	b.WriteString("<" + v.Tag() + ">")
	if err := r.tmpl.ExecuteTemplate(&b, v.Tag(), v.Model()); err != nil {
		return "", fmt.Errorf("failed to render %s: %w", v.Tag(), err)
	}
	b.WriteString("</" + v.Tag() + ">")
	// Produced by html/template, so already escaped.
	return template.HTML(b.String()), nil
}

// Root renders the inner HTML of <app-root>
func (r *Renderer) Root(root Root) (string, error) {
	var outlet template.HTML
	if root.View != nil {
		var err error
		if outlet, err = r.View(root.View); err != nil {
			return "", err
		}
	}

	var b bytes.Buffer
	err := r.tmpl.ExecuteTemplate(&b, "app-root", struct {
		Title    string
		Outlet   template.HTML
		Messages []string
	}{Title, outlet, root.Messages})
	if err != nil {
		return "", fmt.Errorf("failed to render app-root: %w", err)
	}
	return b.String(), nil
}

// Document writes a complete page around already rendered root HTML
func (r *Renderer) Document(w io.Writer, doc Document) error {
	if doc.Title == "" {
		doc.Title = Title
	}
	return r.tmpl.ExecuteTemplate(w, "document", doc)
}
