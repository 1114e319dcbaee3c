// Package web holds the embedded HTML templates for the browse pages.
package web

import (
	"embed"
	"html/template"
	"log"
	"net/http"

	"dartlens/pkg/core/directory"
)

//go:embed templates/*.html
var templateFS embed.FS

// HomeData feeds the browse page.
type HomeData struct {
	Popular     []directory.Company
	TotalCount  int
	ListedCount int
}

// CompanyData feeds the company detail page.
type CompanyData struct {
	Company directory.Company
}

// Pages renders the embedded templates. Templates are parsed once at startup;
// a parse failure is a programming error and panics there, not per-request.
type Pages struct {
	tmpl *template.Template
}

func NewPages() *Pages {
	return &Pages{
		tmpl: template.Must(template.ParseFS(templateFS, "templates/*.html")),
	}
}

func (p *Pages) RenderHome(w http.ResponseWriter, data HomeData) {
	p.render(w, "home.html", data)
}

func (p *Pages) RenderCompany(w http.ResponseWriter, data CompanyData) {
	p.render(w, "company.html", data)
}

func (p *Pages) render(w http.ResponseWriter, name string, data interface{}) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := p.tmpl.ExecuteTemplate(w, name, data); err != nil {
		log.Printf("[WEB] 템플릿 렌더링 실패 (%s): %v", name, err)
	}
}
