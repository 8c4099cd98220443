// Package web renders the HTML pages of the catalog.
package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/starford/hogwarts/internal/api"
	"github.com/starford/hogwarts/internal/catalog"
	"github.com/starford/hogwarts/internal/houses"
)

//go:embed templates/*.html
var templateFS embed.FS

var funcs = template.FuncMap{
	"lower": catalog.Normalize,
}

// Handler serves the HTML pages.
type Handler struct {
	catalog api.Catalog
	houses  []houses.House
	pages   map[string]*template.Template
}

// NewHandler parses the embedded templates.
func NewHandler(cat api.Catalog, hs []houses.House) (*Handler, error) {
	pages := make(map[string]*template.Template)
	for _, name := range []string{"home", "houses", "characters"} {
		t, err := template.New(name).Funcs(funcs).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("web: parse %s: %w", name, err)
		}
		pages[name] = t
	}
	return &Handler{catalog: cat, houses: hs, pages: pages}, nil
}

// Register mounts the page routes on r.
func (h *Handler) Register(r chi.Router) {
	r.Get("/", h.Home)
	r.Get("/houses", h.Houses)
	r.Get("/characters", h.Characters)
}

// Home handles GET /.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "home", nil)
}

// Houses handles GET /houses.
func (h *Handler) Houses(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, "houses", struct{ Houses []houses.House }{h.houses})
}

type charactersView struct {
	Page       *catalog.Page
	Houses     []houses.House
	Search     string
	House      string
	HouseKey   string
	TotalPages int
	TotalLabel string
	PrevURL    string
	NextURL    string
}

// Characters handles GET /characters.
func (h *Handler) Characters(w http.ResponseWriter, r *http.Request) {
	q, err := api.ParseQuery(r)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}
	page, err := h.catalog.GetPage(r.Context(), q)
	if err != nil {
		api.WriteError(w, r, err)
		return
	}

	p := message.NewPrinter(language.English)
	view := charactersView{
		Page:       page,
		Houses:     h.houses,
		Search:     q.Search,
		House:      q.House,
		HouseKey:   catalog.Normalize(q.House),
		TotalPages: page.TotalPages(),
		TotalLabel: p.Sprintf("%d characters", page.Total),
	}
	if page.Total == 1 {
		view.TotalLabel = "1 character"
	}
	if page.Page > 1 {
		view.PrevURL = pageURL(q, page.Page-1)
	}
	if page.Page < view.TotalPages {
		view.NextURL = pageURL(q, page.Page+1)
	}
	h.render(w, r, "characters", view)
}

func pageURL(q catalog.Query, page int) string {
	v := url.Values{}
	v.Set("page", strconv.Itoa(page))
	if q.Search != "" {
		v.Set("search", q.Search)
	}
	if q.House != "" {
		v.Set("house", q.House)
	}
	return "/characters?" + v.Encode()
}

// render executes into a buffer first so a template error never leaves a
// half-written page behind.
func (h *Handler) render(w http.ResponseWriter, r *http.Request, name string, data any) {
	var buf bytes.Buffer
	if err := h.pages[name].ExecuteTemplate(&buf, "layout", data); err != nil {
		api.WriteError(w, r, fmt.Errorf("web: render %s: %w", name, err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
