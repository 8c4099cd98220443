package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/starford/hogwarts/internal/apperr"
	"github.com/starford/hogwarts/internal/catalog"
	"github.com/starford/hogwarts/internal/houses"
)

// Catalog is the part of catalog.Engine the handlers need.
type Catalog interface {
	GetPage(ctx context.Context, q catalog.Query) (*catalog.Page, error)
}

// Handler holds API route handlers.
type Handler struct {
	catalog Catalog
	houses  []houses.House
}

// NewHandler creates a new Handler.
func NewHandler(cat Catalog, hs []houses.House) *Handler {
	return &Handler{catalog: cat, houses: hs}
}

// ParseQuery reads page, search and house from the query string.
// A missing page means 1.
func ParseQuery(r *http.Request) (catalog.Query, error) {
	q := r.URL.Query()
	page := 1
	if raw := strings.TrimSpace(q.Get("page")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return catalog.Query{}, apperr.InvalidArgument("page must be an integer")
		}
		page = n
	}
	return catalog.Query{
		Page:   page,
		Search: q.Get("search"),
		House:  q.Get("house"),
	}, nil
}

// ListCharacters handles GET /api/characters.
//
//	@Summary		List characters with pagination and filtering
//	@Tags			characters
//	@Produce		json
//	@Param			page	query		int		false	"1-based page number"	default(1)
//	@Param			search	query		string	false	"Case-insensitive name substring"
//	@Param			house	query		string	false	"House name"
//	@Success		200		{object}	CharacterPage
//	@Failure		400		{object}	APIError
//	@Failure		503		{object}	APIError
//	@Router			/characters [get]
func (h *Handler) ListCharacters(w http.ResponseWriter, r *http.Request) {
	q, err := ParseQuery(r)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	page, err := h.catalog.GetPage(r.Context(), q)
	if err != nil {
		WriteError(w, r, err)
		return
	}
	writeJSONWithETag(w, r, page)
}

// ListHouses handles GET /api/houses.
//
//	@Summary		List house display metadata
//	@Tags			houses
//	@Produce		json
//	@Success		200	{object}	HouseListResponse
//	@Router			/houses [get]
func (h *Handler) ListHouses(w http.ResponseWriter, r *http.Request) {
	writeJSONWithETag(w, r, HouseListResponse{Houses: h.houses})
}
