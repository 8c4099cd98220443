package api

import (
	"github.com/go-chi/chi/v5"

	"github.com/starford/hogwarts/internal/houses"
)

// NewRouter creates a chi router with all API routes mounted.
func NewRouter(cat Catalog, hs []houses.House) chi.Router {
	h := NewHandler(cat, hs)

	r := chi.NewRouter()
	r.NotFound(NotFound)
	r.MethodNotAllowed(MethodNotAllowed)

	r.Get("/characters", h.ListCharacters)
	r.Get("/houses", h.ListHouses)

	return r
}
