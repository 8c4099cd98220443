package api

import (
	"github.com/starford/hogwarts/internal/catalog"
	"github.com/starford/hogwarts/internal/houses"
)

// CharacterPage is the response of GET /api/characters.
type CharacterPage = catalog.Page

// HouseListResponse wraps the static house metadata.
type HouseListResponse struct {
	Houses []houses.House `json:"houses"`
}
