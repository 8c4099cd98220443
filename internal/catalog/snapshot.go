package catalog

import (
	"context"
	"slices"

	"github.com/starford/hogwarts/internal/apperr"
	"github.com/starford/hogwarts/internal/models"
)

// Snapshot is the full character collection as fetched once at startup.
// It is never modified after construction.
type Snapshot struct {
	characters []models.Character
}

// NewSnapshot copies characters into a new Snapshot.
func NewSnapshot(characters []models.Character) *Snapshot {
	return &Snapshot{characters: slices.Clone(characters)}
}

// LoadSnapshot fetches the whole collection from src.
func LoadSnapshot(ctx context.Context, src Source) (*Snapshot, error) {
	characters, err := src.FetchAll(ctx)
	if err != nil {
		return nil, apperr.UpstreamUnavailable("Could not fetch API", err)
	}
	return NewSnapshot(characters), nil
}

// Len returns the number of characters in the snapshot.
func (s *Snapshot) Len() int {
	return len(s.characters)
}
