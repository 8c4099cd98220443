// Package catalog serves paginated, filtered views over the character
// collection. The full collection is fetched once into a Snapshot; house
// filters are resolved by the upstream source on every request and name
// filters are applied locally afterwards.
package catalog

import (
	"context"
	"strings"

	"github.com/starford/hogwarts/internal/apperr"
	"github.com/starford/hogwarts/internal/models"
)

// PageSize is the fixed number of characters per page.
const PageSize = 20

// Source is the upstream character API.
type Source interface {
	// FetchAll returns the whole character collection.
	FetchAll(ctx context.Context) ([]models.Character, error)
	// FetchByHouse returns the characters of a normalized house name.
	// A nil or empty result means no matches.
	FetchByHouse(ctx context.Context, house string) ([]models.Character, error)
}

// Query selects one page of results. Search and House are optional.
type Query struct {
	Page   int
	Search string
	House  string
}

// Page is one bounded slice of a filtered result set.
type Page struct {
	Page  int                `json:"page"`
	Size  int                `json:"size"`
	Total int                `json:"total"`
	Items []models.Character `json:"items"`
}

// TotalPages returns ceil(Total / Size).
func (p *Page) TotalPages() int {
	if p.Size <= 0 {
		return 0
	}
	return (p.Total + p.Size - 1) / p.Size
}

// Engine answers page queries against a snapshot and a source.
// It is safe for concurrent use.
type Engine struct {
	snapshot *Snapshot
	source   Source
}

// NewEngine creates an Engine over an already loaded snapshot.
func NewEngine(snapshot *Snapshot, source Source) *Engine {
	return &Engine{snapshot: snapshot, source: source}
}

// New loads the snapshot from source and returns a ready Engine.
func New(ctx context.Context, source Source) (*Engine, error) {
	snapshot, err := LoadSnapshot(ctx, source)
	if err != nil {
		return nil, err
	}
	return NewEngine(snapshot, source), nil
}

// Snapshot returns the engine's snapshot.
func (e *Engine) Snapshot() *Snapshot {
	return e.snapshot
}

// GetPage returns the requested page. House filtering happens first via
// the source, then the name filter narrows that set.
func (e *Engine) GetPage(ctx context.Context, q Query) (*Page, error) {
	if q.Page < 1 {
		return nil, apperr.InvalidArgument("page must be >= 1")
	}

	base, err := e.base(ctx, q.House)
	if err != nil {
		return nil, err
	}
	filtered := FilterByName(base, q.Search)

	total := len(filtered)
	from, to := window(q.Page, total)
	if from >= total && total != 0 {
		return nil, apperr.InvalidArgument("page is out of range")
	}

	items := make([]models.Character, to-from)
	copy(items, filtered[from:to])

	return &Page{
		Page:  q.Page,
		Size:  PageSize,
		Total: total,
		Items: items,
	}, nil
}

func (e *Engine) base(ctx context.Context, house string) ([]models.Character, error) {
	if strings.TrimSpace(house) == "" {
		return e.snapshot.characters, nil
	}
	house = Normalize(house)
	characters, err := e.source.FetchByHouse(ctx, house)
	if err != nil {
		return nil, apperr.UpstreamUnavailable("Could not fetch API (house="+house+")", err)
	}
	return characters, nil
}
