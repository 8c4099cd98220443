// Package testutil provides shared test helpers: a fake character source
// and generated character fixtures.
package testutil

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/starford/hogwarts/internal/catalog"
	"github.com/starford/hogwarts/internal/models"
)

// FakeSource is an in-memory catalog.Source. Houses maps a normalized
// house name to its characters; missing houses return nil.
type FakeSource struct {
	All    []models.Character
	Houses map[string][]models.Character

	AllErr   error
	HouseErr error

	mu          sync.Mutex
	houseCalls  []string
	fetchAllCnt int
}

var _ catalog.Source = (*FakeSource)(nil)

// FetchAll implements catalog.Source.
func (f *FakeSource) FetchAll(_ context.Context) ([]models.Character, error) {
	f.mu.Lock()
	f.fetchAllCnt++
	f.mu.Unlock()
	if f.AllErr != nil {
		return nil, f.AllErr
	}
	return f.All, nil
}

// FetchByHouse implements catalog.Source.
func (f *FakeSource) FetchByHouse(_ context.Context, house string) ([]models.Character, error) {
	f.mu.Lock()
	f.houseCalls = append(f.houseCalls, house)
	f.mu.Unlock()
	if f.HouseErr != nil {
		return nil, f.HouseErr
	}
	return f.Houses[house], nil
}

// HouseCalls returns the house names FetchByHouse was called with.
func (f *FakeSource) HouseCalls() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.houseCalls...)
}

// FetchAllCount returns how many times FetchAll was called.
func (f *FakeSource) FetchAllCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.fetchAllCnt
}

// Characters generates n characters named "Character 1".."Character n"
// in the given house.
func Characters(n int, house string) []models.Character {
	out := make([]models.Character, n)
	for i := range out {
		out[i] = models.Character{
			ID:    fmt.Sprintf("id-%s-%d", house, i+1),
			Name:  fmt.Sprintf("Character %d", i+1),
			House: house,
		}
	}
	return out
}

// Roster returns a small hand-written set of well-known characters.
func Roster() []models.Character {
	return []models.Character{
		{ID: "1", Name: "Harry Potter", House: "Gryffindor", Patronus: "stag"},
		{ID: "2", Name: "Hermione Granger", House: "Gryffindor", Patronus: "otter"},
		{ID: "3", Name: "Ron Weasley", House: "Gryffindor", Patronus: "Jack Russell terrier"},
		{ID: "4", Name: "Draco Malfoy", House: "Slytherin"},
		{ID: "5", Name: "Harry's Owl", House: ""},
		{ID: "6", Name: "", House: "Hufflepuff"},
		{ID: "7", Name: "Luna Lovegood", House: "Ravenclaw", Patronus: "hare"},
		{ID: "8", Name: "Cedric Diggory", House: "Hufflepuff"},
		{ID: "9", Name: "Dudley Dursley", House: ""},
		{ID: "10", Name: "Charity Burbage", House: ""},
	}
}

// Engine builds a catalog.Engine over src, failing the test on error.
func Engine(t *testing.T, src *FakeSource) *catalog.Engine {
	t.Helper()
	e, err := catalog.New(context.Background(), src)
	if err != nil {
		t.Fatalf("catalog.New: %v", err)
	}
	return e
}
