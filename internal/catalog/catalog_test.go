package catalog_test

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"testing"

	"github.com/starford/hogwarts/internal/apperr"
	"github.com/starford/hogwarts/internal/catalog"
	"github.com/starford/hogwarts/internal/models"
	"github.com/starford/hogwarts/internal/testutil"
)

func getPage(t *testing.T, e *catalog.Engine, q catalog.Query) *catalog.Page {
	t.Helper()
	p, err := e.GetPage(context.Background(), q)
	if err != nil {
		t.Fatalf("GetPage(%+v): %v", q, err)
	}
	return p
}

func names(items []models.Character) []string {
	out := make([]string, len(items))
	for i, c := range items {
		out[i] = c.Name
	}
	return out
}

func TestNewFailsWhenUpstreamDown(t *testing.T) {
	src := &testutil.FakeSource{AllErr: errors.New("dial tcp: connection refused")}
	_, err := catalog.New(context.Background(), src)
	if !errors.Is(err, apperr.ErrUpstreamUnavailable) {
		t.Fatalf("err = %v, want ErrUpstreamUnavailable", err)
	}
	if err.Error() != "Could not fetch API" {
		t.Errorf("message = %q", err.Error())
	}
}

func TestNewFetchesOnce(t *testing.T) {
	src := &testutil.FakeSource{All: testutil.Characters(3, "Gryffindor")}
	e := testutil.Engine(t, src)
	for range 3 {
		getPage(t, e, catalog.Query{Page: 1})
	}
	if n := src.FetchAllCount(); n != 1 {
		t.Errorf("FetchAll called %d times, want 1", n)
	}
	if e.Snapshot().Len() != 3 {
		t.Errorf("snapshot len = %d", e.Snapshot().Len())
	}
}

func TestSnapshotIsImmutable(t *testing.T) {
	src := testutil.Characters(2, "")
	e := catalog.NewEngine(catalog.NewSnapshot(src), &testutil.FakeSource{})
	src[0].Name = "changed after load"

	p := getPage(t, e, catalog.Query{Page: 1})
	if p.Items[0].Name != "Character 1" {
		t.Errorf("snapshot shares the input slice: %q", p.Items[0].Name)
	}
}

func TestGetPageRejectsPageBelowOne(t *testing.T) {
	e := testutil.Engine(t, &testutil.FakeSource{All: testutil.Characters(5, "")})
	for _, page := range []int{0, -1, -100} {
		_, err := e.GetPage(context.Background(), catalog.Query{Page: page})
		if !errors.Is(err, apperr.ErrInvalidArgument) {
			t.Fatalf("page %d: err = %v, want ErrInvalidArgument", page, err)
		}
		if err.Error() != "page must be >= 1" {
			t.Errorf("page %d: message = %q", page, err.Error())
		}
	}
}

func TestGetPagePagination(t *testing.T) {
	e := testutil.Engine(t, &testutil.FakeSource{All: testutil.Characters(45, "")})

	tests := []struct {
		page      int
		wantItems int
		wantFirst string
	}{
		{1, 20, "Character 1"},
		{2, 20, "Character 21"},
		{3, 5, "Character 41"},
	}
	for _, tt := range tests {
		p := getPage(t, e, catalog.Query{Page: tt.page})
		if p.Total != 45 || p.Size != catalog.PageSize || p.Page != tt.page {
			t.Errorf("page %d: got page=%d size=%d total=%d", tt.page, p.Page, p.Size, p.Total)
		}
		if len(p.Items) != tt.wantItems {
			t.Errorf("page %d: len(items) = %d, want %d", tt.page, len(p.Items), tt.wantItems)
		}
		if p.Items[0].Name != tt.wantFirst {
			t.Errorf("page %d: first = %q, want %q", tt.page, p.Items[0].Name, tt.wantFirst)
		}
		if p.TotalPages() != 3 {
			t.Errorf("TotalPages = %d, want 3", p.TotalPages())
		}
	}

	_, err := e.GetPage(context.Background(), catalog.Query{Page: 4})
	if !errors.Is(err, apperr.ErrInvalidArgument) {
		t.Fatalf("page 4: err = %v, want ErrInvalidArgument", err)
	}
	if err.Error() != "page is out of range" {
		t.Errorf("message = %q", err.Error())
	}
}

func TestGetPageExactMultiple(t *testing.T) {
	e := testutil.Engine(t, &testutil.FakeSource{All: testutil.Characters(40, "")})
	p := getPage(t, e, catalog.Query{Page: 2})
	if len(p.Items) != 20 {
		t.Errorf("len(items) = %d, want 20", len(p.Items))
	}
	if _, err := e.GetPage(context.Background(), catalog.Query{Page: 3}); !errors.Is(err, apperr.ErrInvalidArgument) {
		t.Errorf("page 3: err = %v, want ErrInvalidArgument", err)
	}
}

func TestGetPageHugePageNumber(t *testing.T) {
	e := testutil.Engine(t, &testutil.FakeSource{All: testutil.Characters(5, "")})
	maxInt := int(^uint(0) >> 1)
	_, err := e.GetPage(context.Background(), catalog.Query{Page: maxInt})
	if !errors.Is(err, apperr.ErrInvalidArgument) {
		t.Fatalf("err = %v, want ErrInvalidArgument", err)
	}
}

func TestGetPageEmptyResultIsNotAnError(t *testing.T) {
	e := testutil.Engine(t, &testutil.FakeSource{})
	p := getPage(t, e, catalog.Query{Page: 1})
	if p.Total != 0 || len(p.Items) != 0 {
		t.Errorf("got total=%d items=%d, want empty", p.Total, len(p.Items))
	}
	if p.Items == nil {
		t.Error("items should be an empty slice, not nil")
	}
	if p.TotalPages() != 0 {
		t.Errorf("TotalPages = %d, want 0", p.TotalPages())
	}
	// An empty set never reports out of range.
	getPage(t, e, catalog.Query{Page: 2})
}

func TestGetPageSearchIsCaseInsensitiveSubstring(t *testing.T) {
	e := testutil.Engine(t, &testutil.FakeSource{All: testutil.Roster()})

	tests := []struct {
		search string
		want   []string
	}{
		{"harry", []string{"Harry Potter", "Harry's Owl"}},
		{"  HARRY  ", []string{"Harry Potter", "Harry's Owl"}},
		{"rRy", []string{"Harry Potter", "Harry's Owl"}},
		{"d", []string{"Draco Malfoy", "Luna Lovegood", "Cedric Diggory", "Dudley Dursley"}},
		{"ley", []string{"Ron Weasley", "Dudley Dursley"}},
		{"voldemort", []string{}},
		{"", nil},
	}
	for _, tt := range tests {
		p := getPage(t, e, catalog.Query{Page: 1, Search: tt.search})
		if tt.want == nil {
			if p.Total != len(testutil.Roster()) {
				t.Errorf("search %q: total = %d, want full roster", tt.search, p.Total)
			}
			continue
		}
		if got := names(p.Items); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("search %q: got %v, want %v", tt.search, got, tt.want)
		}
		if p.Total != len(tt.want) {
			t.Errorf("search %q: total = %d, want %d", tt.search, p.Total, len(tt.want))
		}
	}
}

func TestGetPageSearchPaginates(t *testing.T) {
	all := testutil.Characters(30, "")
	for i := range all {
		if i%2 == 0 {
			all[i].Name = "Harry " + all[i].Name
		}
	}
	e := testutil.Engine(t, &testutil.FakeSource{All: all})

	p1 := getPage(t, e, catalog.Query{Page: 1, Search: "HARRY"})
	if p1.Total != 15 || len(p1.Items) != 15 {
		t.Fatalf("total=%d items=%d, want 15/15", p1.Total, len(p1.Items))
	}
	for _, c := range p1.Items {
		if !strings.HasPrefix(c.Name, "Harry ") {
			t.Errorf("unexpected match %q", c.Name)
		}
	}
	if p1.Items[0].Name != "Harry Character 1" || p1.Items[1].Name != "Harry Character 3" {
		t.Errorf("order not preserved: %v", names(p1.Items[:2]))
	}
	if _, err := e.GetPage(context.Background(), catalog.Query{Page: 2, Search: "harry"}); !errors.Is(err, apperr.ErrInvalidArgument) {
		t.Errorf("page 2: err = %v, want ErrInvalidArgument", err)
	}
}

func TestGetPageHouseUsesUpstream(t *testing.T) {
	gryffindor := []models.Character{
		{ID: "1", Name: "Harry Potter", House: "Gryffindor"},
		{ID: "2", Name: "Hermione Granger", House: "Gryffindor"},
	}
	src := &testutil.FakeSource{
		All:    testutil.Roster(),
		Houses: map[string][]models.Character{"gryffindor": gryffindor},
	}
	e := testutil.Engine(t, src)

	p := getPage(t, e, catalog.Query{Page: 1, House: "  GryffinDOR "})
	if got := names(p.Items); !reflect.DeepEqual(got, []string{"Harry Potter", "Hermione Granger"}) {
		t.Errorf("items = %v", got)
	}
	if calls := src.HouseCalls(); !reflect.DeepEqual(calls, []string{"gryffindor"}) {
		t.Errorf("house calls = %v, want [gryffindor]", calls)
	}
}

func TestGetPageBlankHouseUsesSnapshot(t *testing.T) {
	src := &testutil.FakeSource{All: testutil.Roster()}
	e := testutil.Engine(t, src)

	p := getPage(t, e, catalog.Query{Page: 1, House: "   "})
	if p.Total != len(testutil.Roster()) {
		t.Errorf("total = %d", p.Total)
	}
	if calls := src.HouseCalls(); len(calls) != 0 {
		t.Errorf("unexpected house calls %v", calls)
	}
}

func TestGetPageHouseThenSearch(t *testing.T) {
	src := &testutil.FakeSource{
		All: testutil.Roster(),
		Houses: map[string][]models.Character{
			// Upstream is authoritative about membership, even when the
			// record's own house field disagrees.
			"slytherin": {
				{ID: "4", Name: "Draco Malfoy", House: "Slytherin"},
				{ID: "11", Name: "Harry Lookalike", House: ""},
			},
		},
	}
	e := testutil.Engine(t, src)

	p := getPage(t, e, catalog.Query{Page: 1, House: "slytherin", Search: "harry"})
	if got := names(p.Items); !reflect.DeepEqual(got, []string{"Harry Lookalike"}) {
		t.Errorf("items = %v, want [Harry Lookalike]", got)
	}
	if p.Total != 1 {
		t.Errorf("total = %d, want 1", p.Total)
	}
}

func TestGetPageEmptyHouse(t *testing.T) {
	src := &testutil.FakeSource{All: testutil.Roster(), Houses: map[string][]models.Character{}}
	e := testutil.Engine(t, src)

	p := getPage(t, e, catalog.Query{Page: 1, House: "gryffindor"})
	if p.Total != 0 || len(p.Items) != 0 {
		t.Errorf("got total=%d items=%d, want empty", p.Total, len(p.Items))
	}
}

func TestGetPageHouseUpstreamFailure(t *testing.T) {
	cause := errors.New("503 from upstream")
	src := &testutil.FakeSource{All: testutil.Roster(), HouseErr: cause}
	e := testutil.Engine(t, src)

	p, err := e.GetPage(context.Background(), catalog.Query{Page: 1, House: " Ravenclaw"})
	if p != nil {
		t.Error("no partial page on error")
	}
	if !errors.Is(err, apperr.ErrUpstreamUnavailable) {
		t.Fatalf("err = %v, want ErrUpstreamUnavailable", err)
	}
	if !errors.Is(err, cause) {
		t.Error("cause should be wrapped")
	}
	if err.Error() != "Could not fetch API (house=ravenclaw)" {
		t.Errorf("message = %q", err.Error())
	}
}

func TestGetPageIsIdempotent(t *testing.T) {
	src := &testutil.FakeSource{
		All:    testutil.Characters(45, ""),
		Houses: map[string][]models.Character{"hufflepuff": testutil.Characters(25, "Hufflepuff")},
	}
	e := testutil.Engine(t, src)

	q := catalog.Query{Page: 1, Search: "character 2", House: "Hufflepuff"}
	first := getPage(t, e, q)
	second := getPage(t, e, q)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("pages differ:\n%+v\n%+v", first, second)
	}
}

func TestGetPageItemsDoNotAliasSnapshot(t *testing.T) {
	src := &testutil.FakeSource{All: testutil.Characters(3, "")}
	e := testutil.Engine(t, src)

	p := getPage(t, e, catalog.Query{Page: 1})
	p.Items[0].Name = "Mutated"

	again := getPage(t, e, catalog.Query{Page: 1})
	if again.Items[0].Name != "Character 1" {
		t.Errorf("snapshot was mutated through page items: %q", again.Items[0].Name)
	}
}

func TestGetPageItemsNeverExceedBounds(t *testing.T) {
	for _, n := range []int{0, 1, 19, 20, 21, 39, 40, 41, 100} {
		e := testutil.Engine(t, &testutil.FakeSource{All: testutil.Characters(n, "")})
		for page := 1; ; page++ {
			p, err := e.GetPage(context.Background(), catalog.Query{Page: page})
			if err != nil {
				break
			}
			if len(p.Items) > catalog.PageSize || len(p.Items) > p.Total {
				t.Errorf("n=%d page=%d: %d items exceeds bounds", n, page, len(p.Items))
			}
			if n == 0 && page > 3 {
				break
			}
		}
	}
}

func TestGetPageConcurrent(t *testing.T) {
	src := &testutil.FakeSource{All: testutil.Characters(60, "")}
	e := testutil.Engine(t, src)

	done := make(chan error, 16)
	for i := range 16 {
		go func(page int) {
			_, err := e.GetPage(context.Background(), catalog.Query{Page: page, Search: "character"})
			done <- err
		}(i%3 + 1)
	}
	for range 16 {
		if err := <-done; err != nil {
			t.Errorf("GetPage: %v", err)
		}
	}
}
