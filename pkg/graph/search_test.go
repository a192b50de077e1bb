package graph

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/codelens-dev/codelens/pkg/common"
)

func searchFixture() (*fakeStore, *fakeCollection) {
	fs := newFakeStore()
	entities, relations := callGraph()
	col := fs.addCollection("proj", entities, relations)
	col.hits = []common.ScoredEntity{
		{Entity: common.Entity{ID: "2", Name: "B", EntityType: common.EntityFunction, Docstring: "parses the config file"}, Score: 0.72},
		{Entity: common.Entity{ID: "1", Name: "A", EntityType: common.EntityFunction, Observations: []string{"entry point", "loads config at startup"}}, Score: 0.91},
		{Entity: common.Entity{ID: "3", Name: "C", EntityType: common.EntityFunction}, Score: 0.55},
	}
	return fs, col
}

func TestSearch_SortedByScoreDescending(t *testing.T) {
	fs, _ := searchFixture()
	eng := NewEngine(fs)

	res, err := eng.Search(context.Background(), SearchParams{
		Collection: "proj",
		Query:      "config",
		Mode:       common.SearchSemantic,
		Limit:      10,
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	for i := 1; i < len(res.Results); i++ {
		if res.Results[i-1].Score < res.Results[i].Score {
			t.Fatalf("results not score-descending at %d: %f < %f",
				i, res.Results[i-1].Score, res.Results[i].Score)
		}
	}
	if res.Results[0].Entity.Name != "A" {
		t.Fatalf("expected top hit A, got %s", res.Results[0].Entity.Name)
	}
}

func TestSearch_PaginationAfterScoring(t *testing.T) {
	fs, _ := searchFixture()
	eng := NewEngine(fs)

	res, err := eng.Search(context.Background(), SearchParams{
		Collection: "proj",
		Mode:       common.SearchSemantic,
		Limit:      1,
		Offset:     1,
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(res.Results) > 1 {
		t.Fatalf("expected at most limit results, got %d", len(res.Results))
	}
	// Offset beyond the result set is an empty page, not an error.
	res, err = eng.Search(context.Background(), SearchParams{
		Collection: "proj",
		Mode:       common.SearchSemantic,
		Limit:      10,
		Offset:     50,
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(res.Results) != 0 {
		t.Fatalf("expected empty page past the end, got %d", len(res.Results))
	}
	if res.Total == 0 {
		t.Fatal("expected total to report pre-pagination count")
	}
}

func TestSearch_UnknownCollectionIsNotFound(t *testing.T) {
	fs, _ := searchFixture()
	eng := NewEngine(fs)

	_, err := eng.Search(context.Background(), SearchParams{
		Collection: "nope",
		Mode:       common.SearchSemantic,
		Limit:      10,
	})
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestSearch_EmptyStoreIsNotFound(t *testing.T) {
	eng := NewEngine(newFakeStore())

	_, err := eng.Search(context.Background(), SearchParams{
		Mode:  common.SearchHybrid,
		Limit: 10,
	})
	if !errors.Is(err, common.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for empty store, got %v", err)
	}
	if err == nil || !strings.Contains(err.Error(), "no collections available") {
		t.Fatalf("expected 'no collections available' context, got %v", err)
	}
}

func TestSearch_DefaultsToFirstCollection(t *testing.T) {
	fs, col := searchFixture()
	_ = col
	eng := NewEngine(fs)

	res, err := eng.Search(context.Background(), SearchParams{
		Mode:  common.SearchSemantic,
		Limit: 10,
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if res.Total == 0 {
		t.Fatal("expected hits from the first collection")
	}
}

func TestSearch_HybridOverfetchesAndTruncates(t *testing.T) {
	fs, _ := searchFixture()
	eng := NewEngine(fs)

	res, err := eng.Search(context.Background(), SearchParams{
		Collection: "proj",
		Mode:       common.SearchHybrid,
		Limit:      2,
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if fs.lastSearchLimit != 4 {
		t.Fatalf("expected hybrid over-fetch of 2x limit, store saw limit %d", fs.lastSearchLimit)
	}
	if res.Total > 2 {
		t.Fatalf("expected truncation to limit 2, got %d", res.Total)
	}
}

func TestSearch_KeywordDelegatesToDense(t *testing.T) {
	fs, _ := searchFixture()
	eng := NewEngine(fs)

	semantic, err := eng.Search(context.Background(), SearchParams{
		Collection: "proj", Mode: common.SearchSemantic, Limit: 10,
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	keyword, err := eng.Search(context.Background(), SearchParams{
		Collection: "proj", Mode: common.SearchKeyword, Limit: 10,
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if keyword.Total != semantic.Total {
		t.Fatalf("keyword mode should mirror semantic results: %d vs %d", keyword.Total, semantic.Total)
	}
}

func TestSearch_InvalidMode(t *testing.T) {
	fs, _ := searchFixture()
	eng := NewEngine(fs)

	_, err := eng.Search(context.Background(), SearchParams{
		Collection: "proj",
		Mode:       common.SearchMode("fuzzy"),
		Limit:      10,
	})
	if !errors.Is(err, common.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestSearch_HighlightPolicy(t *testing.T) {
	fs, _ := searchFixture()
	eng := NewEngine(fs)

	res, err := eng.Search(context.Background(), SearchParams{
		Collection: "proj",
		Query:      "CONFIG",
		Mode:       common.SearchSemantic,
		Limit:      10,
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}

	byName := make(map[string]common.SearchResult)
	for _, r := range res.Results {
		byName[r.Entity.Name] = r
	}

	// Docstring match wins for B.
	if got := byName["B"].Highlights; len(got) != 1 || !strings.Contains(got[0], "config file") {
		t.Fatalf("expected docstring highlight for B, got %v", got)
	}
	// A has no docstring; first matching observation is used.
	if got := byName["A"].Highlights; len(got) != 1 || got[0] != "loads config at startup" {
		t.Fatalf("expected observation highlight for A, got %v", got)
	}
	// C matches nothing.
	if got := byName["C"].Highlights; len(got) != 0 {
		t.Fatalf("expected no highlights for C, got %v", got)
	}
}

func TestSearch_HighlightTruncatedTo200(t *testing.T) {
	fs := newFakeStore()
	long := strings.Repeat("x", 150) + " config " + strings.Repeat("y", 150)
	col := fs.addCollection("proj", []common.Entity{{ID: "1", Name: "A"}}, nil)
	col.hits = []common.ScoredEntity{
		{Entity: common.Entity{ID: "1", Name: "A", Docstring: long}, Score: 0.9},
	}
	eng := NewEngine(fs)

	res, err := eng.Search(context.Background(), SearchParams{
		Collection: "proj",
		Query:      "config",
		Mode:       common.SearchSemantic,
		Limit:      10,
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(res.Results[0].Highlights) != 1 {
		t.Fatalf("expected one highlight, got %d", len(res.Results[0].Highlights))
	}
	if got := len([]rune(res.Results[0].Highlights[0])); got != 200 {
		t.Fatalf("expected 200-character snippet, got %d", got)
	}
}

func TestSearch_TypeFilterApplied(t *testing.T) {
	fs := newFakeStore()
	col := fs.addCollection("proj", nil, nil)
	col.hits = []common.ScoredEntity{
		{Entity: common.Entity{ID: "1", Name: "A", EntityType: common.EntityFunction}, Score: 0.9},
		{Entity: common.Entity{ID: "2", Name: "B", EntityType: common.EntityClass}, Score: 0.8},
	}
	eng := NewEngine(fs)

	res, err := eng.Search(context.Background(), SearchParams{
		Collection: "proj",
		Mode:       common.SearchSemantic,
		Types:      []common.EntityType{common.EntityClass},
		Limit:      10,
	})
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if res.Total != 1 || res.Results[0].Entity.Name != "B" {
		t.Fatalf("expected only class B, got %+v", res.Results)
	}
}
