package graph

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/codelens-dev/codelens/pkg/common"
	"github.com/codelens-dev/codelens/pkg/store"
)

// SearchParams controls a ranked search.
type SearchParams struct {
	// Collection to search. Empty resolves to the first available
	// collection; an empty store is a NotFound error.
	Collection string
	// Query is the original query text, used for highlight extraction
	// only. Scoring happens against Vector.
	Query string
	// Vector is the externally produced query embedding.
	Vector []float32
	// Mode selects the retrieval channel.
	Mode common.SearchMode
	// Types optionally restricts hits by entity type.
	Types []common.EntityType
	// Limit and Offset paginate the scored result list.
	Limit  int
	Offset int
	// IncludeImplementation widens retrieval beyond metadata chunks.
	IncludeImplementation bool
}

// Search runs one retrieval pass and returns a scored, paginated result
// page. Results are score-descending before the offset/limit slice is
// taken; Total reports the pre-pagination count.
//
// Keyword mode currently delegates to the same dense similarity query as
// semantic mode; a true lexical (BM25) channel is an unimplemented
// extension point. Hybrid mode over-fetches twice the limit and truncates,
// standing in for real multi-channel score fusion.
func (e *Engine) Search(ctx context.Context, p SearchParams) (common.SearchResponse, error) {
	start := time.Now()

	collection, err := e.resolveCollection(ctx, p.Collection)
	if err != nil {
		return common.SearchResponse{}, err
	}

	filter := store.SearchFilter{
		EntityTypes:           p.Types,
		IncludeImplementation: p.IncludeImplementation,
	}

	var hits []common.ScoredEntity
	switch p.Mode {
	case common.SearchSemantic:
		hits, err = e.store.SimilaritySearch(ctx, collection, p.Vector, filter, p.Limit)
	case common.SearchKeyword:
		// Lexical matching is not implemented; fall back to the dense channel.
		hits, err = e.store.SimilaritySearch(ctx, collection, p.Vector, filter, p.Limit)
	case common.SearchHybrid:
		hits, err = e.store.SimilaritySearch(ctx, collection, p.Vector, filter, p.Limit*2)
		if err == nil && len(hits) > p.Limit {
			hits = hits[:p.Limit]
		}
	default:
		return common.SearchResponse{}, common.InvalidArgumentf("unknown search mode %q", p.Mode)
	}
	if err != nil {
		return common.SearchResponse{}, err
	}

	results := make([]common.SearchResult, 0, len(hits))
	for _, hit := range hits {
		results = append(results, common.SearchResult{
			Entity:     hit.Entity,
			Score:      hit.Score,
			ChunkType:  common.ChunkMetadata,
			Highlights: extractHighlights(p.Query, hit.Entity),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})

	total := len(results)
	page := paginate(results, p.Offset, p.Limit)

	return common.SearchResponse{
		Results: page,
		Total:   total,
		Query:   p.Query,
		Mode:    p.Mode,
		TookMs:  float64(time.Since(start).Microseconds()) / 1000.0,
	}, nil
}

// resolveCollection validates the named collection, or picks the first
// available one when none is named.
func (e *Engine) resolveCollection(ctx context.Context, collection string) (string, error) {
	if collection != "" {
		if _, err := e.store.CollectionInfo(ctx, collection); err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return "", common.NotFoundf("collection %q", collection)
			}
			return "", err
		}
		return collection, nil
	}

	names, err := e.store.ListCollections(ctx)
	if err != nil {
		return "", err
	}
	if len(names) == 0 {
		return "", common.NotFoundf("no collections available")
	}
	return names[0], nil
}

// extractHighlights returns at most one snippet: the docstring when it
// contains the query, else the first matching observation. Matching is
// case-insensitive; snippets are truncated to 200 characters.
func extractHighlights(query string, entity common.Entity) []string {
	highlights := []string{}
	if query == "" {
		return highlights
	}
	needle := strings.ToLower(query)

	if entity.Docstring != "" && strings.Contains(strings.ToLower(entity.Docstring), needle) {
		return append(highlights, truncateRunes(entity.Docstring, highlightLen))
	}
	for _, obs := range entity.Observations {
		if strings.Contains(strings.ToLower(obs), needle) {
			return append(highlights, truncateRunes(obs, highlightLen))
		}
	}
	return highlights
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

func paginate(results []common.SearchResult, offset, limit int) []common.SearchResult {
	if offset >= len(results) {
		return []common.SearchResult{}
	}
	end := offset + limit
	if end > len(results) {
		end = len(results)
	}
	return results[offset:end]
}
