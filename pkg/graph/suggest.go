package graph

import (
	"context"
	"strings"

	"github.com/codelens-dev/codelens/pkg/common"
)

// suggestScanLimit bounds how many entities a suggestion pass scans.
const suggestScanLimit = 100

// Suggestion is one entity-name completion for a partial query.
type Suggestion struct {
	Text        string            `json:"text"`
	Type        common.EntityType `json:"type"`
	Description string            `json:"description"`
}

// Suggest returns up to limit entity names starting with prefix,
// case-insensitively. Prefixes shorter than two characters yield no
// suggestions.
func (e *Engine) Suggest(ctx context.Context, collection, prefix string, limit int) ([]Suggestion, error) {
	suggestions := []Suggestion{}
	if len(prefix) < 2 {
		return suggestions, nil
	}

	entities, err := e.store.ListEntities(ctx, collection, nil, suggestScanLimit)
	if err != nil {
		return nil, err
	}

	needle := strings.ToLower(prefix)
	for _, ent := range entities {
		if !strings.HasPrefix(strings.ToLower(ent.Name), needle) {
			continue
		}
		description := ""
		if len(ent.Observations) > 0 {
			description = ent.Observations[0]
		}
		suggestions = append(suggestions, Suggestion{
			Text:        ent.Name,
			Type:        ent.EntityType,
			Description: description,
		})
		if len(suggestions) >= limit {
			break
		}
	}

	return suggestions, nil
}
