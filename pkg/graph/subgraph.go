package graph

import (
	"context"
	"errors"

	"github.com/codelens-dev/codelens/pkg/common"
)

// SubgraphParams controls a subgraph extraction.
type SubgraphParams struct {
	// Focus is the entity name the walk starts from. Empty means no focus:
	// a flat page of entities plus the relations among them.
	Focus string
	// Types restricts unfocused extraction to the given entity types.
	Types []common.EntityType
	// Depth bounds the walk. Note the semantics: the walk processes at
	// most Depth nodes in total before stopping. This is a visited-node
	// budget, not a hop-distance bound; a focus with many neighbors can
	// exhaust the budget without ever reaching distance Depth.
	Depth int
	// Limit caps the number of entities in the result.
	Limit int
}

// ExtractSubgraph returns a consistent entity/relation view of the
// collection. With a focus entity it walks the relation graph breadth
// first from the focus, treating relations as traversable in both
// directions; without one it pages entities directly from the store.
//
// Every returned relation has both endpoints in the returned entity set;
// edges to entities outside the view are dropped. An unresolvable focus
// yields an empty subgraph rather than an error. Intermediate names that
// no longer resolve are skipped and the walk continues through them.
func (e *Engine) ExtractSubgraph(ctx context.Context, collection string, p SubgraphParams) (common.Subgraph, error) {
	if p.Focus == "" {
		return e.extractUnfocused(ctx, collection, p)
	}
	return e.extractAround(ctx, collection, p)
}

func (e *Engine) extractUnfocused(ctx context.Context, collection string, p SubgraphParams) (common.Subgraph, error) {
	entities, err := e.store.ListEntities(ctx, collection, p.Types, p.Limit)
	if err != nil {
		return common.Subgraph{}, err
	}

	relations, err := e.store.ListRelations(ctx, collection, "")
	if err != nil {
		return common.Subgraph{}, err
	}

	return consistentView(entities, relations), nil
}

func (e *Engine) extractAround(ctx context.Context, collection string, p SubgraphParams) (common.Subgraph, error) {
	if _, err := e.store.ResolveEntity(ctx, collection, p.Focus); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.Subgraph{Entities: []common.Entity{}, Relations: []common.Relation{}}, nil
		}
		return common.Subgraph{}, err
	}

	var (
		entities  []common.Entity
		relations []common.Relation
		relSeen   = make(map[string]bool)
		visited   = make(map[string]bool)
		queued    = map[string]bool{p.Focus: true}
		frontier  = []string{p.Focus}
		processed = 0
	)

	for len(frontier) > 0 && processed < p.Depth && len(entities) < p.Limit {
		name := frontier[0]
		frontier = frontier[1:]
		if visited[name] {
			continue
		}
		visited[name] = true

		entity, err := e.store.ResolveEntity(ctx, collection, name)
		switch {
		case err == nil:
			entities = append(entities, *entity)
		case errors.Is(err, common.ErrNotFound):
			// Stale endpoint; keep walking through it.
		default:
			return common.Subgraph{}, err
		}

		incident, err := e.store.ListRelations(ctx, collection, name)
		if err != nil {
			return common.Subgraph{}, err
		}
		for _, rel := range incident {
			key := rel.FromEntity + "\x00" + string(rel.RelationType) + "\x00" + rel.ToEntity
			if !relSeen[key] {
				relSeen[key] = true
				relations = append(relations, rel)
			}
			other := rel.Other(name)
			if !visited[other] && !queued[other] {
				queued[other] = true
				frontier = append(frontier, other)
			}
		}

		processed++
	}

	return consistentView(entities, relations), nil
}

// consistentView drops every relation with an endpoint missing from the
// entity set, so the returned subgraph never contains dangling edges.
func consistentView(entities []common.Entity, relations []common.Relation) common.Subgraph {
	if entities == nil {
		entities = []common.Entity{}
	}
	present := make(map[string]bool, len(entities))
	for _, ent := range entities {
		present[ent.Name] = true
	}

	kept := make([]common.Relation, 0, len(relations))
	for _, rel := range relations {
		if present[rel.FromEntity] && present[rel.ToEntity] {
			kept = append(kept, rel)
		}
	}

	return common.Subgraph{Entities: entities, Relations: kept}
}
