package graph

import (
	"context"
	"errors"
	"fmt"

	"github.com/codelens-dev/codelens/pkg/common"
)

type pathEdge struct {
	to  string
	typ common.RelationType
}

type pathState struct {
	node  string
	nodes []string
	types []common.RelationType
}

// FindPaths discovers up to 5 directed routes from source to target, each
// at most maxDepth edges long. Both endpoints must resolve; a missing one
// is a NotFound error, while a resolvable but disconnected pair yields an
// empty result.
//
// The search is breadth first. A node is marked visited on first enqueue,
// but expansion through visited nodes is still allowed while the current
// path is shorter than maxDepth, so distinct routes through a shared
// intermediate node are found. Paths come back in discovery order, which
// approximates but does not guarantee shortest-first.
func (e *Engine) FindPaths(ctx context.Context, collection, source, target string, maxDepth int) ([]common.Path, error) {
	if _, err := e.store.ResolveEntity(ctx, collection, source); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NotFoundf("source entity %q in collection %q", source, collection)
		}
		return nil, err
	}
	if _, err := e.store.ResolveEntity(ctx, collection, target); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.NotFoundf("target entity %q in collection %q", target, collection)
		}
		return nil, err
	}

	relations, err := e.store.ListRelations(ctx, collection, "")
	if err != nil {
		return nil, err
	}

	adjacency := make(map[string][]pathEdge)
	for _, rel := range relations {
		adjacency[rel.FromEntity] = append(adjacency[rel.FromEntity], pathEdge{
			to:  rel.ToEntity,
			typ: rel.RelationType,
		})
	}

	queue := []pathState{{node: source, nodes: []string{source}, types: []common.RelationType{}}}
	visited := map[string]bool{source: true}
	paths := make([]common.Path, 0, maxPaths)

	for len(queue) > 0 && len(paths) < maxPaths {
		cur := queue[0]
		queue = queue[1:]

		length := len(cur.nodes) - 1
		if length > maxDepth {
			continue
		}

		if cur.node == target {
			paths = append(paths, common.Path{
				Nodes:     cur.nodes,
				EdgeTypes: cur.types,
				Length:    length,
			})
			continue
		}

		for _, edge := range adjacency[cur.node] {
			if !visited[edge.to] || length < maxDepth {
				nodes := make([]string, len(cur.nodes), len(cur.nodes)+1)
				copy(nodes, cur.nodes)
				types := make([]common.RelationType, len(cur.types), len(cur.types)+1)
				copy(types, cur.types)
				queue = append(queue, pathState{
					node:  edge.to,
					nodes: append(nodes, edge.to),
					types: append(types, edge.typ),
				})
				visited[edge.to] = true
			}
		}
	}

	return paths, nil
}

// PathReport wraps FindPaths results in the response shape the transport
// returns.
func (e *Engine) PathReport(ctx context.Context, collection, source, target string, maxDepth int) (common.PathReport, error) {
	paths, err := e.FindPaths(ctx, collection, source, target, maxDepth)
	if err != nil {
		return common.PathReport{}, fmt.Errorf("find paths: %w", err)
	}
	return common.PathReport{
		Source:     source,
		Target:     target,
		PathsFound: len(paths),
		Paths:      paths,
	}, nil
}
