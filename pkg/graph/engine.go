// Package graph implements the traversal and analysis engine over the
// entity/relation records of the external store: bounded subgraph
// extraction, connected-component clustering, multi-path discovery, and
// ranked hybrid search.
//
// The engine is stateless across calls; every operation fetches what it
// needs from the store, computes in memory, and returns a self-contained
// result. All loops are bounded by explicit node, result, or path caps, so
// cyclic graphs cannot cause unbounded work. Store failures propagate to
// the caller unretried.
package graph

import (
	"github.com/codelens-dev/codelens/pkg/store"
)

const (
	// clusterFetchCap bounds the entity set cluster analysis works on.
	clusterFetchCap = 500
	// maxClusters caps how many components a cluster report returns.
	maxClusters = 10
	// clusterSampleNodes caps the member names reported per cluster.
	clusterSampleNodes = 20
	// clusterSampleFiles caps the distinct file paths reported per cluster.
	clusterSampleFiles = 10
	// maxPaths caps how many routes path discovery records.
	maxPaths = 5
	// highlightLen truncates highlight snippets.
	highlightLen = 200
)

// Engine runs graph traversal and search operations against a GraphStore.
// It is safe for concurrent use.
type Engine struct {
	store store.GraphStore
}

// NewEngine creates an engine over the given store.
func NewEngine(s store.GraphStore) *Engine {
	return &Engine{store: s}
}
