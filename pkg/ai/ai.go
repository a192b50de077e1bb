// Package ai defines the query-embedding boundary. The engine consumes
// vectors only; these adapters produce them.
package ai

import "context"

// Embedder turns query text into a vector in the same space the indexing
// pipeline used for stored entities. Implementations must be safe for
// concurrent use.
type Embedder interface {
	// GenerateEmbedding creates a vector embedding for the given input
	// text. Empty input yields a zero vector, not an error.
	GenerateEmbedding(ctx context.Context, input []byte) ([]float32, error)
}
