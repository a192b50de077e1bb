// Package local provides a deterministic, dependency-free embedder used for
// tests and for deployments without an embedding provider.
package local

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"math"
)

const defaultDimensions = 1536

// Embedder maps input bytes to a fixed-dimension unit vector. The same input
// always yields the same vector, so similarity search stays reproducible
// across runs.
type Embedder struct {
	dimensions int
}

// NewEmbedder creates a deterministic embedder with the given output
// dimension. Non-positive dimensions fall back to the default.
func NewEmbedder(dimensions int) *Embedder {
	if dimensions <= 0 {
		dimensions = defaultDimensions
	}
	return &Embedder{dimensions: dimensions}
}

// GenerateEmbedding hashes the input and expands the digest into an
// L2-normalized vector of the configured dimension.
func (e *Embedder) GenerateEmbedding(_ context.Context, input []byte) ([]float32, error) {
	out := make([]float32, e.dimensions)
	if len(input) == 0 {
		return out, nil
	}

	seed := sha256.Sum256(input)

	// Expand the digest block by block. Each block is the seed hashed again
	// with a little-endian counter, and every 4-byte word becomes one
	// component in [-1, 1].
	var counter uint32
	i := 0
	for i < e.dimensions {
		var buf [sha256.Size + 4]byte
		copy(buf[:], seed[:])
		binary.LittleEndian.PutUint32(buf[sha256.Size:], counter)
		block := sha256.Sum256(buf[:])
		counter++

		for w := 0; w+4 <= len(block) && i < e.dimensions; w += 4 {
			v := binary.LittleEndian.Uint32(block[w : w+4])
			out[i] = float32(v)/float32(math.MaxUint32)*2 - 1
			i++
		}
	}

	var sum float64
	for _, v := range out {
		sum += float64(v) * float64(v)
	}
	if sum > 0 {
		norm := float32(math.Sqrt(sum))
		for i := range out {
			out[i] /= norm
		}
	}
	return out, nil
}
