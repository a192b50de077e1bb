// Package openai provides an OpenAI-compatible embedding adapter.
package openai

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"golang.org/x/sync/semaphore"
)

const defaultDimensions = 1536

// EmbeddingClient produces query embeddings through an OpenAI-compatible
// embeddings endpoint.
type EmbeddingClient struct {
	model      string
	dimensions int
	timeoutMin int

	reqLock *semaphore.Weighted
	client  *openai.Client
}

// NewEmbeddingClientParams contains configuration for creating an
// EmbeddingClient.
type NewEmbeddingClientParams struct {
	Model      string
	Dimensions int

	BaseURL string
	ApiKey  string

	MaxConcurrentRequests int64
	TimeoutMin            int
}

// NewEmbeddingClient creates an embedding client for the configured
// endpoint. The API key is required; BaseURL is optional and defaults to
// the public OpenAI endpoint.
func NewEmbeddingClient(params NewEmbeddingClientParams) (*EmbeddingClient, error) {
	if params.ApiKey == "" {
		return nil, fmt.Errorf("openai embedding client requires an API key")
	}

	options := []option.RequestOption{
		option.WithAPIKey(params.ApiKey),
	}
	if params.BaseURL != "" {
		options = append(options, option.WithBaseURL(params.BaseURL))
	}
	client := openai.NewClient(options...)

	dim := params.Dimensions
	if dim <= 0 {
		dim = defaultDimensions
	}
	maxReq := params.MaxConcurrentRequests
	if maxReq <= 0 {
		maxReq = 8
	}
	timeoutMin := params.TimeoutMin
	if timeoutMin <= 0 {
		timeoutMin = 1
	}

	return &EmbeddingClient{
		model:      params.Model,
		dimensions: dim,
		timeoutMin: timeoutMin,
		reqLock:    semaphore.NewWeighted(maxReq),
		client:     &client,
	}, nil
}

// GenerateEmbedding creates a vector embedding for the given input text.
// The result is padded or truncated to the configured dimension so the
// store always sees fixed-size vectors.
func (c *EmbeddingClient) GenerateEmbedding(ctx context.Context, input []byte) ([]float32, error) {
	if len(input) == 0 || len(strings.TrimSpace(string(input))) == 0 {
		return make([]float32, c.dimensions), nil
	}

	rCtx, cancel := context.WithTimeout(ctx, time.Minute*time.Duration(c.timeoutMin))
	defer cancel()

	if err := c.reqLock.Acquire(rCtx, 1); err != nil {
		return nil, err
	}
	defer c.reqLock.Release(1)

	response, err := c.client.Embeddings.New(rCtx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: []string{string(input)}},
		Model: openai.EmbeddingModel(c.model),
	})
	if err != nil {
		return nil, err
	}
	if len(response.Data) != 1 {
		return nil, fmt.Errorf("embedding response size mismatch: got %d want 1", len(response.Data))
	}

	out := make([]float32, 0, c.dimensions)
	for _, v := range response.Data[0].Embedding {
		if len(out) >= c.dimensions {
			break
		}
		out = append(out, float32(v))
	}
	if len(out) < c.dimensions {
		padded := make([]float32, c.dimensions)
		copy(padded, out)
		out = padded
	}
	return out, nil
}
