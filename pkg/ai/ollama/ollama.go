// Package ollama provides an embedding adapter for locally hosted models.
package ollama

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"
	"golang.org/x/sync/semaphore"
)

const defaultDimensions = 1536

// EmbeddingClient produces query embeddings through an Ollama server.
type EmbeddingClient struct {
	model      string
	dimensions int
	timeoutMin int

	reqLock *semaphore.Weighted
	client  *api.Client
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

type headerTransport struct {
	headers map[string]string
	rt      http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	r := req.Clone(req.Context())
	for k, v := range t.headers {
		if r.Header.Get(k) == "" {
			r.Header.Set(k, v)
		}
	}
	return t.rt.RoundTrip(r)
}

// NewEmbeddingClient creates an embedding client connected to the Ollama
// server at BaseURL (or the default local server when empty).
func NewEmbeddingClient(params NewEmbeddingClientParams) (*EmbeddingClient, error) {
	var (
		u   *url.URL
		err error
	)
	if params.BaseURL != "" {
		u, err = url.Parse(params.BaseURL)
		if err != nil {
			return nil, err
		}
	}

	httpClient := &http.Client{
		Transport: &headerTransport{
			headers: map[string]string{
				"Authorization": "Bearer " + params.ApiKey,
			},
			rt: http.DefaultTransport,
		},
	}

	dim := params.Dimensions
	if dim <= 0 {
		dim = defaultDimensions
	}
	maxReq := params.MaxConcurrentRequests
	if maxReq <= 0 {
		maxReq = 4
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
		client:     api.NewClient(u, httpClient),
	}, nil
}

// GenerateEmbedding creates a vector embedding for the given input text,
// padded or truncated to the configured dimension.
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

	res, err := c.client.Embed(rCtx, &api.EmbedRequest{
		Model: c.model,
		Input: string(input),
	})
	if err != nil {
		return nil, err
	}

	out := make([]float32, 0, c.dimensions)
	for _, v := range res.Embeddings {
		for _, val := range v {
			if len(out) >= c.dimensions {
				break
			}
			out = append(out, float32(val))
		}
	}
	if len(out) < c.dimensions {
		padded := make([]float32, c.dimensions)
		copy(padded, out)
		out = padded
	}
	return out, nil
}
