package ai

import (
	"github.com/codelens-dev/codelens/internal/util"
	"github.com/codelens-dev/codelens/pkg/ai/local"
	"github.com/codelens-dev/codelens/pkg/ai/ollama"
	"github.com/codelens-dev/codelens/pkg/ai/openai"
)

// NewEmbedderFromEnv builds the embedding adapter selected by AI_ADAPTER:
// "openai", "ollama", or the deterministic local embedder by default. The
// local default keeps the service usable without any provider credentials.
func NewEmbedderFromEnv() (Embedder, error) {
	adapter := util.GetEnv("AI_ADAPTER")
	dimensions := int(util.GetEnvNumeric("AI_EMBED_DIM", 1536))

	switch adapter {
	case "openai":
		return openai.NewEmbeddingClient(openai.NewEmbeddingClientParams{
			Model:      util.GetEnv("AI_EMBED_MODEL"),
			Dimensions: dimensions,

			BaseURL: util.GetEnv("AI_EMBED_URL"),
			ApiKey:  util.GetEnv("AI_EMBED_KEY"),

			MaxConcurrentRequests: int64(util.GetEnvNumeric("AI_PARALLEL_REQ", 8)),
		})
	case "ollama":
		return ollama.NewEmbeddingClient(ollama.NewEmbeddingClientParams{
			Model:      util.GetEnv("AI_EMBED_MODEL"),
			Dimensions: dimensions,

			BaseURL: util.GetEnv("AI_EMBED_URL"),
			ApiKey:  util.GetEnv("AI_EMBED_KEY"),

			MaxConcurrentRequests: int64(util.GetEnvNumeric("AI_PARALLEL_REQ", 8)),
		})
	default:
		return local.NewEmbedder(dimensions), nil
	}
}
