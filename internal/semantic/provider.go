// Package semantic supplies the optional similarity layer of the
// duplication pipeline: claim texts are embedded by an external model and
// compared by cosine similarity, catching restatements that token overlap
// misses. Everything here is best-effort — when no provider is configured
// or a provider is unreachable, duplicate detection falls back to the
// mechanical layer alone.
package semantic

import (
	"context"
	"fmt"
	"math"
	"os"
	"strings"

	"github.com/myklob/reasonrank/internal/model"
)

// Embedder defines the interface for embedding providers.
type Embedder interface {
	// Name returns the provider name.
	Name() string

	// Embed returns the embedding vector for one claim text.
	Embed(ctx context.Context, text string) ([]float64, error)

	// IsAvailable checks if the provider is properly configured and reachable.
	IsAvailable(ctx context.Context) bool
}

// ProviderLocal is the no-network provider: character-trigram overlap
// instead of model embeddings. It keeps the CLI usable without API keys.
const ProviderLocal = "local"

// Config holds embedding provider configuration.
type Config struct {
	// Provider name: "openai", "ollama", "local", ""
	Provider string

	// Model name (provider-specific embedding model)
	Model string

	// APIKey for OpenAI
	APIKey string

	// BaseURL for custom endpoints (e.g. Ollama)
	BaseURL string

	// Timeout for API requests, in seconds
	Timeout int
}

// NewEmbedder creates an embedding provider based on configuration. The
// local provider and the empty provider return nil: neither needs a model
// behind it.
func NewEmbedder(config Config) (Embedder, error) {
	switch strings.ToLower(config.Provider) {
	case "openai":
		return NewOpenAIEmbedder(config)

	case "ollama":
		return NewOllamaEmbedder(config)

	case ProviderLocal, "":
		return nil, nil

	default:
		return nil, fmt.Errorf("unknown semantic provider: %s (supported: openai, ollama, local)", config.Provider)
	}
}

// ConfigFromModel converts model.SemanticConfig to semantic.Config. The
// OpenAI key comes from the environment, never from the config file.
func ConfigFromModel(mc model.SemanticConfig) Config {
	return Config{
		Provider: mc.Provider,
		Model:    mc.Model,
		APIKey:   os.Getenv("OPENAI_API_KEY"),
		BaseURL:  mc.BaseURL,
		Timeout:  mc.TimeoutSeconds,
	}
}

// Cosine returns the cosine similarity of two vectors. Mismatched lengths
// or zero vectors yield 0.
func Cosine(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
