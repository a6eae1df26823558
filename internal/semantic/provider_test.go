package semantic

import (
	"math"
	"strings"
	"testing"

	"github.com/myklob/reasonrank/internal/model"
)

func TestNewEmbedder_OpenAI(t *testing.T) {
	embedder, err := NewEmbedder(Config{
		Provider: "openai",
		APIKey:   "test-key",
	})
	if err != nil {
		t.Fatalf("Failed to create OpenAI embedder: %v", err)
	}
	if embedder.Name() != "openai" {
		t.Errorf("Expected name openai, got %s", embedder.Name())
	}
}

func TestNewEmbedder_OpenAI_NoKey(t *testing.T) {
	_, err := NewEmbedder(Config{
		Provider: "openai",
		APIKey:   "",
	})
	if err == nil {
		t.Fatal("Expected error for missing API key, got nil")
	}
}

func TestNewEmbedder_Ollama(t *testing.T) {
	embedder, err := NewEmbedder(Config{
		Provider: "ollama",
		Model:    "nomic-embed-text",
	})
	if err != nil {
		t.Fatalf("Failed to create Ollama embedder: %v", err)
	}
	if embedder.Name() != "ollama" {
		t.Errorf("Expected name ollama, got %s", embedder.Name())
	}
}

func TestNewEmbedder_LocalAndEmpty(t *testing.T) {
	for _, provider := range []string{"local", ""} {
		embedder, err := NewEmbedder(Config{Provider: provider})
		if err != nil {
			t.Fatalf("Provider %q: unexpected error: %v", provider, err)
		}
		if embedder != nil {
			t.Errorf("Provider %q: expected nil embedder", provider)
		}
	}
}

func TestNewEmbedder_CaseInsensitive(t *testing.T) {
	embedder, err := NewEmbedder(Config{
		Provider: "OpenAI",
		APIKey:   "test-key",
	})
	if err != nil {
		t.Fatalf("Expected case-insensitive provider match: %v", err)
	}
	if embedder == nil {
		t.Fatal("Expected embedder, got nil")
	}
}

func TestNewEmbedder_Unknown(t *testing.T) {
	_, err := NewEmbedder(Config{Provider: "anthropic"})
	if err == nil {
		t.Fatal("Expected error for unknown provider, got nil")
	}
	if !strings.Contains(err.Error(), "unknown semantic provider") {
		t.Errorf("Unexpected error message: %v", err)
	}
	if !strings.Contains(err.Error(), "supported:") {
		t.Errorf("Expected supported provider list in error, got %v", err)
	}
}

func TestConfigFromModel(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "env-key")

	cfg := ConfigFromModel(model.SemanticConfig{
		Provider:       "ollama",
		Model:          "nomic-embed-text",
		BaseURL:        "http://remote:11434",
		TimeoutSeconds: 42,
	})

	if cfg.Provider != "ollama" {
		t.Errorf("Provider not carried over: %s", cfg.Provider)
	}
	if cfg.Model != "nomic-embed-text" {
		t.Errorf("Model not carried over: %s", cfg.Model)
	}
	if cfg.BaseURL != "http://remote:11434" {
		t.Errorf("BaseURL not carried over: %s", cfg.BaseURL)
	}
	if cfg.Timeout != 42 {
		t.Errorf("Timeout not carried over: %d", cfg.Timeout)
	}
	if cfg.APIKey != "env-key" {
		t.Errorf("Expected API key from environment, got %q", cfg.APIKey)
	}
}

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a, b []float64
		want float64
	}{
		{"identical", []float64{1, 2, 3}, []float64{1, 2, 3}, 1.0},
		{"opposite", []float64{1, 0}, []float64{-1, 0}, -1.0},
		{"orthogonal", []float64{1, 0}, []float64{0, 1}, 0.0},
		{"scaled", []float64{1, 1}, []float64{3, 3}, 1.0},
		{"mismatched lengths", []float64{1, 2}, []float64{1, 2, 3}, 0.0},
		{"empty", []float64{}, []float64{}, 0.0},
		{"zero vector", []float64{0, 0}, []float64{1, 2}, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Cosine(tt.a, tt.b)
			if math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Cosine(%v, %v) = %f, want %f", tt.a, tt.b, got, tt.want)
			}
		})
	}
}
