package semantic

import (
	"context"
	"fmt"
	"math"
	"sync"
	"testing"
	"time"

	"golang.org/x/time/rate"

	"github.com/myklob/reasonrank/internal/cache"
	"github.com/myklob/reasonrank/internal/model"
)

// fakeEmbedder returns canned vectors and counts calls.
type fakeEmbedder struct {
	mu      sync.Mutex
	vectors map[string][]float64
	failFor map[string]int // text -> remaining failures before success
	calls   int
}

func (f *fakeEmbedder) Name() string { return "fake" }

func (f *fakeEmbedder) IsAvailable(ctx context.Context) bool { return true }

func (f *fakeEmbedder) Embed(ctx context.Context, text string) ([]float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if remaining, ok := f.failFor[text]; ok && remaining > 0 {
		f.failFor[text] = remaining - 1
		return nil, fmt.Errorf("transient failure for %q", text)
	}
	vec, ok := f.vectors[text]
	if !ok {
		return nil, fmt.Errorf("permanent failure for %q", text)
	}
	return vec, nil
}

func (f *fakeEmbedder) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func newTestEnricher(embedder Embedder, cacheTTLMinutes int) *Enricher {
	return &Enricher{
		cfg: model.SemanticConfig{
			Model:           "fake-model",
			CacheTTLMinutes: cacheTTLMinutes,
		},
		embedder:      embedder,
		store:         cache.NewMemoryCache(time.Hour, time.Hour),
		limiter:       rate.NewLimiter(rate.Inf, 1),
		maxConcurrent: 4,
		maxRetries:    3,
	}
}

func TestNewEnricher_NoProvider(t *testing.T) {
	enricher, err := NewEnricher(model.SemanticConfig{Provider: ""}, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if enricher != nil {
		t.Fatal("Expected nil enricher when no provider is configured")
	}
}

func TestNewEnricher_LocalProvider(t *testing.T) {
	enricher, err := NewEnricher(model.SemanticConfig{Provider: "local"}, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if enricher == nil {
		t.Fatal("Expected enricher for local provider")
	}
	if enricher.Provider() != "local" {
		t.Errorf("Expected provider local, got %s", enricher.Provider())
	}
	if !enricher.Ready(context.Background()) {
		t.Error("Expected local provider to always be ready")
	}
}

func TestNewEnricher_UnknownProvider(t *testing.T) {
	_, err := NewEnricher(model.SemanticConfig{Provider: "mystery"}, nil)
	if err == nil {
		t.Fatal("Expected error for unknown provider, got nil")
	}
}

func TestEnricher_Lookup_LocalSimilarity(t *testing.T) {
	enricher, err := NewEnricher(model.SemanticConfig{Provider: "local"}, nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	args := []model.Argument{
		{ID: "a1", Claim: "carbon tax lowers emissions"},
		{ID: "a2", Claim: "carbon tax lowers emissions"},
		{ID: "a3", Claim: "cats are mammals"},
	}

	lookup, err := enricher.Lookup(context.Background(), args)
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}

	sim, ok := lookup("a1", "a2")
	if !ok {
		t.Fatal("Expected similarity for known pair")
	}
	if math.Abs(sim-1.0) > 1e-9 {
		t.Errorf("Expected 1.0 for identical claims, got %f", sim)
	}

	cross, ok := lookup("a1", "a3")
	if !ok {
		t.Fatal("Expected similarity for known pair")
	}
	if cross >= sim {
		t.Errorf("Expected unrelated claims to score below identical ones: %f", cross)
	}

	if _, ok := lookup("a1", "missing"); ok {
		t.Error("Expected miss for unknown argument id")
	}
}

func TestEnricher_Lookup_EmbeddingVectors(t *testing.T) {
	fake := &fakeEmbedder{
		vectors: map[string][]float64{
			"claim one": {1, 0},
			"claim two": {1, 0},
			"claim odd": {0, 1},
		},
	}
	enricher := newTestEnricher(fake, 0)

	args := []model.Argument{
		{ID: "a1", Claim: "claim one"},
		{ID: "a2", Claim: "claim two"},
		{ID: "a3", Claim: "claim odd"},
	}

	lookup, err := enricher.Lookup(context.Background(), args)
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}

	sim, ok := lookup("a1", "a2")
	if !ok {
		t.Fatal("Expected similarity for embedded pair")
	}
	if math.Abs(sim-1.0) > 1e-9 {
		t.Errorf("Expected cosine 1.0 for parallel vectors, got %f", sim)
	}

	orth, ok := lookup("a1", "a3")
	if !ok {
		t.Fatal("Expected similarity for embedded pair")
	}
	if math.Abs(orth) > 1e-9 {
		t.Errorf("Expected cosine 0.0 for orthogonal vectors, got %f", orth)
	}
}

func TestEnricher_Lookup_NegativeCosineClamped(t *testing.T) {
	fake := &fakeEmbedder{
		vectors: map[string][]float64{
			"claim one": {1, 0},
			"claim two": {-1, 0},
		},
	}
	enricher := newTestEnricher(fake, 0)

	lookup, err := enricher.Lookup(context.Background(), []model.Argument{
		{ID: "a1", Claim: "claim one"},
		{ID: "a2", Claim: "claim two"},
	})
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}

	sim, ok := lookup("a1", "a2")
	if !ok {
		t.Fatal("Expected similarity for embedded pair")
	}
	if sim != 0.0 {
		t.Errorf("Expected negative cosine clamped to 0, got %f", sim)
	}
}

func TestEnricher_Lookup_PartialFailure(t *testing.T) {
	fake := &fakeEmbedder{
		vectors: map[string][]float64{
			"claim one": {1, 0},
			"claim two": {1, 0},
			// "broken claim" has no vector: every attempt fails
		},
	}
	enricher := newTestEnricher(fake, 0)

	oldSleep := enrichSleepFunc
	enrichSleepFunc = func(time.Duration) {}
	defer func() { enrichSleepFunc = oldSleep }()

	lookup, err := enricher.Lookup(context.Background(), []model.Argument{
		{ID: "a1", Claim: "claim one"},
		{ID: "a2", Claim: "claim two"},
		{ID: "a3", Claim: "broken claim"},
	})
	if err != nil {
		t.Fatalf("Expected partial failure to degrade, not error: %v", err)
	}

	if _, ok := lookup("a1", "a2"); !ok {
		t.Error("Expected surviving pair to report similarity")
	}
	if _, ok := lookup("a1", "a3"); ok {
		t.Error("Expected failed argument to report a miss")
	}
}

func TestEnricher_Lookup_AllFailed(t *testing.T) {
	fake := &fakeEmbedder{vectors: map[string][]float64{}}
	enricher := newTestEnricher(fake, 0)

	oldSleep := enrichSleepFunc
	enrichSleepFunc = func(time.Duration) {}
	defer func() { enrichSleepFunc = oldSleep }()

	_, err := enricher.Lookup(context.Background(), []model.Argument{
		{ID: "a1", Claim: "claim one"},
		{ID: "a2", Claim: "claim two"},
	})
	if err == nil {
		t.Fatal("Expected error when every embedding request fails")
	}
}

func TestEnricher_Lookup_EmptyArguments(t *testing.T) {
	fake := &fakeEmbedder{vectors: map[string][]float64{}}
	enricher := newTestEnricher(fake, 0)

	lookup, err := enricher.Lookup(context.Background(), nil)
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if _, ok := lookup("a", "b"); ok {
		t.Error("Expected empty lookup to always miss")
	}
	if fake.callCount() != 0 {
		t.Errorf("Expected no embedding calls, got %d", fake.callCount())
	}
}

func TestEnricher_Retry_TransientFailure(t *testing.T) {
	fake := &fakeEmbedder{
		vectors: map[string][]float64{"claim one": {1, 0}},
		failFor: map[string]int{"claim one": 2}, // fail twice, succeed third
	}
	enricher := newTestEnricher(fake, 0)

	var backoffs []time.Duration
	oldSleep := enrichSleepFunc
	enrichSleepFunc = func(d time.Duration) { backoffs = append(backoffs, d) }
	defer func() { enrichSleepFunc = oldSleep }()

	vec, err := enricher.embed(context.Background(), "claim one")
	if err != nil {
		t.Fatalf("Expected retry to recover: %v", err)
	}
	if len(vec) != 2 {
		t.Errorf("Unexpected vector: %v", vec)
	}
	if fake.callCount() != 3 {
		t.Errorf("Expected 3 attempts, got %d", fake.callCount())
	}

	// Exponential backoff: 1s, 2s
	if len(backoffs) != 2 {
		t.Fatalf("Expected 2 backoff sleeps, got %d", len(backoffs))
	}
	if backoffs[0] != 1*time.Second || backoffs[1] != 2*time.Second {
		t.Errorf("Expected backoffs [1s 2s], got %v", backoffs)
	}
}

func TestEnricher_Retry_Exhausted(t *testing.T) {
	fake := &fakeEmbedder{
		vectors: map[string][]float64{"claim one": {1, 0}},
		failFor: map[string]int{"claim one": 10},
	}
	enricher := newTestEnricher(fake, 0)

	oldSleep := enrichSleepFunc
	enrichSleepFunc = func(time.Duration) {}
	defer func() { enrichSleepFunc = oldSleep }()

	_, err := enricher.embed(context.Background(), "claim one")
	if err == nil {
		t.Fatal("Expected error after retries exhausted")
	}
	if fake.callCount() != 3 {
		t.Errorf("Expected exactly maxRetries attempts, got %d", fake.callCount())
	}
}

func TestEnricher_CacheHit(t *testing.T) {
	fake := &fakeEmbedder{
		vectors: map[string][]float64{"claim one": {1, 0}},
	}
	enricher := newTestEnricher(fake, 60)

	first, err := enricher.embed(context.Background(), "claim one")
	if err != nil {
		t.Fatalf("First embed failed: %v", err)
	}
	second, err := enricher.embed(context.Background(), "claim one")
	if err != nil {
		t.Fatalf("Second embed failed: %v", err)
	}

	if fake.callCount() != 1 {
		t.Errorf("Expected cache to absorb the second call, got %d calls", fake.callCount())
	}
	if len(first) != len(second) || first[0] != second[0] {
		t.Errorf("Cached vector differs: %v vs %v", first, second)
	}
}

func TestEnricher_DiskCacheWarmStart(t *testing.T) {
	dir := t.TempDir()

	oldSleep := enrichSleepFunc
	enrichSleepFunc = func(time.Duration) {}
	defer func() { enrichSleepFunc = oldSleep }()

	first := &fakeEmbedder{
		vectors: map[string][]float64{"claim one": {1, 0}},
	}
	enricher := newTestEnricher(first, 60)
	enricher.store = cache.NewLayeredCache(time.Hour, dir, 24*time.Hour)

	if _, err := enricher.embed(context.Background(), "claim one"); err != nil {
		t.Fatalf("First embed failed: %v", err)
	}
	if first.callCount() != 1 {
		t.Fatalf("Expected one embedding call, got %d", first.callCount())
	}

	// A fresh enricher with a cold memory layer but the same disk dir is
	// the next CLI invocation.
	second := &fakeEmbedder{vectors: map[string][]float64{}}
	rerun := newTestEnricher(second, 60)
	rerun.store = cache.NewLayeredCache(time.Hour, dir, 24*time.Hour)

	vec, err := rerun.embed(context.Background(), "claim one")
	if err != nil {
		t.Fatalf("Rerun embed failed: %v", err)
	}
	if len(vec) != 2 || vec[0] != 1 {
		t.Errorf("Unexpected cached vector: %v", vec)
	}
	if second.callCount() != 0 {
		t.Errorf("Expected disk cache to absorb the call, got %d calls", second.callCount())
	}
}

func TestEnricher_CacheDisabled(t *testing.T) {
	fake := &fakeEmbedder{
		vectors: map[string][]float64{"claim one": {1, 0}},
	}
	enricher := newTestEnricher(fake, 0)

	if _, err := enricher.embed(context.Background(), "claim one"); err != nil {
		t.Fatalf("First embed failed: %v", err)
	}
	if _, err := enricher.embed(context.Background(), "claim one"); err != nil {
		t.Fatalf("Second embed failed: %v", err)
	}

	if fake.callCount() != 2 {
		t.Errorf("Expected no caching with TTL 0, got %d calls", fake.callCount())
	}
}
