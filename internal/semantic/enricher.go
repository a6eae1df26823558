package semantic

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/myklob/reasonrank/internal/cache"
	"github.com/myklob/reasonrank/internal/dedup"
	"github.com/myklob/reasonrank/internal/model"
)

const enrichMaxRetries = 3

// enrichSleepFunc is the sleep function used between retries (injectable for tests)
var enrichSleepFunc = time.Sleep

// Enricher embeds argument claims and builds the pairwise similarity
// lookup consumed by the duplication scorer. Requests are rate-limited,
// concurrency-bounded and cached; individual embedding failures degrade
// the lookup rather than fail the scoring run.
type Enricher struct {
	cfg           model.SemanticConfig
	embedder      Embedder
	store         cache.Cache
	limiter       *rate.Limiter
	maxConcurrent int
	maxRetries    int
}

// NewEnricher builds an enricher for the configured provider. It returns
// (nil, nil) when no provider is configured: scoring then runs on the
// mechanical similarity layer only.
func NewEnricher(cfg model.SemanticConfig, store cache.Cache) (*Enricher, error) {
	embedder, err := NewEmbedder(ConfigFromModel(cfg))
	if err != nil {
		return nil, err
	}
	if embedder == nil && cfg.Provider != ProviderLocal {
		return nil, nil
	}

	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 4
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = 4
	}
	maxConcurrent := cfg.MaxConcurrent
	if maxConcurrent <= 0 {
		maxConcurrent = 4
	}
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = enrichMaxRetries
	}

	if store == nil {
		ttl := time.Duration(cfg.CacheTTLMinutes) * time.Minute
		if ttl <= 0 {
			ttl = time.Hour
		}
		if cfg.CacheDir != "" {
			// Disk layer keeps embeddings warm across batch runs.
			store = cache.NewLayeredCache(ttl, cfg.CacheDir, 24*ttl)
		} else {
			store = cache.NewMemoryCache(ttl, 10*time.Minute)
		}
	}

	return &Enricher{
		cfg:           cfg,
		embedder:      embedder,
		store:         store,
		limiter:       rate.NewLimiter(rate.Limit(rps), burst),
		maxConcurrent: maxConcurrent,
		maxRetries:    maxRetries,
	}, nil
}

// Provider returns the active provider name.
func (e *Enricher) Provider() string {
	if e.embedder == nil {
		return ProviderLocal
	}
	return e.embedder.Name()
}

// Ready reports whether the provider can serve requests. The local
// provider is always ready.
func (e *Enricher) Ready(ctx context.Context) bool {
	if e.embedder == nil {
		return true
	}
	return e.embedder.IsAvailable(ctx)
}

// Lookup embeds the claims of the given arguments and returns a pairwise
// similarity function keyed by argument id. Arguments whose embedding
// failed are simply absent: the lookup reports no value and the
// duplication blend renormalizes without the semantic layer for those
// pairs. Only a total failure, every request failed, is an error.
func (e *Enricher) Lookup(ctx context.Context, args []model.Argument) (dedup.Lookup, error) {
	texts := make(map[string]string, len(args))
	for _, arg := range args {
		if arg.ID == "" || arg.Claim == "" {
			continue
		}
		texts[arg.ID] = arg.Claim
	}
	if len(texts) == 0 {
		return func(string, string) (float64, bool) { return 0, false }, nil
	}

	// Local provider compares texts directly, no vectors involved.
	if e.embedder == nil {
		return func(idA, idB string) (float64, bool) {
			ta, okA := texts[idA]
			tb, okB := texts[idB]
			if !okA || !okB {
				return 0, false
			}
			return TrigramSimilarity(ta, tb), true
		}, nil
	}

	vectors := e.embedAll(ctx, texts)
	if len(vectors) == 0 {
		return nil, fmt.Errorf("all %d embedding requests to %s failed", len(texts), e.embedder.Name())
	}

	return func(idA, idB string) (float64, bool) {
		va, okA := vectors[idA]
		vb, okB := vectors[idB]
		if !okA || !okB {
			return 0, false
		}
		sim := Cosine(va, vb)
		if sim < 0 {
			sim = 0 // anti-correlated claims are merely not duplicates
		}
		return sim, true
	}, nil
}

// embedAll fetches embeddings for every text concurrently, bounded by the
// semaphore and the rate limiter. Failed ids are omitted from the result.
func (e *Enricher) embedAll(ctx context.Context, texts map[string]string) map[string][]float64 {
	vectors := make(map[string][]float64, len(texts))
	var mu sync.Mutex
	var wg sync.WaitGroup

	// Create semaphore to limit concurrent requests
	semaphore := make(chan struct{}, e.maxConcurrent)

	for id, text := range texts {
		wg.Add(1)
		go func(id, text string) {
			defer wg.Done()

			// Acquire semaphore
			select {
			case <-ctx.Done():
				return
			case semaphore <- struct{}{}:
			}
			defer func() { <-semaphore }()

			vec, err := e.embed(ctx, text)
			if err != nil {
				fmt.Fprintf(os.Stderr, "Warning: embedding failed for argument %s: %v\n", id, err)
				return
			}

			mu.Lock()
			vectors[id] = vec
			mu.Unlock()
		}(id, text)
	}

	wg.Wait()
	return vectors
}

// embed returns the vector for one text, consulting the cache first and
// retrying transient failures with exponential backoff.
func (e *Enricher) embed(ctx context.Context, text string) ([]float64, error) {
	key := cache.CacheKey(fmt.Sprintf("%s:%s:%s", e.embedder.Name(), e.cfg.Model, text))
	ttl := time.Duration(e.cfg.CacheTTLMinutes) * time.Minute

	if ttl > 0 {
		if data, ok := e.store.Get(key); ok {
			var vec []float64
			if err := json.Unmarshal(data, &vec); err == nil {
				return vec, nil
			}
			// Corrupt entry: drop it and re-embed.
			_ = e.store.Delete(key)
		}
	}

	var vec []float64
	var err error
	for attempt := 0; attempt < e.maxRetries; attempt++ {
		if waitErr := e.limiter.Wait(ctx); waitErr != nil {
			return nil, fmt.Errorf("rate limit wait: %w", waitErr)
		}

		vec, err = e.embedder.Embed(ctx, text)
		if err == nil {
			break
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		if attempt < e.maxRetries-1 {
			backoff := time.Duration(1<<uint(attempt)) * time.Second
			enrichSleepFunc(backoff)
		}
	}
	if err != nil {
		return nil, err
	}

	if ttl > 0 {
		if data, marshalErr := json.Marshal(vec); marshalErr == nil {
			_ = e.store.Set(key, data, ttl)
		}
	}
	return vec, nil
}
