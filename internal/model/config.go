package model

// Config carries every tunable constant in the scoring engine. Fields are
// grouped by the stage that reads them so a config file can override any
// stage in isolation.
type Config struct {
	Scoring       ScoringConfig       `yaml:"scoring" mapstructure:"scoring"`
	Confidence    ConfidenceConfig    `yaml:"confidence" mapstructure:"confidence"`
	Stability     StabilityConfig     `yaml:"stability" mapstructure:"stability"`
	Strength      StrengthConfig      `yaml:"strength" mapstructure:"strength"`
	Duplication   DuplicationConfig   `yaml:"duplication" mapstructure:"duplication"`
	Novelty       NoveltyConfig       `yaml:"novelty" mapstructure:"novelty"`
	Corroboration CorroborationConfig `yaml:"corroboration" mapstructure:"corroboration"`
	Overlap       OverlapConfig       `yaml:"overlap" mapstructure:"overlap"`
	Market        MarketConfig        `yaml:"market" mapstructure:"market"`
	Semantic      SemanticConfig      `yaml:"semantic" mapstructure:"semantic"`
	Concurrency   ConcurrencyConfig   `yaml:"concurrency" mapstructure:"concurrency"`
	Output        OutputConfig        `yaml:"output" mapstructure:"output"`
}

// ScoringConfig tunes the recursive argument scorer and belief aggregation.
type ScoringConfig struct {
	Damping           float64 `yaml:"damping" mapstructure:"damping"`                       // weight of child consensus vs own truth
	EvidenceCap       float64 `yaml:"evidence_cap" mapstructure:"evidence_cap"`             // max shift from belief-level evidence
	ClampMin          float64 `yaml:"clamp_min" mapstructure:"clamp_min"`                   // truth score floor
	ClampMax          float64 `yaml:"clamp_max" mapstructure:"clamp_max"`                   // truth score ceiling
	DebunkedThreshold float64 `yaml:"debunked_threshold" mapstructure:"debunked_threshold"` // leaderboard debunked flag
}

// ConfidenceConfig tunes the confidence interval attached to a truth score.
type ConfidenceConfig struct {
	BaseInterval    float64 `yaml:"base_interval" mapstructure:"base_interval"`       // starting half-width
	ArgumentShrink  float64 `yaml:"argument_shrink" mapstructure:"argument_shrink"`   // shrink per argument
	MinShrink       float64 `yaml:"min_shrink" mapstructure:"min_shrink"`             // shrink factor floor
	BalanceShrink   float64 `yaml:"balance_shrink" mapstructure:"balance_shrink"`     // extra shrink for lopsided debates
	MinInterval     float64 `yaml:"min_interval" mapstructure:"min_interval"`         // half-width floor
	MaxInterval     float64 `yaml:"max_interval" mapstructure:"max_interval"`         // half-width ceiling
	CalibratedArgs  int     `yaml:"calibrated_args" mapstructure:"calibrated_args"`   // args needed for calibrated status
	CalibratedWidth float64 `yaml:"calibrated_width" mapstructure:"calibrated_width"` // interval needed for calibrated status
	ContestedArgs   int     `yaml:"contested_args" mapstructure:"contested_args"`     // args needed for contested status
}

// StabilityConfig tunes the confidence stability calculator.
type StabilityConfig struct {
	SaturationCount      int     `yaml:"saturation_count" mapstructure:"saturation_count"` // args at which volume maxes out
	Floor                float64 `yaml:"floor" mapstructure:"floor"`                       // base weight before dominance
	DominanceWeight      float64 `yaml:"dominance_weight" mapstructure:"dominance_weight"`
	RobustThreshold      float64 `yaml:"robust_threshold" mapstructure:"robust_threshold"`
	EstablishedThreshold float64 `yaml:"established_threshold" mapstructure:"established_threshold"`
	DevelopingThreshold  float64 `yaml:"developing_threshold" mapstructure:"developing_threshold"`
}

// StrengthConfig tunes claim-strength filtering.
type StrengthConfig struct {
	MaxPenalty float64 `yaml:"max_penalty" mapstructure:"max_penalty"` // penalty at claim strength 1.0
	LinkageGap float64 `yaml:"linkage_gap" mapstructure:"linkage_gap"` // strength gap at which linkage dies
}

// DuplicationConfig tunes the layered similarity blend.
type DuplicationConfig struct {
	MechanicalWeight    float64 `yaml:"mechanical_weight" mapstructure:"mechanical_weight"`
	SemanticWeight      float64 `yaml:"semantic_weight" mapstructure:"semantic_weight"`
	CommunityWeight     float64 `yaml:"community_weight" mapstructure:"community_weight"`
	MechanicalThreshold float64 `yaml:"mechanical_threshold" mapstructure:"mechanical_threshold"` // force duplicate above this
	ClusterThreshold    float64 `yaml:"cluster_threshold" mapstructure:"cluster_threshold"`       // pairwise similarity to cluster
}

// NoveltyConfig tunes the first-mover timing bonus.
type NoveltyConfig struct {
	PeakMultiplier      float64 `yaml:"peak_multiplier" mapstructure:"peak_multiplier"` // bonus at submission time
	HalflifeHours       float64 `yaml:"halflife_hours" mapstructure:"halflife_hours"`
	Floor               float64 `yaml:"floor" mapstructure:"floor"`                             // multiplier after full decay
	UniquenessThreshold float64 `yaml:"uniqueness_threshold" mapstructure:"uniqueness_threshold"` // no bonus below this
}

// CorroborationConfig tunes the multi-source truth boost.
type CorroborationConfig struct {
	MaxBoost       float64 `yaml:"max_boost" mapstructure:"max_boost"`
	SaturationRate float64 `yaml:"saturation_rate" mapstructure:"saturation_rate"` // how fast the boost saturates
}

// OverlapConfig tunes topic overlap scoring and topic rank placement.
type OverlapConfig struct {
	SemanticWeight     float64 `yaml:"semantic_weight" mapstructure:"semantic_weight"`
	TaxonomyWeight     float64 `yaml:"taxonomy_weight" mapstructure:"taxonomy_weight"`
	CitationWeight     float64 `yaml:"citation_weight" mapstructure:"citation_weight"`
	NavigationWeight   float64 `yaml:"navigation_weight" mapstructure:"navigation_weight"`
	GraphWeight        float64 `yaml:"graph_weight" mapstructure:"graph_weight"`
	RankOverlapWeight  float64 `yaml:"rank_overlap_weight" mapstructure:"rank_overlap_weight"`
	RankTruthWeight    float64 `yaml:"rank_truth_weight" mapstructure:"rank_truth_weight"`
	RankDisputeWeight  float64 `yaml:"rank_dispute_weight" mapstructure:"rank_dispute_weight"`
	RankRecencyWeight  float64 `yaml:"rank_recency_weight" mapstructure:"rank_recency_weight"`
	RecencyDecayDays   float64 `yaml:"recency_decay_days" mapstructure:"recency_decay_days"`
}

// MarketConfig tunes the prediction market maker.
type MarketConfig struct {
	Liquidity       float64 `yaml:"liquidity" mapstructure:"liquidity"`               // LMSR b parameter
	StartingBalance float64 `yaml:"starting_balance" mapstructure:"starting_balance"` // new account funds
}

// SemanticConfig selects and tunes the embedding provider behind the
// semantic similarity layer. An empty provider disables the layer.
type SemanticConfig struct {
	Provider          string  `yaml:"provider" mapstructure:"provider"` // openai, ollama, local or empty
	Model             string  `yaml:"model" mapstructure:"model"`
	BaseURL           string  `yaml:"base_url" mapstructure:"base_url"` // ollama endpoint override
	TimeoutSeconds    int     `yaml:"timeout_seconds" mapstructure:"timeout_seconds"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int     `yaml:"burst" mapstructure:"burst"`
	MaxConcurrent     int     `yaml:"max_concurrent" mapstructure:"max_concurrent"`
	MaxRetries        int     `yaml:"max_retries" mapstructure:"max_retries"`
	CacheTTLMinutes   int     `yaml:"cache_ttl_minutes" mapstructure:"cache_ttl_minutes"` // 0 disables the cache
	CacheDir          string  `yaml:"cache_dir" mapstructure:"cache_dir"`                 // adds a disk cache layer when set
}

// ConcurrencyConfig tunes batch processing.
type ConcurrencyConfig struct {
	Workers int `yaml:"workers" mapstructure:"workers"`
}

// OutputConfig tunes report rendering.
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" mapstructure:"verbose"`
	IncludeFooter bool `yaml:"include_footer" mapstructure:"include_footer"`
}

// DefaultConfig returns the engine defaults. Every constant that shapes a
// score lives here so reports stay reproducible from config alone.
func DefaultConfig() *Config {
	return &Config{
		Scoring: ScoringConfig{
			Damping:           0.85,
			EvidenceCap:       0.2,
			ClampMin:          0.01,
			ClampMax:          0.99,
			DebunkedThreshold: 0.05,
		},
		Confidence: ConfidenceConfig{
			BaseInterval:    0.15,
			ArgumentShrink:  0.03,
			MinShrink:       0.3,
			BalanceShrink:   0.5,
			MinInterval:     0.02,
			MaxInterval:     0.2,
			CalibratedArgs:  4,
			CalibratedWidth: 0.08,
			ContestedArgs:   2,
		},
		Stability: StabilityConfig{
			SaturationCount:      10,
			Floor:                0.4,
			DominanceWeight:      0.6,
			RobustThreshold:      0.75,
			EstablishedThreshold: 0.5,
			DevelopingThreshold:  0.25,
		},
		Strength: StrengthConfig{
			MaxPenalty: 0.75,
			LinkageGap: 0.5,
		},
		Duplication: DuplicationConfig{
			MechanicalWeight:    0.4,
			SemanticWeight:      0.6,
			CommunityWeight:     0.0,
			MechanicalThreshold: 0.85,
			ClusterThreshold:    0.70,
		},
		Novelty: NoveltyConfig{
			PeakMultiplier:      1.25,
			HalflifeHours:       24,
			Floor:               1.0,
			UniquenessThreshold: 0.5,
		},
		Corroboration: CorroborationConfig{
			MaxBoost:       0.20,
			SaturationRate: 0.5,
		},
		Overlap: OverlapConfig{
			SemanticWeight:    0.40,
			TaxonomyWeight:    0.25,
			CitationWeight:    0.15,
			NavigationWeight:  0.10,
			GraphWeight:       0.10,
			RankOverlapWeight: 0.50,
			RankTruthWeight:   0.30,
			RankDisputeWeight: 0.10,
			RankRecencyWeight: 0.10,
			RecencyDecayDays:  30,
		},
		Market: MarketConfig{
			Liquidity:       100,
			StartingBalance: 1000,
		},
		Semantic: SemanticConfig{
			Provider:          "",
			Model:             "",
			BaseURL:           "http://localhost:11434",
			TimeoutSeconds:    30,
			RequestsPerSecond: 4,
			Burst:             4,
			MaxConcurrent:     4,
			MaxRetries:        3,
			CacheTTLMinutes:   60,
			CacheDir:          "",
		},
		Concurrency: ConcurrencyConfig{
			Workers: 4,
		},
		Output: OutputConfig{
			Verbose:       false,
			IncludeFooter: true,
		},
	}
}
