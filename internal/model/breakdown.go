package model

import "time"

// BeliefStatus grades how settled a belief's score is.
type BeliefStatus string

const (
	StatusCalibrated BeliefStatus = "calibrated" // well argued, tight interval
	StatusContested  BeliefStatus = "contested"  // argued but still moving
	StatusEmerging   BeliefStatus = "emerging"   // too thin to trust
)

// StabilityBand groups stability scores into reporting bands.
type StabilityBand string

const (
	BandRobust      StabilityBand = "robust"
	BandEstablished StabilityBand = "established"
	BandDeveloping  StabilityBand = "developing"
	BandFragile     StabilityBand = "fragile"
)

// ArgumentScoreBreakdown is the transparent per-argument ledger produced by
// the recursive scorer: every factor that went into the argument's impact.
type ArgumentScoreBreakdown struct {
	ArgumentID       string  `json:"argument_id"`
	Claim            string  `json:"claim"`
	Side             Side    `json:"side"`
	BaseTruth        float64 `json:"base_truth"`        // truth score after fallacy penalties
	FallacyPenalty   float64 `json:"fallacy_penalty"`   // total penalty fraction applied
	ProSubRank       float64 `json:"pro_sub_rank"`      // summed impact of supporting children
	ConSubRank       float64 `json:"con_sub_rank"`      // summed impact of attacking children
	ChildCount       int     `json:"child_count"`
	ReasonRank       float64 `json:"reason_rank"`       // damped blend of base truth and child consensus
	EffectiveLinkage float64 `json:"effective_linkage"` // static score or resolved linkage debate
	RawImpact        float64 `json:"raw_impact"`        // reasonRank x linkage x importance x uniqueness
	SignedImpact     float64 `json:"signed_impact"`     // raw impact with the side's sign
}

// ScoreBreakdown is the belief-level scoring result: the aggregate truth
// score plus everything needed to audit how it was reached.
type ScoreBreakdown struct {
	BeliefID           string                   `json:"belief_id"`
	TruthScore         float64                  `json:"truth_score"`         // clamped to [0.01, 0.99]
	ArgumentTruth      float64                  `json:"argument_truth"`      // truth from arguments alone
	EvidenceAdjustment float64                  `json:"evidence_adjustment"` // capped secondary signal
	ConfidenceInterval float64                  `json:"confidence_interval"` // half-width, [0.02, 0.2]
	Status             BeliefStatus             `json:"status"`
	ProRank            float64                  `json:"pro_rank"` // summed raw impact, pro channel
	ConRank            float64                  `json:"con_rank"` // summed raw impact, con channel
	ProCount           int                      `json:"pro_count"`
	ConCount           int                      `json:"con_count"`
	TotalArguments     int                      `json:"total_arguments"` // nodes in both trees
	Arguments          []ArgumentScoreBreakdown `json:"arguments,omitempty"`
}

// ConfidenceStabilityResult reports how resistant a belief's score is to the
// next argument that arrives.
type ConfidenceStabilityResult struct {
	Score          float64       `json:"score"` // [0,1]
	Band           StabilityBand `json:"band"`
	ArgumentFactor float64       `json:"argument_factor"` // saturation of argument volume
	DominanceRatio float64       `json:"dominance_ratio"` // how one-sided the debate is
}

// Submission is one argument as it entered the debate, the unit the
// duplication pipeline works on.
type Submission struct {
	ID          string    `json:"id"`
	Claim       string    `json:"claim"`
	BaseScore   float64   `json:"base_score"` // pre-duplication score
	SubmittedAt time.Time `json:"submitted_at"`
}

// SimilarityPair records every layer of the comparison between two
// arguments. Absent layers stay nil so reports show which signals actually
// fired.
type SimilarityPair struct {
	ArgumentA           string   `json:"argument_a"`
	ArgumentB           string   `json:"argument_b"`
	Mechanical          float64  `json:"mechanical"`          // normalized token Jaccard
	Semantic            *float64 `json:"semantic,omitempty"`  // embedding similarity, if available
	Community           *float64 `json:"community,omitempty"` // resolved equivalence debate, if any
	Combined            float64  `json:"combined"`
	MechanicalDuplicate bool     `json:"mechanical_duplicate"` // mechanical layer alone settled it
}

// ScoredArgument is the duplication pipeline's verdict on one submission.
type ScoredArgument struct {
	Submission            Submission       `json:"submission"`
	Uniqueness            float64          `json:"uniqueness"`             // 1 minus best prior-match
	NoveltyMultiplier     float64          `json:"novelty_multiplier"`     // timing bonus, decays to floor
	EffectiveContribution float64          `json:"effective_contribution"` // base x uniqueness x novelty
	Pairs                 []SimilarityPair `json:"pairs,omitempty"`        // comparisons against priors
}

// ArgumentCluster groups near-duplicate submissions under a representative.
type ArgumentCluster struct {
	ID               string   `json:"id"`
	RepresentativeID string   `json:"representative_id"` // member with the highest base score
	MemberIDs        []string `json:"member_ids"`
	Score            float64  `json:"score"` // summed effective contributions
}

// TopicOverlapResult reports how strongly a statement belongs to a topic.
// Scores are on the 0-100 scale used by topic pages.
type TopicOverlapResult struct {
	Score     float64            `json:"score"`
	Signals   map[string]float64 `json:"signals"`              // per-signal 0-100 scores
	TopicRank float64            `json:"topic_rank,omitempty"` // placement rank when requested
}

// LeaderboardEntry is one row of the belief leaderboard, sorted by truth
// score.
type LeaderboardEntry struct {
	BeliefID      string       `json:"belief_id"`
	Title         string       `json:"title"`
	TruthScore    float64      `json:"truth_score"`
	Status        BeliefStatus `json:"status"`
	ArgumentCount int          `json:"argument_count"`
	Debunked      bool         `json:"debunked"` // truth score below the debunked threshold
}
