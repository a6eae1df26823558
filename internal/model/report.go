package model

import "time"

// ClaimStrengthResult reports how the proposition's phrasing strength
// filtered the raw score.
type ClaimStrengthResult struct {
	ClaimStrength float64 `json:"claim_strength"` // input, 0 weak to 1 absolute
	Transmission  float64 `json:"transmission"`   // fraction of raw score that survives
	RawScore      float64 `json:"raw_score"`
	AdjustedScore float64 `json:"adjusted_score"`
}

// CorroborationResult records the truth boost an argument earned from its
// cited sources.
type CorroborationResult struct {
	ArgumentID  string  `json:"argument_id"`
	SourceCount int     `json:"source_count"`
	Boost       float64 `json:"boost"` // additive, capped
}

// DuplicationResult is the duplication pipeline's output for one side of
// the debate.
type DuplicationResult struct {
	Arguments []ScoredArgument  `json:"arguments,omitempty"`
	Clusters  []ArgumentCluster `json:"clusters,omitempty"`
}

// Report is the full scoring verdict for one belief, assembled by the
// pipeline and rendered to JSON or Markdown.
type Report struct {
	BeliefID      string                    `json:"belief_id"`
	Title         string                    `json:"title"`
	GeneratedAt   time.Time                 `json:"generated_at"`
	Breakdown     ScoreBreakdown            `json:"breakdown"`
	Stability     ConfidenceStabilityResult `json:"stability"`
	ClaimStrength ClaimStrengthResult       `json:"claim_strength"`
	Corroboration []CorroborationResult     `json:"corroboration,omitempty"`
	ProDuplicates DuplicationResult         `json:"pro_duplicates,omitzero"`
	ConDuplicates DuplicationResult         `json:"con_duplicates,omitzero"`
	SemanticLayer string                    `json:"semantic_layer,omitempty"` // provider used, if any
}

// TruthPercent returns the truth score on the 0-100 scale used in rendered
// reports.
func (r *Report) TruthPercent() float64 {
	return r.Breakdown.TruthScore * 100
}
