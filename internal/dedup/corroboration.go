package dedup

import (
	"math"

	"github.com/myklob/reasonrank/internal/model"
)

// CorroborationBoost returns the additive truth boost an argument earns
// from its corroborating sources. Independent sources pointing at the same
// fact strengthen it without creating new argument nodes, with diminishing
// marginal value per source:
//
//	boost = max * (1 - e^(-k * n))
//
// where n is the tier-weighted source count and k the saturation rate.
// The boost never exceeds the configured maximum.
func CorroborationBoost(sources []model.Source, cfg model.CorroborationConfig) float64 {
	if len(sources) == 0 {
		return 0
	}

	weightedN := 0.0
	for _, src := range sources {
		weightedN += src.Tier.Weight() * src.Weight
	}

	boost := cfg.MaxBoost * (1 - math.Exp(-cfg.SaturationRate*weightedN))
	return math.Min(boost, cfg.MaxBoost)
}
