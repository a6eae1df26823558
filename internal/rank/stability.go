package rank

import (
	"math"

	"github.com/myklob/reasonrank/internal/model"
)

// Stability measures how resistant a belief's score is to the next argument
// that arrives. Volume saturates at the configured count; dominance rewards
// debates where one side has clearly won over debates still in a dead heat.
func (s *Scorer) Stability(proRank, conRank float64, argumentCount int) model.ConfidenceStabilityResult {
	cfg := s.cfg.Stability

	argFactor := 1.0
	if cfg.SaturationCount > 0 {
		argFactor = float64(argumentCount) / float64(cfg.SaturationCount)
		if argFactor > 1 {
			argFactor = 1
		}
	}

	dominance := 0.0
	if proRank+conRank > 0 {
		dominance = math.Abs(proRank-conRank) / (proRank + conRank)
	}

	score := clamp(argFactor*(cfg.Floor+cfg.DominanceWeight*dominance), 0, 1)

	var band model.StabilityBand
	switch {
	case score >= cfg.RobustThreshold:
		band = model.BandRobust
	case score >= cfg.EstablishedThreshold:
		band = model.BandEstablished
	case score >= cfg.DevelopingThreshold:
		band = model.BandDeveloping
	default:
		band = model.BandFragile
	}

	return model.ConfidenceStabilityResult{
		Score:          score,
		Band:           band,
		ArgumentFactor: argFactor,
		DominanceRatio: dominance,
	}
}
