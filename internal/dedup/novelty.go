package dedup

import (
	"math"
	"time"

	"github.com/myklob/reasonrank/internal/model"
)

// NoveltyCalculator computes the time-decaying boost granted to genuinely
// new arguments. A fresh original point gets a short head start before the
// community has evaluated its similarity; the boost decays exponentially to
// the floor. Detected duplicates get no boost regardless of age.
type NoveltyCalculator struct {
	cfg model.NoveltyConfig
}

// NewNoveltyCalculator creates a calculator with the given decay curve.
func NewNoveltyCalculator(cfg model.NoveltyConfig) *NoveltyCalculator {
	return &NoveltyCalculator{cfg: cfg}
}

// Multiplier returns the current novelty multiplier for an argument,
// always at least the configured floor.
//
// multiplier(t) = floor + (peak - floor) * 0.5^(t / halflife)
func (n *NoveltyCalculator) Multiplier(submittedAt time.Time, uniqueness float64, now time.Time) float64 {
	if uniqueness < n.cfg.UniquenessThreshold {
		return n.cfg.Floor
	}
	if n.cfg.HalflifeHours <= 0 {
		return n.cfg.Floor
	}
	if now.IsZero() {
		now = time.Now().UTC()
	}

	ageHours := now.Sub(submittedAt).Hours()
	if ageHours < 0 {
		ageHours = 0
	}

	decay := math.Pow(0.5, ageHours/n.cfg.HalflifeHours)
	return n.cfg.Floor + (n.cfg.PeakMultiplier-n.cfg.Floor)*decay
}
