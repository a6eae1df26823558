package rank

import (
	"math"
	"testing"
)

func TestScorer_ClaimStrength_TransmissionLaw(t *testing.T) {
	scorer := NewScorer(nil)

	// A hedged claim passes raw support untouched.
	if got := scorer.ApplyClaimStrength(0.8, 0.0); got != 0.8 {
		t.Errorf("strength 0 should transmit fully, got %f", got)
	}

	// An absolute claim keeps a quarter of its raw support.
	got := scorer.ApplyClaimStrength(0.8, 1.0)
	if math.Abs(got-0.2) > 1e-9 {
		t.Errorf("strength 1 should transmit 0.25x, got %f", got)
	}

	if f := scorer.TransmissionFactor(1.0); math.Abs(f-0.25) > 1e-9 {
		t.Errorf("transmission at full strength should be 0.25, got %f", f)
	}
}

func TestScorer_RequiredRawScore_InvertsTransmission(t *testing.T) {
	scorer := NewScorer(nil)

	adjusted := scorer.ApplyClaimStrength(0.8, 0.6)
	required := scorer.RequiredRawScore(adjusted, 0.6)

	if math.Abs(required-0.8) > 1e-9 {
		t.Errorf("required raw should invert the filter: got %f, want 0.8", required)
	}
}

func TestScorer_CrossStrengthLinkage(t *testing.T) {
	scorer := NewScorer(nil)

	// Evidence for the stronger phrasing transmits fully to the weaker one.
	if got := scorer.CrossStrengthLinkage(0.9, 0.5); got != 1.0 {
		t.Errorf("stronger-to-weaker should transmit fully, got %f", got)
	}
	if got := scorer.CrossStrengthLinkage(0.5, 0.5); got != 1.0 {
		t.Errorf("equal strengths should transmit fully, got %f", got)
	}

	// Upward transmission decays linearly with the gap.
	if got := scorer.CrossStrengthLinkage(0.5, 0.75); math.Abs(got-0.5) > 1e-9 {
		t.Errorf("quarter gap should halve the linkage, got %f", got)
	}

	// A gap at or beyond the limit kills the linkage entirely.
	if got := scorer.CrossStrengthLinkage(0.2, 0.7); got != 0 {
		t.Errorf("gap at the limit should zero out, got %f", got)
	}
	if got := scorer.CrossStrengthLinkage(0.1, 0.9); got != 0 {
		t.Errorf("gap beyond the limit should zero out, got %f", got)
	}
}
