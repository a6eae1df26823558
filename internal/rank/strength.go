package rank

import "math"

// TransmissionFactor returns the fraction of raw evidential support that
// survives a claim's phrasing strength. Absolute claims ("always", "never")
// carry a heavier burden of proof, so the same evidence moves them less.
func (s *Scorer) TransmissionFactor(claimStrength float64) float64 {
	return 1.0 - s.cfg.Strength.MaxPenalty*claimStrength
}

// ApplyClaimStrength filters a raw score through the claim's burden of
// proof. A hedged claim (strength 0) passes untouched; an absolute claim
// keeps only what the transmission factor allows.
func (s *Scorer) ApplyClaimStrength(raw, claimStrength float64) float64 {
	return raw * s.TransmissionFactor(claimStrength)
}

// RequiredRawScore inverts the filter: how much raw support an absolute
// claim would need to reach the target adjusted score. Returns +Inf when
// the transmission factor is zero or below.
func (s *Scorer) RequiredRawScore(target, claimStrength float64) float64 {
	t := s.TransmissionFactor(claimStrength)
	if t <= 0 {
		return math.Inf(1)
	}
	return target / t
}

// CrossStrengthLinkage returns how fully evidence attached to one phrasing
// of a claim transmits to another phrasing. Evidence for the stronger or
// equal phrasing transmits fully downward; evidence for a weaker phrasing
// decays linearly and stops transmitting once the strength gap reaches the
// configured limit.
func (s *Scorer) CrossStrengthLinkage(evidenceStrength, claimStrength float64) float64 {
	if evidenceStrength >= claimStrength {
		return 1.0
	}
	if s.cfg.Strength.LinkageGap <= 0 {
		return 0
	}
	factor := 1.0 - (claimStrength-evidenceStrength)/s.cfg.Strength.LinkageGap
	if factor < 0 {
		return 0
	}
	return factor
}
