// Package rank implements the recursive argument scorer and belief-level
// aggregation. Every argument earns a rank from its own credibility damped
// toward the consensus of its sub-arguments, and each belief's truth score
// is the relative strength of its pro and con channels.
package rank

import (
	"math"

	"github.com/myklob/reasonrank/internal/model"
)

// Scorer walks argument trees and produces transparent score breakdowns.
// It is pure computation: no I/O, no stored state, safe for concurrent use.
type Scorer struct {
	cfg *model.Config
}

// NewScorer creates a scorer. A nil config falls back to the defaults.
func NewScorer(cfg *model.Config) *Scorer {
	if cfg == nil {
		cfg = model.DefaultConfig()
	}
	return &Scorer{cfg: cfg}
}

// ScoreArgument scores one argument tree and returns the root's breakdown.
// Sub-arguments are scored recursively; their impact pulls the root's rank
// toward their consensus.
func (s *Scorer) ScoreArgument(arg *model.Argument) model.ArgumentScoreBreakdown {
	return s.scoreArgument(arg, nil)
}

func (s *Scorer) scoreArgument(arg *model.Argument, flat *[]model.ArgumentScoreBreakdown) model.ArgumentScoreBreakdown {
	// 1. Base truth: the claim's own credibility discounted by detected
	//    fallacies. A fully fallacious argument bottoms out at zero.
	penalty := 0.0
	for _, f := range arg.Fallacies {
		penalty += math.Abs(f.Impact) / 100.0
	}
	baseTruth := arg.TruthScore * (1.0 - penalty)
	if baseTruth < 0 {
		baseTruth = 0
	}

	// 2. Child consensus. Supporting children push up, attacking children
	//    push down, normalized by child count to [-1, 1].
	proSub, conSub := 0.0, 0.0
	for i := range arg.SubArguments {
		child := &arg.SubArguments[i]
		childBD := s.scoreArgument(child, flat)
		switch child.Side {
		case model.SidePro:
			proSub += childBD.RawImpact
		case model.SideCon:
			conSub += childBD.RawImpact
		}
	}

	// 3. Damped blend. A leaf keeps its base truth untouched; with children
	//    the damping factor shifts weight onto their consensus.
	reasonRank := baseTruth
	if n := len(arg.SubArguments); n > 0 {
		net := (proSub - conSub) / float64(n)
		mapped := 0.5 + net*0.5
		d := s.cfg.Scoring.Damping
		reasonRank = (1.0-d)*baseTruth + d*mapped
	}

	// 4. Effective linkage: a live relevance debate overrides the static
	//    linkage score.
	linkage := arg.Linkage
	if arg.LinkageDebate != nil {
		linkage = s.scoreLinkageDebate(arg.LinkageDebate)
	}

	// 5. Impact: rank scaled by relevance, importance and originality.
	rawImpact := reasonRank * linkage * arg.Importance * arg.Uniqueness
	var signedImpact float64
	switch arg.Side {
	case model.SidePro:
		signedImpact = rawImpact
	case model.SideCon:
		signedImpact = -rawImpact
	}

	bd := model.ArgumentScoreBreakdown{
		ArgumentID:       arg.ID,
		Claim:            arg.Claim,
		Side:             arg.Side,
		BaseTruth:        baseTruth,
		FallacyPenalty:   penalty,
		ProSubRank:       proSub,
		ConSubRank:       conSub,
		ChildCount:       len(arg.SubArguments),
		ReasonRank:       reasonRank,
		EffectiveLinkage: linkage,
		RawImpact:        rawImpact,
		SignedImpact:     signedImpact,
	}
	if flat != nil {
		*flat = append(*flat, bd)
	}
	return bd
}

// scoreLinkageDebate resolves a pro/con debate over an argument's relevance
// by reusing the argument scorer on the debate's own trees. No participants
// means a neutral 0.5. The linkage-debate arguments do not appear in the
// belief's flat breakdown; their verdict surfaces as effective linkage.
func (s *Scorer) scoreLinkageDebate(d *model.LinkageDebate) float64 {
	pro, con := 0.0, 0.0
	for i := range d.ProArguments {
		pro += s.scoreArgument(&d.ProArguments[i], nil).RawImpact
	}
	for i := range d.ConArguments {
		con += s.scoreArgument(&d.ConArguments[i], nil).RawImpact
	}
	total := pro + con
	if total == 0 {
		return 0.5
	}
	return pro / total
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
