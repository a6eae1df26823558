package rank

import (
	"math"

	"github.com/myklob/reasonrank/internal/model"
)

// ScoreBelief aggregates a belief's argument trees and evidence into a
// truth score with a confidence interval and status. The returned breakdown
// carries a flat per-argument ledger so every number can be audited.
func (s *Scorer) ScoreBelief(b *model.Belief) model.ScoreBreakdown {
	var flat []model.ArgumentScoreBreakdown

	// 1. Score both channels. Each root's raw impact feeds its channel.
	proRank, conRank := 0.0, 0.0
	for i := range b.ProTree {
		proRank += s.scoreArgument(&b.ProTree[i], &flat).RawImpact
	}
	for i := range b.ConTree {
		conRank += s.scoreArgument(&b.ConTree[i], &flat).RawImpact
	}

	// 2. Argument-driven truth: the pro channel's share of total strength.
	//    No arguments at all means a neutral 0.5.
	argTruth := 0.5
	if proRank+conRank > 0 {
		argTruth = proRank / (proRank + conRank)
	}

	// 3. Evidence is a secondary signal, capped so exhibits can nudge but
	//    never overturn the debate.
	adjustment := s.evidenceAdjustment(b.Evidence)

	truth := clamp(argTruth+adjustment, s.cfg.Scoring.ClampMin, s.cfg.Scoring.ClampMax)

	// 4. Confidence narrows as arguments accumulate and as one side pulls
	//    ahead.
	totalArgs := b.CountArguments()
	interval := s.confidenceInterval(totalArgs, proRank, conRank)

	proCount := 0
	for i := range b.ProTree {
		proCount += countTree(&b.ProTree[i])
	}
	conCount := totalArgs - proCount

	return model.ScoreBreakdown{
		BeliefID:           b.ID,
		TruthScore:         truth,
		ArgumentTruth:      argTruth,
		EvidenceAdjustment: adjustment,
		ConfidenceInterval: interval,
		Status:             s.status(totalArgs, interval),
		ProRank:            proRank,
		ConRank:            conRank,
		ProCount:           proCount,
		ConCount:           conCount,
		TotalArguments:     totalArgs,
		Arguments:          flat,
	}
}

// evidenceAdjustment nets tier-weighted, linkage-scaled exhibits against
// each other, normalized by evidence count and scaled to the cap.
func (s *Scorer) evidenceAdjustment(evidence []model.Evidence) float64 {
	if len(evidence) == 0 {
		return 0
	}
	net := 0.0
	for _, ev := range evidence {
		w := ev.Tier.Weight() * ev.Linkage
		switch ev.Side {
		case model.SidePro:
			net += w
		case model.SideCon:
			net -= w
		}
	}
	return net / float64(len(evidence)) * s.cfg.Scoring.EvidenceCap
}

// confidenceInterval returns the half-width of the belief's confidence
// interval. Volume shrinks it down to the floor factor; a lopsided debate
// shrinks it further.
func (s *Scorer) confidenceInterval(totalArgs int, proRank, conRank float64) float64 {
	cfg := s.cfg.Confidence

	shrink := 1.0 - float64(totalArgs)*cfg.ArgumentShrink
	if shrink < cfg.MinShrink {
		shrink = cfg.MinShrink
	}
	interval := cfg.BaseInterval * shrink

	if proRank+conRank > 0 {
		balance := math.Abs(proRank-conRank) / (proRank + conRank)
		interval *= 1.0 - balance*cfg.BalanceShrink
	}

	return clamp(interval, cfg.MinInterval, cfg.MaxInterval)
}

// status grades how settled the score is from argument volume and interval
// width.
func (s *Scorer) status(totalArgs int, interval float64) model.BeliefStatus {
	cfg := s.cfg.Confidence
	switch {
	case totalArgs >= cfg.CalibratedArgs && interval < cfg.CalibratedWidth:
		return model.StatusCalibrated
	case totalArgs >= cfg.ContestedArgs:
		return model.StatusContested
	default:
		return model.StatusEmerging
	}
}

func countTree(arg *model.Argument) int {
	n := 1
	for i := range arg.SubArguments {
		n += countTree(&arg.SubArguments[i])
	}
	return n
}
