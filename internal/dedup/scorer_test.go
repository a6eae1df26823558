package dedup

import (
	"math"
	"testing"
	"time"

	"github.com/myklob/reasonrank/internal/model"
)

var testBase = time.Date(2025, 1, 15, 12, 0, 0, 0, time.UTC)

func newTestScorer(semantic, community Lookup) *Scorer {
	cfg := model.DefaultConfig()
	return NewScorer(cfg.Duplication, cfg.Novelty, semantic, community)
}

func TestScorer_ScoreArguments_RedundancyPenalty(t *testing.T) {
	scorer := newTestScorer(nil, nil)

	subs := []model.Submission{
		{ID: "a1", Claim: "We should reduce taxes", BaseScore: 0.8, SubmittedAt: testBase},
		{ID: "a2", Claim: "We should lower taxes", BaseScore: 0.9, SubmittedAt: testBase.Add(time.Hour)},
	}
	// Far enough out that the novelty boost has fully decayed.
	scored := scorer.ScoreArguments(subs, testBase.Add(1000*time.Hour))

	if scored[0].Uniqueness != 1.0 {
		t.Errorf("first submission should keep full uniqueness, got %f", scored[0].Uniqueness)
	}
	if scored[1].Uniqueness != 0.0 {
		t.Errorf("mechanical restatement should have zero uniqueness, got %f", scored[1].Uniqueness)
	}
	if scored[1].EffectiveContribution != 0.0 {
		t.Errorf("restatement should contribute nothing, got %f", scored[1].EffectiveContribution)
	}
	if math.Abs(scored[0].EffectiveContribution-0.8) > 1e-6 {
		t.Errorf("original should contribute its base score, got %f", scored[0].EffectiveContribution)
	}

	pair := scored[1].Pairs[0]
	if !pair.MechanicalDuplicate {
		t.Error("synonym rewording should be flagged as a mechanical duplicate")
	}
	if pair.Combined != 1.0 {
		t.Errorf("mechanical duplicate should blend to 1.0, got %f", pair.Combined)
	}
}

func TestScorer_ScoreArguments_InputOrderPreserved(t *testing.T) {
	scorer := newTestScorer(nil, nil)

	// a2 was submitted first, but results must come back in input order.
	subs := []model.Submission{
		{ID: "a1", Claim: "Solar is cheap", BaseScore: 0.5, SubmittedAt: testBase.Add(2 * time.Hour)},
		{ID: "a2", Claim: "Wind is reliable", BaseScore: 0.5, SubmittedAt: testBase},
	}
	scored := scorer.ScoreArguments(subs, testBase.Add(1000*time.Hour))

	if scored[0].Submission.ID != "a1" || scored[1].Submission.ID != "a2" {
		t.Errorf("results out of input order: %s, %s", scored[0].Submission.ID, scored[1].Submission.ID)
	}
	// The older submission is the one compared against nothing.
	if len(scored[1].Pairs) != 0 {
		t.Errorf("oldest submission should have no prior pairs, got %d", len(scored[1].Pairs))
	}
	if len(scored[0].Pairs) != 1 {
		t.Errorf("newer submission should be compared against the prior, got %d", len(scored[0].Pairs))
	}
}

func TestScorer_Compare_SemanticBlend(t *testing.T) {
	// "taxes fund schools" vs "taxes fund hospitals" shares 2 of 4 tokens.
	a := model.Submission{ID: "a", Claim: "taxes fund schools"}
	b := model.Submission{ID: "b", Claim: "taxes fund hospitals"}

	noSemantic := newTestScorer(nil, nil)
	pair := noSemantic.Compare(a, b)
	if math.Abs(pair.Mechanical-0.5) > 1e-9 {
		t.Fatalf("mechanical score should be 0.5, got %f", pair.Mechanical)
	}
	if pair.Semantic != nil {
		t.Error("semantic layer should be absent without a lookup")
	}
	// Renormalized over the mechanical layer alone, combined equals it.
	if math.Abs(pair.Combined-0.5) > 1e-9 {
		t.Errorf("mechanical-only blend should equal the mechanical score, got %f", pair.Combined)
	}

	withSemantic := newTestScorer(func(idA, idB string) (float64, bool) {
		return 0.9, true
	}, nil)
	pair = withSemantic.Compare(a, b)
	if pair.Semantic == nil {
		t.Fatal("semantic layer should be present")
	}
	// (0.5*0.4 + 0.9*0.6) / 1.0
	if math.Abs(pair.Combined-0.74) > 1e-9 {
		t.Errorf("blended score should be 0.74, got %f", pair.Combined)
	}
}

func TestScorer_Compare_CommunityLayer(t *testing.T) {
	debate := &EquivalenceDebate{
		ID:        "eq-1",
		ArgumentA: "a",
		ArgumentB: "b",
		Question:  EquivalenceQuestion,
		ProScore:  75,
		ConScore:  25,
	}
	debate.Resolve()

	cfg := model.DefaultConfig()
	cfg.Duplication.CommunityWeight = 0.2
	scorer := NewScorer(cfg.Duplication, cfg.Novelty, nil, CommunityLookup([]*EquivalenceDebate{debate}))

	// Lookup must answer regardless of pair order.
	pair := scorer.Compare(
		model.Submission{ID: "b", Claim: "taxes fund schools"},
		model.Submission{ID: "a", Claim: "taxes fund hospitals"},
	)
	if pair.Community == nil {
		t.Fatal("community layer should be present for a resolved debate")
	}
	if *pair.Community != 0.75 {
		t.Errorf("community score should be 0.75, got %f", *pair.Community)
	}
	// (0.5*0.4 + 0.75*0.2) / 0.6
	want := (0.5*0.4 + 0.75*0.2) / 0.6
	if math.Abs(pair.Combined-want) > 1e-9 {
		t.Errorf("blend should renormalize over mechanical and community, got %f want %f", pair.Combined, want)
	}
}

func TestScorer_ClusterArguments(t *testing.T) {
	scorer := newTestScorer(nil, nil)

	subs := []model.Submission{
		{ID: "a1", Claim: "We should reduce taxes", BaseScore: 0.8, SubmittedAt: testBase},
		{ID: "a2", Claim: "We should lower taxes", BaseScore: 0.9, SubmittedAt: testBase.Add(time.Hour)},
		{ID: "a3", Claim: "Climate policy is expensive", BaseScore: 0.7, SubmittedAt: testBase.Add(2 * time.Hour)},
	}
	scored := scorer.ScoreArguments(subs, testBase.Add(1000*time.Hour))
	clusters := scorer.ClusterArguments(scored)

	if len(clusters) != 2 {
		t.Fatalf("expected 2 clusters, got %d", len(clusters))
	}
	if clusters[0].ID != "cluster-1" || clusters[1].ID != "cluster-2" {
		t.Errorf("cluster ids should be sequential, got %s, %s", clusters[0].ID, clusters[1].ID)
	}

	dup := clusters[0]
	if len(dup.MemberIDs) != 2 {
		t.Fatalf("restatements should share a cluster, got members %v", dup.MemberIDs)
	}
	if dup.RepresentativeID != "a2" {
		t.Errorf("representative should be the highest base score, got %s", dup.RepresentativeID)
	}
	// a1 contributes ~0.8, the duplicate a2 contributes 0.
	if math.Abs(dup.Score-0.8) > 1e-6 {
		t.Errorf("cluster score should equal the surviving contribution, got %f", dup.Score)
	}

	solo := clusters[1]
	if len(solo.MemberIDs) != 1 || solo.MemberIDs[0] != "a3" {
		t.Errorf("novel argument should stand alone, got %v", solo.MemberIDs)
	}
}

func TestNoveltyCalculator_Decay(t *testing.T) {
	calc := NewNoveltyCalculator(model.DefaultConfig().Novelty)

	fresh := calc.Multiplier(testBase, 1.0, testBase)
	if math.Abs(fresh-1.25) > 1e-9 {
		t.Errorf("fresh argument should get the peak multiplier, got %f", fresh)
	}

	halfway := calc.Multiplier(testBase, 1.0, testBase.Add(24*time.Hour))
	if math.Abs(halfway-1.125) > 1e-9 {
		t.Errorf("one halflife should decay to 1.125, got %f", halfway)
	}

	old := calc.Multiplier(testBase, 1.0, testBase.Add(1000*time.Hour))
	if old < 1.0 || old > 1.001 {
		t.Errorf("fully decayed multiplier should approach the floor, got %f", old)
	}

	future := calc.Multiplier(testBase.Add(time.Hour), 1.0, testBase)
	if math.Abs(future-1.25) > 1e-9 {
		t.Errorf("negative age should clamp to zero, got %f", future)
	}
}

func TestNoveltyCalculator_DuplicatesGetNoBoost(t *testing.T) {
	calc := NewNoveltyCalculator(model.DefaultConfig().Novelty)

	got := calc.Multiplier(testBase, 0.3, testBase)
	if got != 1.0 {
		t.Errorf("uniqueness below the threshold should get the floor, got %f", got)
	}
}

func TestCorroborationBoost_DiminishingReturns(t *testing.T) {
	cfg := model.DefaultConfig().Corroboration

	t1 := model.Source{ID: "s1", Tier: model.Tier1, Weight: 1.0}

	if got := CorroborationBoost(nil, cfg); got != 0 {
		t.Errorf("no sources should mean no boost, got %f", got)
	}

	one := CorroborationBoost([]model.Source{t1}, cfg)
	two := CorroborationBoost([]model.Source{t1, t1}, cfg)
	three := CorroborationBoost([]model.Source{t1, t1, t1}, cfg)

	if !(two > one && three > two) {
		t.Errorf("each source should strictly increase the boost: %f, %f, %f", one, two, three)
	}
	if !(two-one < one) {
		t.Errorf("marginal value should diminish: first %f, second adds %f", one, two-one)
	}

	// A pile of sources saturates at the cap.
	many := make([]model.Source, 100)
	for i := range many {
		many[i] = t1
	}
	if got := CorroborationBoost(many, cfg); got > cfg.MaxBoost || got < cfg.MaxBoost-0.001 {
		t.Errorf("boost should saturate at the cap %f, got %f", cfg.MaxBoost, got)
	}
}

func TestCorroborationBoost_TierWeighting(t *testing.T) {
	cfg := model.DefaultConfig().Corroboration

	strong := CorroborationBoost([]model.Source{{Tier: model.Tier1, Weight: 1.0}}, cfg)
	weak := CorroborationBoost([]model.Source{{Tier: model.Tier4, Weight: 1.0}}, cfg)

	if weak >= strong {
		t.Errorf("a T4 source should corroborate less than a T1 source: %f vs %f", weak, strong)
	}
}

func TestEquivalenceDebate_Resolve(t *testing.T) {
	noVotes := &EquivalenceDebate{ID: "eq-0", ArgumentA: "a", ArgumentB: "b"}
	if got := noVotes.Resolve(); got != 0.5 {
		t.Errorf("no votes should resolve to the neutral 0.5, got %f", got)
	}
	if !noVotes.Resolved {
		t.Error("debate should be marked resolved")
	}

	unanimous := &EquivalenceDebate{ID: "eq-1", ArgumentA: "a", ArgumentB: "b", ProScore: 40}
	if got := unanimous.Resolve(); got != 1.0 {
		t.Errorf("unanimous pro should resolve to 1.0, got %f", got)
	}
}
