// Package dedup scores sibling arguments for redundancy. Three similarity
// layers feed a blended estimate: mechanical token equivalence, semantic
// embedding similarity and resolved community equivalence debates. The
// blend drives a uniqueness score that discounts restatements, so a point
// only counts once no matter how many times it is made.
package dedup

import (
	"fmt"
	"sort"
	"time"

	"github.com/myklob/reasonrank/internal/model"
	"github.com/myklob/reasonrank/internal/similarity"
)

// Lookup resolves a similarity score for a pair of argument IDs. The second
// return value reports whether the layer has a score for the pair at all.
type Lookup func(idA, idB string) (float64, bool)

// Scorer runs the layered duplication analysis over sibling arguments,
// arguments sharing the same parent and side. Semantic and community
// lookups are optional; blending renormalizes over whichever layers are
// present.
type Scorer struct {
	cfg       model.DuplicationConfig
	novelty   *NoveltyCalculator
	semantic  Lookup
	community Lookup
}

// NewScorer creates a duplication scorer. Pass nil for the semantic or
// community lookup when that layer is unavailable.
func NewScorer(cfg model.DuplicationConfig, novelty model.NoveltyConfig, semantic, community Lookup) *Scorer {
	return &Scorer{
		cfg:       cfg,
		novelty:   NewNoveltyCalculator(novelty),
		semantic:  semantic,
		community: community,
	}
}

// Compare runs all available similarity layers on a pair of submissions
// and blends them into a combined score.
func (s *Scorer) Compare(a, b model.Submission) model.SimilarityPair {
	mechanical := similarity.Score(a.Claim, b.Claim)

	var semantic, community *float64
	if v, ok := lookupEither(s.semantic, a.ID, b.ID); ok {
		semantic = &v
	}
	if v, ok := lookupEither(s.community, a.ID, b.ID); ok {
		community = &v
	}

	return model.SimilarityPair{
		ArgumentA:           a.ID,
		ArgumentB:           b.ID,
		Mechanical:          mechanical,
		Semantic:            semantic,
		Community:           community,
		Combined:            s.blend(mechanical, semantic, community),
		MechanicalDuplicate: mechanical >= s.cfg.MechanicalThreshold,
	}
}

func lookupEither(lookup Lookup, idA, idB string) (float64, bool) {
	if lookup == nil {
		return 0, false
	}
	if v, ok := lookup(idA, idB); ok {
		return v, true
	}
	return lookup(idB, idA)
}

// blend combines the layer scores into one similarity estimate. A
// mechanical score at or above the equivalence threshold settles the pair
// outright. Otherwise the weighted average is renormalized over the layers
// that actually produced a score.
func (s *Scorer) blend(mechanical float64, semantic, community *float64) float64 {
	if mechanical >= s.cfg.MechanicalThreshold {
		return 1.0
	}

	sum := mechanical * s.cfg.MechanicalWeight
	total := s.cfg.MechanicalWeight
	if semantic != nil {
		sum += *semantic * s.cfg.SemanticWeight
		total += s.cfg.SemanticWeight
	}
	if community != nil {
		sum += *community * s.cfg.CommunityWeight
		total += s.cfg.CommunityWeight
	}
	if total <= 0 {
		return 0
	}

	blended := sum / total
	if blended < 0 {
		return 0
	}
	if blended > 1 {
		return 1
	}
	return blended
}

// UniquenessFromPairs derives an argument's uniqueness from its similarity
// to every prior argument. The maximum similarity governs, not the average:
// one near-identical prior is enough to mark the newcomer redundant.
func (s *Scorer) UniquenessFromPairs(pairs []model.SimilarityPair) float64 {
	if len(pairs) == 0 {
		return 1.0
	}
	max := 0.0
	for _, p := range pairs {
		if p.Combined > max {
			max = p.Combined
		}
	}
	uniqueness := 1.0 - max
	if uniqueness < 0 {
		return 0
	}
	return uniqueness
}

// ScoreArguments scores sibling submissions for duplication. Submissions
// are processed oldest-first so the first statement of a point keeps full
// credit and later restatements pay the penalty. Results come back in the
// input order. A zero now falls back to the current time.
func (s *Scorer) ScoreArguments(subs []model.Submission, now time.Time) []model.ScoredArgument {
	ordered := make([]model.Submission, len(subs))
	copy(ordered, subs)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].SubmittedAt.Before(ordered[j].SubmittedAt)
	})

	results := make([]model.ScoredArgument, 0, len(ordered))
	for i, sub := range ordered {
		var pairs []model.SimilarityPair
		for _, prior := range ordered[:i] {
			pairs = append(pairs, s.Compare(sub, prior))
		}

		uniqueness := s.UniquenessFromPairs(pairs)
		noveltyMult := s.novelty.Multiplier(sub.SubmittedAt, uniqueness, now)

		results = append(results, model.ScoredArgument{
			Submission:            sub,
			Uniqueness:            uniqueness,
			NoveltyMultiplier:     noveltyMult,
			EffectiveContribution: sub.BaseScore * uniqueness * noveltyMult,
			Pairs:                 pairs,
		})
	}

	inputOrder := make(map[string]int, len(subs))
	for i, sub := range subs {
		inputOrder[sub.ID] = i
	}
	sort.SliceStable(results, func(i, j int) bool {
		return inputOrder[results[i].Submission.ID] < inputOrder[results[j].Submission.ID]
	})
	return results
}

// ClusterArguments groups scored submissions into similarity clusters using
// the pairwise scores already computed. Each cluster is represented by its
// highest base-score member and its score is the sum of the members'
// effective contributions, so a cluster can never outscore a single fully
// novel argument.
func (s *Scorer) ClusterArguments(scored []model.ScoredArgument) []model.ArgumentCluster {
	type pairKey [2]string
	allPairs := make(map[pairKey]float64)
	byID := make(map[string]model.ScoredArgument, len(scored))
	for _, sc := range scored {
		byID[sc.Submission.ID] = sc
		for _, p := range sc.Pairs {
			allPairs[pairKey{p.ArgumentA, p.ArgumentB}] = p.Combined
		}
	}

	assigned := make(map[string]bool)
	var groups [][]string
	for _, seed := range scored {
		if assigned[seed.Submission.ID] {
			continue
		}
		group := []string{seed.Submission.ID}
		assigned[seed.Submission.ID] = true

		for _, other := range scored {
			if assigned[other.Submission.ID] {
				continue
			}
			sim, ok := allPairs[pairKey{seed.Submission.ID, other.Submission.ID}]
			if !ok {
				sim = allPairs[pairKey{other.Submission.ID, seed.Submission.ID}]
			}
			if sim >= s.cfg.ClusterThreshold {
				group = append(group, other.Submission.ID)
				assigned[other.Submission.ID] = true
			}
		}
		groups = append(groups, group)
	}

	clusters := make([]model.ArgumentCluster, 0, len(groups))
	for idx, ids := range groups {
		repID := ids[0]
		total := 0.0
		for _, id := range ids {
			total += byID[id].EffectiveContribution
			if byID[id].Submission.BaseScore > byID[repID].Submission.BaseScore {
				repID = id
			}
		}
		clusters = append(clusters, model.ArgumentCluster{
			ID:               fmt.Sprintf("cluster-%d", idx+1),
			RepresentativeID: repID,
			MemberIDs:        ids,
			Score:            total,
		})
	}
	return clusters
}
