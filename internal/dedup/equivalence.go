package dedup

// EquivalenceQuestion is the debate question shown to participants in a
// community equivalence sub-debate.
const EquivalenceQuestion = "Are these two arguments saying the same thing?"

// EquivalenceDebate is a community sub-debate on whether two arguments are
// saying the same thing. Its resolved score feeds the community layer of
// the similarity blend.
type EquivalenceDebate struct {
	ID             string  `json:"id"`
	ArgumentA      string  `json:"argument_a"`
	ArgumentB      string  `json:"argument_b"`
	Question       string  `json:"question"`
	ProScore       float64 `json:"pro_score"` // weight of reasons for equivalence
	ConScore       float64 `json:"con_score"` // weight of reasons against
	Resolved       bool    `json:"resolved"`
	CommunityScore float64 `json:"community_score"` // valid once resolved
}

// Resolve computes and stores the community similarity score from the
// pro and con weights. Equal weights resolve to 0.5, unanimous pro to 1.0,
// unanimous con to 0.0. No votes at all resolve to the neutral 0.5.
func (d *EquivalenceDebate) Resolve() float64 {
	total := d.ProScore + d.ConScore
	if total == 0 {
		d.CommunityScore = 0.5
	} else {
		d.CommunityScore = d.ProScore / total
	}
	d.Resolved = true
	return d.CommunityScore
}

// CommunityLookup builds a similarity lookup over the resolved debates in
// the list. Unresolved debates are skipped. The lookup answers in both key
// orders.
func CommunityLookup(debates []*EquivalenceDebate) Lookup {
	scores := make(map[[2]string]float64)
	for _, d := range debates {
		if d == nil || !d.Resolved {
			continue
		}
		scores[[2]string{d.ArgumentA, d.ArgumentB}] = d.CommunityScore
	}
	if len(scores) == 0 {
		return nil
	}
	return func(idA, idB string) (float64, bool) {
		if v, ok := scores[[2]string{idA, idB}]; ok {
			return v, true
		}
		v, ok := scores[[2]string{idB, idA}]
		return v, ok
	}
}
