package similarity

// Jaccard returns |A ∩ B| / |A ∪ B| over two token lists treated as sets.
// Two empty sets count as identical.
func Jaccard(a, b []string) float64 {
	setA := toSet(a)
	setB := toSet(b)

	if len(setA) == 0 && len(setB) == 0 {
		return 1.0
	}
	if len(setA) == 0 || len(setB) == 0 {
		return 0.0
	}

	intersection := 0
	for tok := range setA {
		if setB[tok] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	return float64(intersection) / float64(union)
}

// Score returns the mechanical similarity of two claim texts: the Jaccard
// similarity of their normalized token sets. 1.0 means the texts collapse
// to the same tokens; partial overlap yields a graduated signal.
func Score(textA, textB string) float64 {
	return Jaccard(Normalize(textA), Normalize(textB))
}

// Equivalent reports whether two texts meet the mechanical equivalence
// threshold. A high threshold flags only unambiguous restatements and
// leaves edge cases to the semantic layer.
func Equivalent(textA, textB string, threshold float64) bool {
	return Score(textA, textB) >= threshold
}

func toSet(tokens []string) map[string]bool {
	set := make(map[string]bool, len(tokens))
	for _, tok := range tokens {
		set[tok] = true
	}
	return set
}
