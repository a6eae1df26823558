package semantic

import (
	"strings"
	"unicode"
)

// TrigramSimilarity computes character-trigram Jaccard similarity between
// two texts. It is the zero-dependency fallback used when no embedding
// provider is configured: cruder than a vector model, but deterministic
// and always available.
//
// Both texts empty yields 1.0; exactly one empty yields 0.0.
func TrigramSimilarity(a, b string) float64 {
	ta := trigrams(a)
	tb := trigrams(b)

	if len(ta) == 0 && len(tb) == 0 {
		return 1.0
	}
	if len(ta) == 0 || len(tb) == 0 {
		return 0.0
	}

	intersection := 0
	for gram := range ta {
		if _, ok := tb[gram]; ok {
			intersection++
		}
	}
	union := len(ta) + len(tb) - intersection
	if union == 0 {
		return 0.0
	}
	return float64(intersection) / float64(union)
}

// trigrams returns the set of character trigrams in the lowercased,
// whitespace-collapsed text. Texts shorter than three runes contribute a
// single gram so that near-empty strings still compare.
func trigrams(text string) map[string]struct{} {
	cleaned := normalizeForTrigrams(text)
	grams := make(map[string]struct{})

	runes := []rune(cleaned)
	if len(runes) == 0 {
		return grams
	}
	if len(runes) < 3 {
		grams[string(runes)] = struct{}{}
		return grams
	}

	for i := 0; i+3 <= len(runes); i++ {
		grams[string(runes[i:i+3])] = struct{}{}
	}
	return grams
}

// normalizeForTrigrams lowercases and collapses runs of whitespace and
// punctuation to single spaces so formatting differences do not register
// as semantic distance.
func normalizeForTrigrams(text string) string {
	var sb strings.Builder
	prevSpace := false
	for _, r := range strings.ToLower(text) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
			prevSpace = false
			continue
		}
		if !prevSpace && sb.Len() > 0 {
			sb.WriteRune(' ')
			prevSpace = true
		}
	}
	return strings.TrimSpace(sb.String())
}

// LocalLookup returns a pairwise similarity function backed by
// TrigramSimilarity. It is used when the semantic provider is "local" or
// when every embedding request failed and the engine degrades gracefully.
func LocalLookup() func(a, b string) (float64, bool) {
	return func(a, b string) (float64, bool) {
		return TrigramSimilarity(a, b), true
	}
}
