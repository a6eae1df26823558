// Package similarity implements the mechanical text-equivalence layer used
// by duplicate detection: normalization, synonym folding, negated-antonym
// collapsing and token-set comparison. It runs without any model inference,
// so it is fast and fully deterministic.
package similarity

import (
	"regexp"
	"sort"
	"strings"
)

// synonymGroups treats every word in a group as equivalent. Groups rather
// than pairs guarantee one consistent canonical form per equivalence class
// regardless of iteration order. The canonical form is the lexicographically
// smallest member.
var synonymGroups = [][]string{
	{"decrease", "lower", "reduce"},
	{"hike", "increase", "raise"},
	{"ban", "forbid", "prohibit"},
	{"allow", "enable", "permit"},
	{"build", "construct"},
	{"buy", "purchase"},
	{"end", "stop", "terminate"},
	{"fix", "repair", "resolve"},
	{"beneficial", "good"},
	{"bad", "detrimental", "harmful"},
	{"clever", "intelligent", "smart"},
	{"foolish", "stupid", "unintelligent"},
	{"fast", "quick", "rapid"},
	{"slow", "sluggish"},
	{"rich", "wealthy"},
	{"impoverished", "poor"},
	{"accurate", "true"},
	{"false", "inaccurate", "incorrect"},
	{"tax", "taxation", "taxes"},
}

// stopwords are removed before comparison.
var stopwords = map[string]bool{
	"a": true, "an": true, "the": true, "is": true, "are": true, "was": true,
	"were": true, "be": true, "been": true, "being": true,
	"have": true, "has": true, "had": true, "do": true, "does": true,
	"did": true, "will": true, "would": true, "shall": true,
	"should": true, "may": true, "might": true, "must": true, "can": true,
	"could": true, "not": true, "no": true, "nor": true,
	"so": true, "yet": true, "both": true, "either": true, "neither": true,
	"for": true, "and": true, "but": true, "or": true,
	"as": true, "at": true, "by": true, "in": true, "of": true, "on": true,
	"to": true, "up": true, "it": true, "its": true,
	"this": true, "that": true, "these": true, "those": true, "i": true,
	"we": true, "you": true, "he": true, "she": true, "they": true,
	"them": true, "their": true, "our": true, "your": true, "my": true,
	"his": true, "her": true,
}

// negationWords flip the polarity of the following token.
// "not unintelligent" collapses to the positive form of "unintelligent".
var negationWords = map[string]bool{
	"not": true, "no": true, "never": true, "neither": true, "nor": true,
	"without": true, "un": true, "in": true, "im": true, "dis": true,
	"non": true,
}

// antonymPairs feed negated-antonym detection.
var antonymPairs = [][2]string{
	{"intelligent", "unintelligent"},
	{"intelligent", "stupid"},
	{"smart", "dumb"},
	{"good", "bad"},
	{"good", "evil"},
	{"true", "false"},
	{"correct", "incorrect"},
	{"honest", "dishonest"},
	{"legal", "illegal"},
	{"moral", "immoral"},
	{"possible", "impossible"},
	{"responsible", "irresponsible"},
	{"relevant", "irrelevant"},
	{"effective", "ineffective"},
	{"efficient", "inefficient"},
	{"logical", "illogical"},
	{"rational", "irrational"},
	{"similar", "dissimilar"},
	{"agree", "disagree"},
	{"like", "dislike"},
	{"trust", "distrust"},
	{"approve", "disapprove"},
}

var (
	canonical = make(map[string]string) // word -> smallest member of its group
	antonyms  = make(map[string]string) // word -> its opposite, both directions
	punct     = regexp.MustCompile(`[^\w\s']`)
)

func init() {
	for _, group := range synonymGroups {
		canon := group[0]
		for _, w := range group {
			if w < canon {
				canon = w
			}
		}
		for _, w := range group {
			canonical[w] = canon
		}
	}
	for _, pair := range antonymPairs {
		antonyms[pair[0]] = pair[1]
		antonyms[pair[1]] = pair[0]
	}
}

// Normalize strips text down to its semantically load-bearing tokens:
// lowercase, drop punctuation, remove stopwords, canonicalize synonyms and
// collapse negated antonyms. The result is sorted so word order does not
// affect comparison.
func Normalize(text string) []string {
	text = punct.ReplaceAllString(strings.ToLower(text), " ")
	tokens := strings.Fields(text)

	cleaned := make([]string, 0, len(tokens))
	for i := 0; i < len(tokens); i++ {
		tok := tokens[i]

		// "not unintelligent" -> antonym of the next token, canonicalized.
		// Plain negation of a non-antonym word falls through: handling
		// general negation mechanically is not possible, only the antonym
		// case is safe.
		if negationWords[tok] && i+1 < len(tokens) {
			if opposite, ok := antonyms[tokens[i+1]]; ok {
				if canon, ok := canonical[opposite]; ok {
					cleaned = append(cleaned, canon)
				} else {
					cleaned = append(cleaned, opposite)
				}
				i++
				continue
			}
		}

		if stopwords[tok] {
			continue
		}
		if canon, ok := canonical[tok]; ok {
			cleaned = append(cleaned, canon)
		} else {
			cleaned = append(cleaned, tok)
		}
	}

	sort.Strings(cleaned)
	return cleaned
}
