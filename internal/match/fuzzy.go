package match

import (
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
)

// Outcome is the thresholded result of a company comparison.
type Outcome int

const (
	// None means the score fell below the low threshold.
	None Outcome = iota
	// Ambiguous means the score landed between the thresholds; a human
	// should look at the pair.
	Ambiguous
	// Confident means the score reached the high threshold.
	Confident
)

// Matcher scores company-key pairs against configured thresholds.
type Matcher struct {
	High float64
	Low  float64
}

// NewMatcher returns a Matcher with the given thresholds.
func NewMatcher(high, low float64) *Matcher {
	return &Matcher{High: high, Low: low}
}

// Classify scores two company keys and buckets the result.
func (m *Matcher) Classify(keyA, keyB string) (Outcome, float64) {
	score := Similarity(keyA, keyB)
	return m.Outcome(score), score
}

// Outcome buckets an already-computed score. The high threshold is
// inclusive, as is the low threshold on its lower edge.
func (m *Matcher) Outcome(score float64) Outcome {
	switch {
	case score >= m.High:
		return Confident
	case score >= m.Low:
		return Ambiguous
	default:
		return None
	}
}

// Similarity computes a score in [0,1] between two normalized company keys.
// It takes the better of a token-set Jaccard similarity and a normalized
// edit-distance ratio over token-sorted keys, so the measure is insensitive
// to word order ("acme solutions" vs "solutions acme") while still crediting
// near-identical spellings. Empty keys never match.
func Similarity(keyA, keyB string) float64 {
	if keyA == "" || keyB == "" {
		return 0
	}
	if keyA == keyB {
		return 1
	}

	j := jaccard(strings.Fields(keyA), strings.Fields(keyB))
	l := levenshteinRatio(sortedTokens(keyA), sortedTokens(keyB))
	if j > l {
		return j
	}
	return l
}

func jaccard(tokensA, tokensB []string) float64 {
	setA := make(map[string]bool, len(tokensA))
	for _, t := range tokensA {
		setA[t] = true
	}
	setB := make(map[string]bool, len(tokensB))
	for _, t := range tokensB {
		setB[t] = true
	}

	intersection := 0
	for t := range setA {
		if setB[t] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return 0
	}
	return float64(intersection) / float64(union)
}

func levenshteinRatio(a, b string) float64 {
	longest := len([]rune(a))
	if n := len([]rune(b)); n > longest {
		longest = n
	}
	if longest == 0 {
		return 0
	}
	d := levenshtein.ComputeDistance(a, b)
	return 1 - float64(d)/float64(longest)
}

func sortedTokens(key string) string {
	tokens := strings.Fields(key)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}
