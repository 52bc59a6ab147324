package catalog

import (
	"strings"

	"github.com/agnivade/levenshtein"
)

// Scorer computes a normalized similarity in [0, 1] between two vehicle
// names. The scoring algorithm is pluggable; the classifier only depends on
// this interface and its acceptance threshold.
type Scorer interface {
	Score(a, b string) float64
}

// EditDistanceScorer scores by Levenshtein distance normalized over the
// longer input: identical strings score 1.0, fully different strings 0.0.
type EditDistanceScorer struct{}

func (EditDistanceScorer) Score(a, b string) float64 {
	a = strings.ToLower(a)
	b = strings.ToLower(b)
	if a == b {
		return 1.0
	}
	n := len([]rune(a))
	if m := len([]rune(b)); m > n {
		n = m
	}
	if n == 0 {
		return 0
	}
	d := levenshtein.ComputeDistance(a, b)
	return 1 - float64(d)/float64(n)
}

var _ Scorer = EditDistanceScorer{}
