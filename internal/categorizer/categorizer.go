// Package categorizer resolves noisy OCR labels to canonical payment types.
package categorizer

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// DefaultThreshold is the similarity a label must strictly exceed to be
// accepted.
const DefaultThreshold = 0.6

// DefaultVocabulary is the built-in list of payment types, in priority order.
var DefaultVocabulary = []string{
	"Egyszeri befizetés",
	"Letétkezelési dij",
	"Kivétel",
	"Osztalék",
}

// Scorer rates how similar two strings are, from 0 (nothing in common) to 1
// (identical).
type Scorer interface {
	Score(a, b string) float64
}

// ScorerFunc adapts a plain function to Scorer.
type ScorerFunc func(a, b string) float64

// Score implements Scorer.
func (f ScorerFunc) Score(a, b string) float64 {
	return f(a, b)
}

// SequenceRatio is the Ratcliff/Obershelp ratio 2*M/T computed over runes,
// where M is the number of matched runes and T the total rune count of both
// strings.
var SequenceRatio Scorer = ScorerFunc(sequenceRatio)

func sequenceRatio(a, b string) float64 {
	if a == "" && b == "" {
		return 1
	}
	return difflib.NewMatcher(splitRunes(a), splitRunes(b)).Ratio()
}

func splitRunes(s string) []string {
	out := make([]string, 0, len(s))
	for _, r := range s {
		out = append(out, string(r))
	}
	return out
}

// TieBreak decides which passing candidate wins when several payment types
// clear the threshold.
type TieBreak string

const (
	// TieBreakFirst picks the first passing payment type in vocabulary order.
	TieBreakFirst TieBreak = "first"
	// TieBreakBest picks the highest score; equal scores fall back to
	// vocabulary order.
	TieBreakBest TieBreak = "best"
)

// ParseTieBreak converts a configuration value to a TieBreak.
func ParseTieBreak(s string) (TieBreak, bool) {
	switch TieBreak(strings.ToLower(strings.TrimSpace(s))) {
	case TieBreakFirst, "":
		return TieBreakFirst, true
	case TieBreakBest:
		return TieBreakBest, true
	default:
		return "", false
	}
}
