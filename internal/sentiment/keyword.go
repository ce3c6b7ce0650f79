// Package sentiment turns free text into a bounded score in [-1, 1] and
// aggregates per-post scores into a summary.
package sentiment

import (
	"strings"
	"unicode"
)

// Scorer maps text to a score in [-1, 1]. Implementations never fail.
type Scorer interface {
	Score(text string) float64
}

var positiveWords = map[string]struct{}{
	"buy": {}, "bull": {}, "bullish": {}, "up": {}, "gain": {}, "profit": {},
	"good": {}, "great": {}, "excellent": {}, "strong": {}, "rise": {}, "moon": {},
}

var negativeWords = map[string]struct{}{
	"sell": {}, "bear": {}, "bearish": {}, "down": {}, "loss": {}, "bad": {},
	"terrible": {}, "weak": {}, "drop": {}, "crash": {}, "fall": {},
}

// KeywordScorer counts whole-word occurrences of the fixed keyword lists.
// "up" matches "Up" and "up!" but not "support".
type KeywordScorer struct{}

func (KeywordScorer) Score(text string) float64 {
	pos, neg := CountKeywords(text)
	return Ratio(pos, neg)
}

// CountKeywords returns the number of positive and negative keyword
// occurrences in text.
func CountKeywords(text string) (pos, neg int) {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	for _, w := range words {
		if _, ok := positiveWords[w]; ok {
			pos++
		}
		if _, ok := negativeWords[w]; ok {
			neg++
		}
	}
	return pos, neg
}

// Ratio is (pos - neg) / max(pos + neg, 1), clamped.
func Ratio(pos, neg int) float64 {
	total := pos + neg
	if total < 1 {
		total = 1
	}
	return Clamp(float64(pos-neg) / float64(total))
}

func Clamp(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	if v != v { // NaN
		return 0
	}
	return v
}

// Label buckets a score using the same thresholds as the summary.
func Label(score float64) string {
	switch {
	case score > NeutralBand:
		return "positive"
	case score < -NeutralBand:
		return "negative"
	default:
		return "neutral"
	}
}

// New returns the scorer registered under name, defaulting to keywords.
func New(name string) Scorer {
	if name == "vader" {
		return NewVaderScorer()
	}
	return KeywordScorer{}
}
