package sentiment

import (
	"math"

	"github.com/spacesedan/tickerpulse/internal/models"
)

const (
	// NeutralBand is the half-width of the neutral zone around 0.
	NeutralBand = 0.1
	// FullConfidencePosts is the post count at which confidence reaches 1.
	FullConfidencePosts = 10
)

// Summarize derives the overall sentiment for a set of posts.
// An empty set yields the all-zero summary.
func Summarize(posts []models.SocialPost) models.SentimentSummary {
	var summary models.SentimentSummary
	if len(posts) == 0 {
		return summary
	}

	var sum float64
	for _, p := range posts {
		s := Clamp(p.Sentiment)
		sum += s
		switch {
		case s > NeutralBand:
			summary.Positive++
		case s < -NeutralBand:
			summary.Negative++
		default:
			summary.Neutral++
		}
	}

	summary.Total = len(posts)
	summary.Sentiment = Clamp(sum / float64(summary.Total))
	summary.Confidence = Confidence(summary.Total)
	return summary
}

// Confidence is min(n/10, 1).
func Confidence(n int) float64 {
	if n <= 0 {
		return 0
	}
	return math.Min(float64(n)/FullConfidencePosts, 1)
}
