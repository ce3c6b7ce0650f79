package aggregator

import (
	"sort"

	"github.com/spacesedan/tickerpulse/internal/models"
	"github.com/spacesedan/tickerpulse/internal/sentiment"
)

// BuildTimeline returns one point per stock sample. Each article and post is
// counted in the first sample at or after its timestamp; anything newer than
// the last sample lands in the last one.
func BuildTimeline(points []models.StockPoint, articles []models.NewsArticle, posts []models.SocialPost) []models.TimelinePoint {
	timeline := make([]models.TimelinePoint, len(points))
	if len(points) == 0 {
		return timeline
	}
	for i, p := range points {
		timeline[i] = models.TimelinePoint{Timestamp: p.Timestamp, StockPrice: p.Price}
	}

	bucket := func(ts int64) int {
		i := sort.Search(len(points), func(i int) bool { return points[i].Timestamp >= ts })
		if i == len(points) {
			return len(points) - 1
		}
		return i
	}

	for _, a := range articles {
		timeline[bucket(a.PublishedAt.Unix())].NewsCount++
	}

	sums := make([]float64, len(points))
	for _, p := range posts {
		i := bucket(p.CreatedAt.Unix())
		timeline[i].PostCount++
		sums[i] += p.Sentiment
	}
	for i := range timeline {
		if timeline[i].PostCount > 0 {
			timeline[i].AverageSentiment = sentiment.Clamp(sums[i] / float64(timeline[i].PostCount))
		}
	}
	return timeline
}
