package processing

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/spacesedan/tickerpulse/internal/models"
)

const (
	MIN_VOLUME   = 500_000
	VOLUME_RANGE = 1_000_000
	// JITTER_RATIO bounds intermediate jitter to this fraction of one
	// interpolation step.
	JITTER_RATIO = 0.5
)

// Synthesizer expands a quote into a plausible price series. The upstream
// only exposes current price and previous close, so every point between the
// two is interpolated.
type Synthesizer struct {
	// Float64 returns a value in [0, 1).
	Float64 func() float64
	Now     func() time.Time
}

func NewSynthesizer() *Synthesizer {
	return &Synthesizer{Float64: rand.Float64, Now: time.Now}
}

// Synthesize returns window-shaped points running from previous close to the
// current price, oldest first.
func (s *Synthesizer) Synthesize(q models.Quote, w models.Window) []models.StockPoint {
	now := s.Now().Unix()

	if q.PreviousClose <= 0 {
		return []models.StockPoint{{Timestamp: now, Price: q.CurrentPrice, Volume: s.volume()}}
	}

	n, spacing := w.SeriesShape()
	step := int64(spacing / time.Second)
	change := q.CurrentPrice - q.PreviousClose
	jitterBound := JITTER_RATIO * math.Abs(change) / float64(n-1)

	points := make([]models.StockPoint, n)
	for i := 0; i < n; i++ {
		price := q.CurrentPrice
		if change != 0 {
			price = q.PreviousClose + change*float64(i)/float64(n-1)
			if i > 0 && i < n-1 {
				if jittered := price + (s.Float64()*2-1)*jitterBound; jittered > 0 {
					price = jittered
				}
			}
		}
		if i == 0 && change != 0 {
			price = q.PreviousClose
		}
		if i == n-1 {
			price = q.CurrentPrice
		}

		points[i] = models.StockPoint{
			Timestamp: now - int64(n-1-i)*step,
			Price:     price,
			Volume:    s.volume(),
		}
	}
	return points
}

func (s *Synthesizer) volume() int64 {
	return MIN_VOLUME + int64(s.Float64()*VOLUME_RANGE)
}
