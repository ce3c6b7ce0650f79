package models

import (
	"time"

	"github.com/spacesedan/tickerpulse/internal/errs"
)

// Window is the requested lookback period. It controls both the range of
// data fetched and the density of a synthesized price series.
type Window string

const (
	Window1h  Window = "1h"
	Window24h Window = "24h"
	Window7d  Window = "7d"
	Window30d Window = "30d"
)

// ParseWindow returns def for an empty string.
func ParseWindow(s string, def Window) (Window, error) {
	if s == "" {
		return def, nil
	}
	w := Window(s)
	switch w {
	case Window1h, Window24h, Window7d, Window30d:
		return w, nil
	}
	return "", errs.InvalidInput("timeRange must be one of 1h, 24h, 7d, 30d")
}

// Duration is the full lookback span.
func (w Window) Duration() time.Duration {
	switch w {
	case Window1h:
		return time.Hour
	case Window7d:
		return 7 * 24 * time.Hour
	case Window30d:
		return 30 * 24 * time.Hour
	default:
		return 24 * time.Hour
	}
}

// SeriesShape is the fixed point count and spacing of a synthesized series.
func (w Window) SeriesShape() (count int, spacing time.Duration) {
	switch w {
	case Window1h:
		return 12, 5 * time.Minute
	case Window7d:
		return 28, 6 * time.Hour
	case Window30d:
		return 30, 24 * time.Hour
	default:
		return 24, time.Hour
	}
}

// RedditTimeFilter maps the window onto Reddit's "t" search parameter.
func (w Window) RedditTimeFilter() string {
	switch w {
	case Window1h:
		return "hour"
	case Window7d:
		return "week"
	case Window30d:
		return "month"
	default:
		return "day"
	}
}
