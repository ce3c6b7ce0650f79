package tui

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/spacesedan/tickerpulse/internal/models"
	"github.com/spacesedan/tickerpulse/internal/sentiment"
)

var sparkBlocks = []rune("▁▂▃▄▅▆▇█")

// Windows is the cycle order of the window selector.
var Windows = []models.Window{models.Window1h, models.Window24h, models.Window7d, models.Window30d}

const listItems = 5

// ParseQuery splits "<term> [window]". A trailing token that is a valid
// window selects it; everything before it is the term.
func ParseQuery(line string, def models.Window) (string, models.Window, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", def, fmt.Errorf("enter a ticker or search term")
	}
	if len(fields) > 1 {
		if w, err := models.ParseWindow(fields[len(fields)-1], def); err == nil {
			return strings.Join(fields[:len(fields)-1], " "), w, nil
		}
	}
	return strings.Join(fields, " "), def, nil
}

// NextWindow returns the window after w in the selector.
func NextWindow(w models.Window) models.Window {
	for i, candidate := range Windows {
		if candidate == w {
			return Windows[(i+1)%len(Windows)]
		}
	}
	return models.Window24h
}

// Sparkline renders prices as block characters, resampled to width.
func Sparkline(prices []float64, width int) string {
	if len(prices) == 0 || width < 1 {
		return ""
	}
	if len(prices) > width {
		sampled := make([]float64, width)
		for i := range sampled {
			sampled[i] = prices[i*len(prices)/width]
		}
		sampled[width-1] = prices[len(prices)-1]
		prices = sampled
	}

	lo, hi := math.Inf(1), math.Inf(-1)
	for _, p := range prices {
		lo = math.Min(lo, p)
		hi = math.Max(hi, p)
	}

	var b strings.Builder
	for _, p := range prices {
		idx := 0
		if hi > lo {
			idx = int((p - lo) / (hi - lo) * float64(len(sparkBlocks)-1))
		}
		b.WriteRune(sparkBlocks[idx])
	}
	return b.String()
}

func truncate(s string, n int) string {
	r := []rune(s)
	if n < 4 || len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}

func renderWindows(active models.Window) string {
	parts := make([]string, len(Windows))
	for i, w := range Windows {
		if w == active {
			parts[i] = ActiveWindowStyle.Render(string(w))
		} else {
			parts[i] = WindowStyle.Render(string(w))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func renderPrice(b models.ResultBundle, width int) string {
	var content strings.Builder
	content.WriteString(TitleStyle.Render(fmt.Sprintf("%s  %s", b.Symbol, b.Window)))
	content.WriteString("\n")

	if b.Error != nil {
		content.WriteString(NegativeStyle.Render(fmt.Sprintf("%s: %s", b.Error.Kind, b.Error.Message)))
		return PanelStyle.Width(width).Render(content.String())
	}
	if len(b.StockPoints) == 0 {
		content.WriteString(MutedStyle.Render("No price data"))
		return PanelStyle.Width(width).Render(content.String())
	}

	first := b.StockPoints[0].Price
	last := b.StockPoints[len(b.StockPoints)-1].Price
	style := PositiveStyle
	arrow := "↑"
	if last < first {
		style = NegativeStyle
		arrow = "↓"
	}
	change := 0.0
	if first != 0 {
		change = (last - first) / first * 100
	}

	prices := make([]float64, len(b.StockPoints))
	for i, p := range b.StockPoints {
		prices[i] = p.Price
	}

	content.WriteString(fmt.Sprintf("$%.2f ", last))
	content.WriteString(style.Render(fmt.Sprintf("%s %.2f%%", arrow, math.Abs(change))))
	content.WriteString("\n")
	content.WriteString(style.Render(Sparkline(prices, width-4)))
	return PanelStyle.Width(width).Render(content.String())
}

func renderSentiment(b models.ResultBundle, width int) string {
	s := b.Sentiment
	label := sentiment.Label(s.Sentiment)

	var content strings.Builder
	content.WriteString(TitleStyle.Render("Sentiment"))
	content.WriteString("\n")
	content.WriteString(labelStyle(label).Render(fmt.Sprintf("%s %+.2f", label, s.Sentiment)))
	content.WriteString(MutedStyle.Render(fmt.Sprintf("  confidence %.0f%%", s.Confidence*100)))
	content.WriteString("\n")
	content.WriteString(fmt.Sprintf("%s  %s  %s  of %d posts",
		PositiveStyle.Render(fmt.Sprintf("+%d", s.Positive)),
		NegativeStyle.Render(fmt.Sprintf("-%d", s.Negative)),
		NeutralStyle.Render(fmt.Sprintf("=%d", s.Neutral)),
		s.Total))
	return PanelStyle.Width(width).Render(content.String())
}

func renderNews(articles []models.NewsArticle, width int) string {
	var content strings.Builder
	content.WriteString(TitleStyle.Render(fmt.Sprintf("News (%d)", len(articles))))
	if len(articles) == 0 {
		content.WriteString("\n")
		content.WriteString(MutedStyle.Render("No articles"))
	}
	for i, a := range articles {
		if i == listItems {
			break
		}
		content.WriteString("\n")
		content.WriteString(truncate(a.Title, width-4))
		content.WriteString("\n")
		content.WriteString(MutedStyle.Render(truncate(fmt.Sprintf("  %s · %s", a.Source.Name, a.PublishedAt.Format("Jan 2 15:04")), width-4)))
	}
	return PanelStyle.Width(width).Render(content.String())
}

func renderPosts(b models.ResultBundle, width int) string {
	var content strings.Builder
	content.WriteString(TitleStyle.Render(fmt.Sprintf("Social (%d)", len(b.Posts))))
	switch {
	case b.SocialBlocked:
		content.WriteString("\n")
		content.WriteString(WarningStyle.Render("Social sources are blocked right now"))
	case len(b.Posts) == 0:
		content.WriteString("\n")
		content.WriteString(MutedStyle.Render("No posts"))
	}
	for i, p := range b.Posts {
		if i == listItems {
			break
		}
		content.WriteString("\n")
		content.WriteString(labelStyle(p.SentimentLabel).Render(fmt.Sprintf("%+.2f ", p.Sentiment)))
		content.WriteString(truncate(p.Text, width-10))
		content.WriteString("\n")
		content.WriteString(MutedStyle.Render(fmt.Sprintf("  %s · %d pts", p.Source, p.Score)))
	}
	return PanelStyle.Width(width).Render(content.String())
}

// RenderBundle lays the bundle out in two columns.
func RenderBundle(b models.ResultBundle, width int) string {
	if width < 40 {
		width = 40
	}
	col := width/2 - 2

	left := lipgloss.JoinVertical(lipgloss.Left, renderPrice(b, col), renderSentiment(b, col))
	right := lipgloss.JoinVertical(lipgloss.Left, renderNews(b.Articles, col), renderPosts(b, col))
	return lipgloss.JoinHorizontal(lipgloss.Top, left, right)
}
