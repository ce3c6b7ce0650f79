package tui

import (
	"context"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spacesedan/tickerpulse/internal/aggregator"
	"github.com/spacesedan/tickerpulse/internal/models"
)

type echoSource struct{}

func (echoSource) GetBundle(_ context.Context, term string, w models.Window) models.ResultBundle {
	return models.ResultBundle{
		Term:   term,
		Symbol: term,
		Window: w,
		StockPoints: []models.StockPoint{
			{Timestamp: 1, Price: 145},
			{Timestamp: 2, Price: 150},
		},
		Posts:       []models.SocialPost{{Text: "to the moon", Sentiment: 1, SentimentLabel: "positive", Source: "r/stocks"}},
		Sentiment:   models.SentimentSummary{Sentiment: 1, Confidence: 0.1, Total: 1, Positive: 1},
		GeneratedAt: time.Date(2024, 6, 3, 12, 0, 0, 0, time.UTC),
	}
}

func TestParseQuery(t *testing.T) {
	term, w, err := ParseQuery("  AAPL  ", models.Window7d)
	require.NoError(t, err)
	assert.Equal(t, "AAPL", term)
	assert.Equal(t, models.Window7d, w)

	term, w, err = ParseQuery("apple inc 1h", models.Window7d)
	require.NoError(t, err)
	assert.Equal(t, "apple inc", term)
	assert.Equal(t, models.Window1h, w)

	term, w, err = ParseQuery("1h", models.Window24h)
	require.NoError(t, err)
	assert.Equal(t, "1h", term, "a lone token is always the term")
	assert.Equal(t, models.Window24h, w)

	_, _, err = ParseQuery("   ", models.Window24h)
	assert.Error(t, err)
}

func TestNextWindowCycles(t *testing.T) {
	assert.Equal(t, models.Window24h, NextWindow(models.Window1h))
	assert.Equal(t, models.Window1h, NextWindow(models.Window30d))
}

func TestSparkline(t *testing.T) {
	assert.Equal(t, "▁█", Sparkline([]float64{1, 2}, 10))
	assert.Equal(t, "▁▁▁", Sparkline([]float64{5, 5, 5}, 10))
	assert.Len(t, []rune(Sparkline(make([]float64, 30), 12)), 12)
	assert.Equal(t, "", Sparkline(nil, 10))
}

func TestModelDropsStaleResult(t *testing.T) {
	d := aggregator.NewDashboard(echoSource{})
	m := NewModel(d, time.Second)

	m.input.SetValue("AAPL")
	_, first := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, first)

	m.input.SetValue("MSFT 1h")
	_, second := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, second)
	assert.Equal(t, 2, m.pending)

	// the newer refresh finishes first
	secondMsg := second().(bundleMsg)
	m.Update(secondMsg)
	assert.True(t, secondMsg.committed)

	firstMsg := first().(bundleMsg)
	m.Update(firstMsg)
	assert.False(t, firstMsg.committed)
	assert.Contains(t, m.status, "Dropped stale result for AAPL")
	assert.Equal(t, 0, m.pending)

	cur, ok := d.Current()
	require.True(t, ok)
	assert.Equal(t, "MSFT", cur.Term)
	assert.Equal(t, models.Window1h, cur.Window)
	assert.Contains(t, m.View(), "MSFT")
}

func TestModelWindowKeyRefreshes(t *testing.T) {
	m := NewModel(aggregator.NewDashboard(echoSource{}), time.Second)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Nil(t, cmd, "nothing to refresh before the first search")
	assert.Equal(t, models.Window30d, m.window)

	m.input.SetValue("TSLA")
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m.Update(cmd())

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	require.NotNil(t, cmd)
	msg := cmd().(bundleMsg)
	assert.True(t, msg.committed)
	assert.Equal(t, models.Window1h, msg.bundle.Window)
}

func TestRenderBundleStates(t *testing.T) {
	b := echoSource{}.GetBundle(context.Background(), "AAPL", models.Window24h)
	out := RenderBundle(b, 100)
	assert.Contains(t, out, "AAPL")
	assert.Contains(t, out, "$150.00")
	assert.Contains(t, out, "to the moon")

	b.Error = &models.BundleError{Kind: "not_found", Message: "no data found for symbol AAPL"}
	b.StockPoints = nil
	b.SocialBlocked = true
	b.Posts = nil
	out = RenderBundle(b, 100)
	assert.Contains(t, out, "not_found")
	assert.Contains(t, out, "blocked")
}
