package utils

import (
	"bytes"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCollectorConcurrentAdd(t *testing.T) {
	c := NewCollector[int](4)

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.Add(i)
		}()
	}
	wg.Wait()

	assert.Equal(t, 50, c.Len())
	assert.Len(t, c.Drain(), 50)
	assert.Equal(t, 0, c.Len())
}

func TestUniqueByKeepsFirst(t *testing.T) {
	type item struct{ key, val string }
	got := UniqueBy([]item{{"a", "1"}, {"b", "2"}, {"a", "3"}, {"A", "4"}}, func(i item) string { return i.key })

	assert.Equal(t, []item{{"a", "1"}, {"b", "2"}, {"A", "4"}}, got)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, []int{1, 2}, Truncate([]int{1, 2, 3}, 2))
	assert.Equal(t, []int{1}, Truncate([]int{1}, 10))
}

func TestCollectorLogCollected(t *testing.T) {
	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })

	var buf bytes.Buffer
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))

	c := NewCollector[string](2)
	c.Add("a")
	c.Add("b")
	c.LogCollected("outcome")

	out := buf.String()
	assert.Contains(t, out, "[Collector] Collected results")
	assert.Contains(t, out, "type=outcome")
	assert.Contains(t, out, "count=2")
	assert.Equal(t, 2, c.Len(), "logging does not drain")
}
