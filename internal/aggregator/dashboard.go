package aggregator

import (
	"context"
	"sync"

	"github.com/spacesedan/tickerpulse/internal/models"
)

type BundleSource interface {
	GetBundle(ctx context.Context, term string, window models.Window) models.ResultBundle
}

// Dashboard holds the bundle currently on display. Refreshes may overlap;
// only the most recently started one is allowed to replace the bundle.
type Dashboard struct {
	source BundleSource

	mu      sync.Mutex
	latest  uint64
	current *models.ResultBundle
}

func NewDashboard(source BundleSource) *Dashboard {
	return &Dashboard{source: source}
}

// Begin issues the sequence number for a new refresh.
func (d *Dashboard) Begin() uint64 {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.latest++
	return d.latest
}

// Commit stores bundle if seq is still the newest refresh. It reports
// whether the bundle was accepted.
func (d *Dashboard) Commit(seq uint64, bundle models.ResultBundle) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if seq != d.latest {
		return false
	}
	d.current = &bundle
	return true
}

// Load fetches the bundle for a refresh already issued with Begin and
// commits it. The bundle is returned even when a newer refresh made it stale.
func (d *Dashboard) Load(ctx context.Context, seq uint64, term string, window models.Window) (models.ResultBundle, bool) {
	bundle := d.source.GetBundle(ctx, term, window)
	return bundle, d.Commit(seq, bundle)
}

// Refresh is Begin followed by Load.
func (d *Dashboard) Refresh(ctx context.Context, term string, window models.Window) (models.ResultBundle, bool) {
	return d.Load(ctx, d.Begin(), term, window)
}

func (d *Dashboard) Current() (models.ResultBundle, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.current == nil {
		return models.ResultBundle{}, false
	}
	return *d.current, true
}
