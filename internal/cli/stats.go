package cli

import (
	"context"
	"sync/atomic"
	"time"

	"github.com/matzehuels/pagefit/pkg/observability"
)

// placeStats counts what a place run did. It is registered as placement and
// cache hooks for the duration of the run.
type placeStats struct {
	placed    atomic.Int64
	failed    atomic.Int64
	rotated   atomic.Int64
	cacheHits atomic.Int64
}

func (s *placeStats) OnPlaceStart(context.Context, string) {}

func (s *placeStats) OnPlaceComplete(_ context.Context, _ string, rotated bool, _ time.Duration, err error) {
	if err != nil {
		s.failed.Add(1)
		return
	}
	s.placed.Add(1)
	if rotated {
		s.rotated.Add(1)
	}
}

func (s *placeStats) OnCacheHit(context.Context, string)      { s.cacheHits.Add(1) }
func (s *placeStats) OnCacheMiss(context.Context, string)     {}
func (s *placeStats) OnCacheSet(context.Context, string, int) {}

// register installs s and returns a function restoring the no-op hooks.
func (s *placeStats) register() func() {
	observability.SetPlaceHooks(s)
	observability.SetCacheHooks(s)
	return observability.Reset
}
