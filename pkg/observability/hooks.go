// Package observability lets callers observe placement and conversion
// without pagefit depending on a metrics backend.
//
// Hooks are registered once at startup; library code reports events
// through the registered hooks, which default to no-ops:
//
//	observability.SetCacheHooks(stats)
//	...
//	observability.Cache().OnCacheHit(ctx, "pdf")
package observability

import (
	"context"
	"sync"
	"time"
)

// PlaceHooks receives one event pair per placed input file.
type PlaceHooks interface {
	OnPlaceStart(ctx context.Context, input string)
	OnPlaceComplete(ctx context.Context, input string, rotated bool, duration time.Duration, err error)
}

// ConvertHooks receives events from the PDF/PNG converter. Conversions
// served from the cache do not reach OnConvert.
type ConvertHooks interface {
	OnConvert(ctx context.Context, format string, size int, duration time.Duration, err error)
}

// CacheHooks receives events from the conversion cache. The key type is
// the output format.
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// NoopPlaceHooks ignores all events.
type NoopPlaceHooks struct{}

func (NoopPlaceHooks) OnPlaceStart(context.Context, string)                                {}
func (NoopPlaceHooks) OnPlaceComplete(context.Context, string, bool, time.Duration, error) {}

// NoopConvertHooks ignores all events.
type NoopConvertHooks struct{}

func (NoopConvertHooks) OnConvert(context.Context, string, int, time.Duration, error) {}

// NoopCacheHooks ignores all events.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

var (
	hooksMu      sync.RWMutex
	placeHooks   PlaceHooks   = NoopPlaceHooks{}
	convertHooks ConvertHooks = NoopConvertHooks{}
	cacheHooks   CacheHooks   = NoopCacheHooks{}
)

// SetPlaceHooks registers h. Nil is ignored.
func SetPlaceHooks(h PlaceHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		placeHooks = h
	}
}

// SetConvertHooks registers h. Nil is ignored.
func SetConvertHooks(h ConvertHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		convertHooks = h
	}
}

// SetCacheHooks registers h. Nil is ignored.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// Place returns the registered placement hooks.
func Place() PlaceHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return placeHooks
}

// Convert returns the registered converter hooks.
func Convert() ConvertHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return convertHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// Reset restores the no-op hooks.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	placeHooks = NoopPlaceHooks{}
	convertHooks = NoopConvertHooks{}
	cacheHooks = NoopCacheHooks{}
}
