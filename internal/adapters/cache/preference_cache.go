package cache

import (
	"context"
	"routenu-service/internal/ports"
	"time"

	"github.com/maypok86/otter/v2"
)

type preferenceEntry struct {
	minutes int
	set     bool
}

// PreferenceCache keeps account preferences in memory for a short TTL.
// Accounts without a preference are cached too.
type PreferenceCache struct {
	next  ports.PreferenceStore
	cache *otter.Cache[string, preferenceEntry]
}

func NewPreferenceCache(next ports.PreferenceStore, ttl time.Duration) *PreferenceCache {
	return &PreferenceCache{
		next: next,
		cache: otter.Must(&otter.Options[string, preferenceEntry]{
			MaximumSize:      10_000,
			ExpiryCalculator: otter.ExpiryWriting[string, preferenceEntry](ttl),
		}),
	}
}

func (p *PreferenceCache) ServiceTime(ctx context.Context, ownerID string) (*int, error) {
	if e, ok := p.cache.GetIfPresent(ownerID); ok {
		return e.ptr(), nil
	}

	v, err := p.next.ServiceTime(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	e := preferenceEntry{}
	if v != nil {
		e = preferenceEntry{minutes: *v, set: true}
	}
	p.cache.Set(ownerID, e)

	return e.ptr(), nil
}

// Drop a cached preference after the account changes it.
func (p *PreferenceCache) Invalidate(ownerID string) {
	p.cache.Invalidate(ownerID)
}

func (e preferenceEntry) ptr() *int {
	if !e.set {
		return nil
	}
	m := e.minutes
	return &m
}
