package rdw

import (
	"sync"
	"time"

	"github.com/autokosten/autokosten-cli/internal/model"
)

// lookupCache is a process-local TTL cache keyed by normalized plate. The
// resolver owns it entirely; nothing else reads or writes it.
type lookupCache struct {
	mu      sync.Mutex
	entries map[string]cacheEntry
}

type cacheEntry struct {
	vehicle *model.Vehicle
	expires time.Time
}

func newLookupCache() *lookupCache {
	return &lookupCache{entries: make(map[string]cacheEntry)}
}

func (lc *lookupCache) get(plate string, now time.Time) (*model.Vehicle, bool) {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	e, ok := lc.entries[plate]
	if !ok {
		return nil, false
	}
	if now.After(e.expires) {
		delete(lc.entries, plate)
		return nil, false
	}
	return e.vehicle, true
}

func (lc *lookupCache) set(plate string, v *model.Vehicle, expires time.Time) {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	lc.entries[plate] = cacheEntry{vehicle: v, expires: expires}
}

func (lc *lookupCache) clear() {
	lc.mu.Lock()
	defer lc.mu.Unlock()
	lc.entries = make(map[string]cacheEntry)
}
