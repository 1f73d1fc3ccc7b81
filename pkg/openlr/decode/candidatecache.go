package decode

import (
	"sync"

	"github.com/NERVsystems/openlr-dereferencer/pkg/openlr/model"
	"github.com/NERVsystems/openlr-dereferencer/pkg/openlr/monitoring"
)

// candidateCache memoizes nomination results by LRP index for the lifetime
// of a single Decode call, adapted from the module family's TTLCache
// (pkg/cache.TTLCache): same map-behind-a-mutex shape, but without the
// expiration/cleanup-goroutine machinery a call-scoped cache has no use for
// -- a decode call lives milliseconds, not hours. Candidate lists for a
// given LRP index depend only on that LRP and the isLast flag, never on
// which upstream candidate the tail matcher currently has chosen, so a
// cache hit here is exactly the case spec.md §9 calls out: backtracking
// revisits a later LRP's candidate set without needing to re-run
// FindLinesCloseTo against the map reader.
type candidateCache struct {
	mu    sync.Mutex
	items map[int][]model.Candidate
	name  string
}

func newCandidateCache(name string) *candidateCache {
	return &candidateCache{items: make(map[int][]model.Candidate), name: name}
}

func (c *candidateCache) get(lrpIndex int) ([]model.Candidate, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	cands, ok := c.items[lrpIndex]
	if ok {
		monitoring.CandidateCacheHits.WithLabelValues(c.name).Inc()
	} else {
		monitoring.CandidateCacheMisses.WithLabelValues(c.name).Inc()
	}
	return cands, ok
}

func (c *candidateCache) set(lrpIndex int, cands []model.Candidate) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[lrpIndex] = cands
}
