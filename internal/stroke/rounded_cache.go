package stroke

import (
	"sort"
	"sync"

	"github.com/gogpu/strokemesh/internal/attrib"
)

// MinThreshold is the finest rounding threshold ever built; smaller
// requests are served at this threshold.
const MinThreshold = 1e-6

type thresholdEntry struct {
	thresh float64
	data   *attrib.Data
}

// roundedCache holds attribute data of a rounded style at thresholds 1,
// 1/2, 1/4 and so on. Levels are only ever added.
type roundedCache struct {
	mu      sync.Mutex
	entries []thresholdEntry // decreasing thresholds
	build   func(thresh float64) *attrib.Data
}

// fetch returns the coarsest cached data whose threshold is at most t,
// halving the finest level until one is.
func (c *roundedCache) fetch(t float64) *attrib.Data {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.entries) == 0 {
		c.entries = append(c.entries, thresholdEntry{thresh: 1, data: c.build(1)})
	}
	t = max(t, MinThreshold)

	last := c.entries[len(c.entries)-1]
	if last.thresh <= t {
		i := sort.Search(len(c.entries), func(i int) bool { return c.entries[i].thresh <= t })
		return c.entries[i].data
	}
	for th := last.thresh; th > t; {
		th *= 0.5
		c.entries = append(c.entries, thresholdEntry{thresh: th, data: c.build(th)})
	}
	return c.entries[len(c.entries)-1].data
}

// levels returns the cached thresholds, coarsest first.
func (c *roundedCache) levels() []float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]float64, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.thresh
	}
	return out
}
