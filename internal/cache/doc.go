// Package cache keeps derived geometry, such as tessellations of a path at
// several thresholds, with least recently used eviction.
//
//	c := cache.New[key, *geometry](8)
//	g := c.GetOrCreate(k, func() *geometry { return build(k) })
//
// A Cache is safe for concurrent use and must not be copied.
package cache
