// Copyright 2021 The httpx Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package imagecache

import (
	"image"
	"sync"

	"github.com/golang/groupcache/lru"
)

// DefaultCapacity is the cost limit, in bytes, of the Shared cache.
const DefaultCapacity = 10 * 1024 * 1024

// Shared is the process-wide cache used by a Downloader with a nil
// Cache.
var Shared = NewMemoryCache(DefaultCapacity)

// A Cache stores decoded images by URL. Implementations must be safe
// for concurrent use.
type Cache interface {
	// Image returns the image cached for url, if any.
	Image(url string) (image.Image, bool)
	// SetImage stores img for url, replacing any previous image.
	SetImage(url string, img image.Image)
}

// A MemoryCache is a Cache holding images in memory up to a total cost
// limit. The cost of an image is the size of its decoded pixel data at
// four bytes per pixel. When the limit is exceeded, the least recently
// used images are evicted until the total is back within the limit.
type MemoryCache struct {
	lock     sync.Mutex
	lru      *lru.Cache
	cost     int
	capacity int
}

type cacheEntry struct {
	img  image.Image
	cost int
}

// NewMemoryCache returns an empty MemoryCache with the given cost limit
// in bytes.
func NewMemoryCache(capacity int) *MemoryCache {
	c := &MemoryCache{
		lru:      lru.New(0),
		capacity: capacity,
	}
	c.lru.OnEvicted = func(_ lru.Key, value interface{}) {
		c.cost -= value.(cacheEntry).cost
	}
	return c
}

// Image returns the image cached for url, marking it as recently used.
func (c *MemoryCache) Image(url string) (image.Image, bool) {
	c.lock.Lock()
	defer c.lock.Unlock()
	v, ok := c.lru.Get(url)
	if !ok {
		return nil, false
	}
	return v.(cacheEntry).img, true
}

// SetImage stores img for url. An image whose cost alone exceeds the
// capacity is not retained, and any image previously cached for url is
// removed.
func (c *MemoryCache) SetImage(url string, img image.Image) {
	e := cacheEntry{img: img, cost: Cost(img)}
	c.lock.Lock()
	defer c.lock.Unlock()
	if e.cost > c.capacity {
		c.lru.Remove(url)
		return
	}
	if old, ok := c.lru.Get(url); ok {
		c.cost -= old.(cacheEntry).cost
	}
	c.lru.Add(url, e)
	c.cost += e.cost
	for c.cost > c.capacity && c.lru.Len() > 0 {
		c.lru.RemoveOldest()
	}
}

// Len returns the number of cached images.
func (c *MemoryCache) Len() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.lru.Len()
}

// Cost returns the total cost of the cached images.
func (c *MemoryCache) Cost() int {
	c.lock.Lock()
	defer c.lock.Unlock()
	return c.cost
}

// Cost returns the cache cost of img: four bytes per pixel, i.e. the
// byte length of one row times the number of rows.
func Cost(img image.Image) int {
	if img == nil {
		return 0
	}
	b := img.Bounds()
	return 4 * b.Dx() * b.Dy()
}
