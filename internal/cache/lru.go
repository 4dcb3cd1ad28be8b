package cache

import (
	"container/list"
	"sync"

	"github.com/pakbuypro/title-gateway/internal/metrics"
)

// LRU is a fixed-capacity cache mapping raw titles to cleaned titles.
// A capacity of zero disables caching entirely.
type LRU struct {
	mu    sync.Mutex
	cap   int
	ll    *list.List
	items map[string]*list.Element

	hits   uint64
	misses uint64
}

type entry struct {
	key   string
	value string
}

func New(capacity int) *LRU {
	if capacity < 0 {
		capacity = 0
	}
	return &LRU{
		cap:   capacity,
		ll:    list.New(),
		items: make(map[string]*list.Element),
	}
}

// Get returns the cached cleaned title for key.
// The second return value indicates whether an entry was found.
func (c *LRU) Get(key string) (string, bool) {
	if c.cap == 0 {
		return "", false
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	el, ok := c.items[key]
	if !ok {
		c.misses++
		metrics.CacheLookups.Inc(map[string]string{"result": "miss"})
		return "", false
	}
	c.ll.MoveToFront(el)
	c.hits++
	metrics.CacheLookups.Inc(map[string]string{"result": "hit"})
	return el.Value.(*entry).value, true
}

// Put stores a cleaned title, evicting the least recently used entry
// when the cache is full.
func (c *LRU) Put(key, value string) {
	if c.cap == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if el, ok := c.items[key]; ok {
		c.ll.MoveToFront(el)
		el.Value.(*entry).value = value
		return
	}

	el := c.ll.PushFront(&entry{key: key, value: value})
	c.items[key] = el

	if c.ll.Len() > c.cap {
		oldest := c.ll.Back()
		if oldest != nil {
			c.ll.Remove(oldest)
			delete(c.items, oldest.Value.(*entry).key)
		}
	}
}

// Stats is a point-in-time snapshot for the health endpoint.
type Stats struct {
	Size     int    `json:"cache_size"`
	Capacity int    `json:"cache_capacity"`
	Hits     uint64 `json:"cache_hits"`
	Misses   uint64 `json:"cache_misses"`
}

func (c *LRU) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	return Stats{
		Size:     c.ll.Len(),
		Capacity: c.cap,
		Hits:     c.hits,
		Misses:   c.misses,
	}
}
