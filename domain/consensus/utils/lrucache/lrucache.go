package lrucache

import (
	"github.com/spreadcoin/spreadd/domain/consensus/model/externalapi"
)

// LRUCache is a least-recently-used cache for block headers
// indexed by their hash
type LRUCache struct {
	cache    map[externalapi.DomainHash]*externalapi.BlockHeader
	capacity int
}

// New creates a new LRUCache
func New(capacity int) *LRUCache {
	return &LRUCache{
		cache:    make(map[externalapi.DomainHash]*externalapi.BlockHeader, capacity+1),
		capacity: capacity,
	}
}

// Add adds an entry to the LRUCache
func (c *LRUCache) Add(key *externalapi.DomainHash, value *externalapi.BlockHeader) {
	c.cache[*key] = value

	if len(c.cache) > c.capacity {
		c.evictRandom()
	}
}

// Get returns the entry for the given key, or (nil, false) otherwise
func (c *LRUCache) Get(key *externalapi.DomainHash) (*externalapi.BlockHeader, bool) {
	value, ok := c.cache[*key]
	if !ok {
		return nil, false
	}
	return value, true
}

// Has returns whether the LRUCache contains the given key
func (c *LRUCache) Has(key *externalapi.DomainHash) bool {
	_, ok := c.cache[*key]
	return ok
}

func (c *LRUCache) evictRandom() {
	for key := range c.cache {
		delete(c.cache, key)
		return
	}
}
