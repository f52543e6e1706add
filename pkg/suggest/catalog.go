package suggest

import (
	"sync"

	"github.com/charmbracelet/log"
	"github.com/tchap/go-patricia/v2/patricia"
)

// Catalog is an ordered, duplicate-free candidate list. The trie maps each
// display text to its position in source order.
type Catalog struct {
	items []Candidate
	trie  *patricia.Trie
	cache *QueryCache
	mu    sync.RWMutex
}

// NewCatalog builds a catalog from list, dropping repeated display texts.
func NewCatalog(list []Candidate) *Catalog {
	c := &Catalog{
		trie:  patricia.NewTrie(),
		cache: NewQueryCache(defaultCacheSize),
	}
	for _, item := range list {
		c.add(item)
	}
	return c
}

// NewWordCatalog builds a catalog from plain strings.
func NewWordCatalog(words []string) *Catalog {
	return NewCatalog(Words(words))
}

// Add appends a candidate and reports whether it was new.
func (c *Catalog) Add(item Candidate) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	added := c.add(item)
	if added {
		c.cache.Clear()
	}
	return added
}

func (c *Catalog) add(item Candidate) bool {
	if item == nil || item.DisplayText() == "" {
		return false
	}
	if !c.trie.Insert(patricia.Prefix(item.DisplayText()), len(c.items)) {
		log.Debugf("Skipped duplicate candidate '%s'", item.DisplayText())
		return false
	}
	c.items = append(c.items, item)
	return true
}

// Len returns the number of candidates.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Candidates returns a copy of the candidates in source order.
func (c *Catalog) Candidates() []Candidate {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Candidate, len(c.items))
	copy(out, c.items)
	return out
}

// Suggest filters the catalog for query, memoizing results per query. The
// read lock spans lookup and store so an Add cannot interleave and leave a
// stale entry behind.
func (c *Catalog) Suggest(query string, limit int) []Candidate {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if res, ok := c.cache.Get(query, limit); ok {
		return res
	}
	res := Filter(query, c.items, limit)
	c.cache.Put(query, limit, res)
	return res
}

// Stats returns catalog and cache counters.
func (c *Catalog) Stats() map[string]int {
	stats := map[string]int{"candidates": c.Len()}
	for k, v := range c.cache.Stats() {
		stats[k] = v
	}
	return stats
}
