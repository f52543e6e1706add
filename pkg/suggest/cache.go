package suggest

import (
	"fmt"
	"math"
	"sync"

	"github.com/charmbracelet/log"
)

const defaultCacheSize = 256

// QueryCache memoizes filter results per (query, limit) and evicts the
// least recently used entry when full.
type QueryCache struct {
	results     map[string][]Candidate
	accessTime  map[string]int64
	accessCount int64
	hits        int
	maxEntries  int
	mu          sync.Mutex
}

func NewQueryCache(maxEntries int) *QueryCache {
	return &QueryCache{
		results:    make(map[string][]Candidate, maxEntries),
		accessTime: make(map[string]int64, maxEntries),
		maxEntries: maxEntries,
	}
}

func cacheKey(query string, limit int) string {
	return fmt.Sprintf("%d\x00%s", limit, query)
}

func (qc *QueryCache) Get(query string, limit int) ([]Candidate, bool) {
	qc.mu.Lock()
	defer qc.mu.Unlock()

	key := cacheKey(query, limit)
	res, ok := qc.results[key]
	if !ok {
		return nil, false
	}
	qc.hits++
	qc.accessTime[key] = qc.nextAccessTime()
	return res, true
}

func (qc *QueryCache) Put(query string, limit int, res []Candidate) {
	qc.mu.Lock()
	defer qc.mu.Unlock()

	if qc.maxEntries < 1 {
		return
	}
	key := cacheKey(query, limit)
	if _, ok := qc.results[key]; !ok && len(qc.results) >= qc.maxEntries {
		qc.evictLRU()
	}
	qc.results[key] = res
	qc.accessTime[key] = qc.nextAccessTime()
}

// Clear drops every entry.
func (qc *QueryCache) Clear() {
	qc.mu.Lock()
	defer qc.mu.Unlock()
	clear(qc.results)
	clear(qc.accessTime)
}

func (qc *QueryCache) Stats() map[string]int {
	qc.mu.Lock()
	defer qc.mu.Unlock()
	return map[string]int{
		"cachedQueries": len(qc.results),
		"maxQueries":    qc.maxEntries,
		"cacheHits":     qc.hits,
	}
}

func (qc *QueryCache) nextAccessTime() int64 {
	qc.accessCount++
	return qc.accessCount
}

func (qc *QueryCache) evictLRU() {
	var oldestKey string
	var oldestTime int64 = math.MaxInt64

	for key, t := range qc.accessTime {
		if t < oldestTime {
			oldestTime = t
			oldestKey = key
		}
	}
	if oldestKey != "" {
		delete(qc.results, oldestKey)
		delete(qc.accessTime, oldestKey)
		log.Debugf("Evicted query %q from cache", oldestKey)
	}
}
