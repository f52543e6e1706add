package suggest

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogDedup(t *testing.T) {
	c := NewWordCatalog([]string{"alice", "bob", "alice", "", "alan"})
	assert.Equal(t, 3, c.Len())
	assert.Equal(t, []string{"alice", "bob", "alan"}, DisplayTexts(c.Candidates()))

	assert.False(t, c.Add(Word("bob")))
	assert.True(t, c.Add(Word("bea")))
	assert.Equal(t, 4, c.Len())
}

func TestCatalogSuggestKeepsFirstOfRepeated(t *testing.T) {
	c := NewCatalog([]Candidate{Word("al"), Entry{Display: "al", Insert: "other"}, Word("alx")})
	got := c.Suggest("al", 5)
	assert.Equal(t, []string{"al", "alx"}, DisplayTexts(got))
	assert.Equal(t, "al", got[0].InsertText())
}

func TestCatalogConcurrentAdd(t *testing.T) {
	c := NewWordCatalog([]string{"al0"})
	var wg sync.WaitGroup
	for i := 1; i <= 50; i++ {
		i := i // per-iteration copy; go directive is 1.21 (pre-1.22 loop semantics)
		wg.Add(2)
		go func() {
			defer wg.Done()
			c.Add(Word(fmt.Sprintf("al%d", i)))
		}()
		go func() {
			defer wg.Done()
			c.Suggest("al", 100)
		}()
	}
	wg.Wait()
	assert.Len(t, c.Suggest("al", 100), 51, "no stale cached result survives an Add")
}

func TestCatalogSuggestCaches(t *testing.T) {
	c := NewWordCatalog([]string{"alice", "bob", "alan"})
	first := c.Suggest("al", 5)
	second := c.Suggest("al", 5)
	assert.Equal(t, []string{"alice", "alan"}, DisplayTexts(first))
	assert.Equal(t, first, second)
	assert.Equal(t, 1, c.Stats()["cacheHits"])

	// a mutation invalidates cached results
	c.Add(Word("alfie"))
	assert.Equal(t, []string{"alice", "alan", "alfie"}, DisplayTexts(c.Suggest("al", 5)))
	assert.Equal(t, 4, c.Stats()["candidates"])
}

func TestQueryCacheEviction(t *testing.T) {
	qc := NewQueryCache(3)
	for i := 0; i < 3; i++ {
		qc.Put(fmt.Sprint(i), 5, Words([]string{fmt.Sprint(i)}))
	}
	// touch 0 so 1 becomes the oldest
	_, ok := qc.Get("0", 5)
	require.True(t, ok)

	qc.Put("3", 5, nil)
	_, ok = qc.Get("1", 5)
	assert.False(t, ok)
	_, ok = qc.Get("0", 5)
	assert.True(t, ok)
	assert.Equal(t, 3, qc.Stats()["cachedQueries"])

	_, ok = qc.Get("0", 4)
	assert.False(t, ok, "limit is part of the key")
}
