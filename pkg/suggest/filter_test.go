package suggest

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFilter(t *testing.T) {
	list := Words([]string{"alice", "bob", "alan", "Alfred", "kalani"})

	testCases := []struct {
		query       string
		max         int
		want        []string
		description string
	}{
		{"al", 5, []string{"alice", "alan", "kalani"}, "containment keeps source order"},
		{"al", 2, []string{"alice", "alan"}, "truncates to max"},
		{"Al", 5, []string{"Alfred"}, "case sensitive"},
		{"", 3, []string{"alice", "bob", "alan"}, "empty query matches all"},
		{"zzz", 5, nil, "no match"},
		{"al", 0, nil, "zero max"},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			got := Filter(tc.query, list, tc.max)
			if tc.want == nil {
				assert.Empty(t, got)
				return
			}
			assert.Equal(t, tc.want, DisplayTexts(got))
		})
	}
}

func TestFilterEmptyAndNil(t *testing.T) {
	assert.Empty(t, Filter("a", nil, 5))
	assert.Empty(t, Filter("a", []Candidate{nil, nil}, 5))
	got := Filter("a", []Candidate{nil, Word("a")}, 5)
	assert.Equal(t, []string{"a"}, DisplayTexts(got))
}

// every result contains the query, respects max and keeps relative order
func TestFilterProperty(t *testing.T) {
	var words []string
	for i := 0; i < 200; i++ {
		words = append(words, fmt.Sprintf("user%03d", i))
	}
	list := Words(words)
	for _, q := range []string{"1", "12", "user", "9", "x"} {
		for _, max := range []int{1, 5, 50} {
			got := Filter(q, list, max)
			assert.LessOrEqual(t, len(got), max)
			last := -1
			for _, c := range got {
				assert.True(t, strings.Contains(c.DisplayText(), q))
				idx := indexOf(words, c.DisplayText())
				assert.Greater(t, idx, last)
				last = idx
			}
			assert.Equal(t, got, Filter(q, list, max))
		}
	}
}

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}

func TestEntry(t *testing.T) {
	e := Entry{Display: "Alice Smith", Insert: "alice"}
	assert.Equal(t, "Alice Smith", e.DisplayText())
	assert.Equal(t, "alice", e.InsertText())
	assert.Equal(t, "bob", Entry{Display: "bob"}.InsertText())
}
