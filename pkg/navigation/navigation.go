// Package navigation moves the active suggestion index under the lock and
// infinite traversal policies.
package navigation

import (
	"fmt"
	"strings"
)

// Mode is the traversal policy applied at list boundaries.
type Mode int

const (
	// Infinite wraps around both ends of the list.
	Infinite Mode = iota
	// Lock stops at the first and last item.
	Lock
)

func (m Mode) String() string {
	switch m {
	case Lock:
		return "lock"
	case Infinite:
		return "infinite"
	}
	return fmt.Sprintf("Mode(%d)", int(m))
}

// ParseMode accepts "lock" or "infinite", case-insensitively.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "lock":
		return Lock, nil
	case "infinite", "":
		return Infinite, nil
	}
	return Infinite, fmt.Errorf("unknown navigation mode %q", s)
}

// Navigator holds the active index over a list of Length items.
type Navigator struct {
	Index  int
	Length int
	Mode   Mode
}

// New returns a navigator at index 0.
func New(mode Mode, length int) *Navigator {
	return &Navigator{Mode: mode, Length: max(length, 0)}
}

// Reset moves back to index 0 for a list of the given length.
func (n *Navigator) Reset(length int) {
	n.Index = 0
	n.Length = max(length, 0)
}

// Down advances the index. Lock mode stops at the last item, infinite mode
// wraps to 0. It reports whether the index changed.
func (n *Navigator) Down() bool {
	if n.Length == 0 {
		return false
	}
	old := n.Index
	if n.Index+1 < n.Length {
		n.Index++
	} else if n.Mode == Infinite {
		n.Index = 0
	}
	return old != n.Index
}

// Up moves the index back. Lock mode stops at 0, infinite mode wraps to the
// last item. It reports whether the index changed.
func (n *Navigator) Up() bool {
	if n.Length == 0 {
		return false
	}
	old := n.Index
	if n.Index-1 >= 0 {
		n.Index--
	} else if n.Mode == Infinite {
		n.Index = n.Length - 1
	}
	return old != n.Index
}
