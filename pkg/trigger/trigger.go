// Package trigger detects the trigger-anchored token that ends at the caret.
//
// A token is the trigger character followed by a run of non-whitespace
// characters, none of which is another unescaped trigger character. Only a
// token ending exactly at the caret counts; trigger characters earlier in the
// buffer are ignored. Matching is recomputed from scratch on every call.
package trigger

import (
	"errors"
	"fmt"
)

const escapeChar = '\\'

var (
	ErrInvalidChar     = errors.New("trigger: character must be a single printable, non-space byte")
	ErrInvalidMinChars = errors.New("trigger: min chars must be at least 1")
)

// Trigger is the immutable trigger configuration.
type Trigger struct {
	// Char opens a suggestion session, e.g. '#'.
	Char byte
	// MinChars is the minimum token length, trigger included.
	MinChars int
	// AcceptSpaces is carried for configuration parity only; tokens always
	// stop at whitespace.
	AcceptSpaces bool
}

// Match is the token found before the caret. End always equals the caret
// offset the match was computed for.
type Match struct {
	Token string
	Start int
	End   int
}

// Query returns the token with the leading trigger character stripped.
func (m Match) Query() string {
	if len(m.Token) == 0 {
		return ""
	}
	return m.Token[1:]
}

// Len returns the token length in bytes.
func (m Match) Len() int {
	return m.End - m.Start
}

// New builds a validated Trigger from a one-character string.
func New(char string, minChars int) (Trigger, error) {
	if len(char) != 1 {
		return Trigger{}, fmt.Errorf("%w: got %q", ErrInvalidChar, char)
	}
	t := Trigger{Char: char[0], MinChars: minChars}
	if err := t.Validate(); err != nil {
		return Trigger{}, err
	}
	return t, nil
}

// Validate checks the invariants of the configuration.
func (t Trigger) Validate() error {
	if t.Char <= ' ' || t.Char >= 0x7f || t.Char == escapeChar {
		return fmt.Errorf("%w: got %q", ErrInvalidChar, t.Char)
	}
	if t.MinChars < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidMinChars, t.MinChars)
	}
	return nil
}

// String returns the trigger character as a string.
func (t Trigger) String() string {
	return string(t.Char)
}

// Match scans text[:caret] backwards for the token ending at the caret.
// It returns nil when the caret is out of range, when whitespace or the
// start of the buffer is reached before an unescaped trigger, or when the
// token is shorter than MinChars.
func (t Trigger) Match(text string, caret int) *Match {
	if caret < 0 || caret > len(text) {
		return nil
	}
	for i := caret - 1; i >= 0; i-- {
		c := text[i]
		if isSpace(c) {
			return nil
		}
		if c != t.Char || escaped(text, i) {
			continue
		}
		if caret-i < t.MinChars {
			return nil
		}
		return &Match{Token: text[i:caret], Start: i, End: caret}
	}
	return nil
}

// escaped reports whether text[i] is preceded by an odd run of escape chars.
func escaped(text string, i int) bool {
	n := 0
	for j := i - 1; j >= 0 && text[j] == escapeChar; j-- {
		n++
	}
	return n%2 == 1
}

func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\v', '\f':
		return true
	}
	return false
}
