package suggest

import "strings"

// Word is a plain string candidate.
type Word string

func (w Word) DisplayText() string { return string(w) }
func (w Word) InsertText() string  { return string(w) }

// Entry is a candidate whose inserted text differs from what is shown.
type Entry struct {
	Display string `toml:"display" msgpack:"d"`
	Insert  string `toml:"insert" msgpack:"i,omitempty"`
}

func (e Entry) DisplayText() string { return e.Display }

// InsertText falls back to Display when no insert text is set.
func (e Entry) InsertText() string {
	if e.Insert == "" {
		return e.Display
	}
	return e.Insert
}

// Words converts plain strings to candidates.
func Words(list []string) []Candidate {
	out := make([]Candidate, len(list))
	for i, s := range list {
		out[i] = Word(s)
	}
	return out
}

// DisplayTexts returns the display text of each candidate.
func DisplayTexts(list []Candidate) []string {
	out := make([]string, len(list))
	for i, c := range list {
		out[i] = c.DisplayText()
	}
	return out
}

// Filter returns the candidates whose display text contains query
// (case-sensitive), in source order, truncated to max entries. Nil
// candidates are skipped and max < 1 yields no suggestions.
func Filter(query string, candidates []Candidate, max int) []Candidate {
	if max < 1 || len(candidates) == 0 {
		return nil
	}
	var out []Candidate
	for _, c := range candidates {
		if c == nil {
			continue
		}
		if !strings.Contains(c.DisplayText(), query) {
			continue
		}
		out = append(out, c)
		if len(out) == max {
			break
		}
	}
	return out
}
