// Package replace splices a chosen suggestion into the text buffer.
package replace

// Edit is a buffer and caret pair applied to the host in one step.
type Edit struct {
	Text  string
	Caret int
}

// Apply replaces text[start:end] with the suggestion, prefixed by char when
// addChar is set, and puts the caret right after the inserted text.
// Offsets outside the buffer are clamped so the result is always defined.
func Apply(text string, start, end int, suggestion, char string, addChar bool) Edit {
	end = min(max(end, 0), len(text))
	start = min(max(start, 0), end)

	insert := suggestion
	if addChar {
		insert = char + suggestion
	}
	pre := text[:start] + insert
	return Edit{Text: pre + text[end:], Caret: len(pre)}
}
