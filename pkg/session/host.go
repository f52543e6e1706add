package session

import (
	"github.com/bastiangx/tagserve/pkg/caret"
)

// Key is a key code delivered by the host.
type Key string

const (
	KeyArrowUp   Key = "ArrowUp"
	KeyArrowDown Key = "ArrowDown"
	KeyEnter     Key = "Enter"
	KeyEscape    Key = "Escape"
)

// Host is the text input the session is attached to.
type Host interface {
	// Text returns the current buffer.
	Text() string
	// Caret returns the caret offset in bytes.
	Caret() int
	// InputWidth returns the input's outer width, 0 while unknown.
	InputWidth() float64
	// SetBufferAndCaret replaces buffer and caret in one step.
	SetBufferAndCaret(text string, caret int)
}

// Measurer supplies the host's font metrics. MeasurePanelWidth is called
// after the panel has been rendered with new content.
type Measurer interface {
	caret.Measurer
	MeasurePanelWidth() (float64, error)
}

// ViewModel is everything a renderer needs to draw the panel.
type ViewModel struct {
	Open        bool
	Suggestions []string
	Active      int
	Geometry    caret.Geometry
	Char        string
	ShowChar    bool
}

// Renderer consumes view-models.
type Renderer interface {
	Render(vm ViewModel)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(vm ViewModel)

func (f RendererFunc) Render(vm ViewModel) { f(vm) }

// BufferHost is an in-memory Host, used by servers and tests that mirror a
// remote input.
type BufferHost struct {
	Buffer string
	Offset int
	Width  float64
	// OnSet is called after SetBufferAndCaret, if set.
	OnSet func(text string, caret int)
}

func (h *BufferHost) Text() string        { return h.Buffer }
func (h *BufferHost) Caret() int          { return h.Offset }
func (h *BufferHost) InputWidth() float64 { return h.Width }

func (h *BufferHost) SetBufferAndCaret(text string, caret int) {
	h.Buffer, h.Offset = text, caret
	if h.OnSet != nil {
		h.OnSet(text, caret)
	}
}

// TerminalMeasurer measures the caret in terminal cells and estimates the
// panel width from the last tracked view-model: the widest row, including
// the trigger char when it is shown.
type TerminalMeasurer struct {
	caret.CellMeasurer
	CellWidth float64
	view      ViewModel
}

// Track records the view-model the panel is rendered from.
func (m *TerminalMeasurer) Track(vm ViewModel) { m.view = vm }

func (m *TerminalMeasurer) MeasurePanelWidth() (float64, error) {
	if !m.view.Open || m.CellWidth <= 0 {
		return 0, caret.ErrUnmeasured
	}
	prefix := ""
	if m.view.ShowChar {
		prefix = m.view.Char
	}
	return float64(caret.TextWidth(m.view.Suggestions, prefix)) * m.CellWidth, nil
}
