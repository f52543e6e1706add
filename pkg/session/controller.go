/*
Package session drives one suggestion session per attached text input.

The Controller is the single writer of the session state. The host feeds it
text-change and key events in delivery order; every handler runs to
completion, so no locking is needed as long as the host does not call it from
several goroutines.

States:

	Closed    no match, or a match without suggestions
	Matching  a match appeared while closed, suggestions pending (transient)
	Open      a match with at least one suggestion

Text changes recompute the match and suggestions from scratch. Navigation keys
only move the active index. Enter splices the active suggestion into the
buffer and closes, Escape closes without touching the buffer. Keys are only
reported as handled while Open, so hosts keep their default behavior
otherwise.

The caret anchor is measured when the panel opens. The panel placement is
recomputed from that anchor when the suggestion set or the measured panel width
changes, not on every keystroke.
*/
package session

import (
	"slices"

	"github.com/charmbracelet/log"

	"github.com/bastiangx/tagserve/pkg/caret"
	"github.com/bastiangx/tagserve/pkg/navigation"
	"github.com/bastiangx/tagserve/pkg/replace"
	"github.com/bastiangx/tagserve/pkg/suggest"
	"github.com/bastiangx/tagserve/pkg/trigger"
)

// Phase is the controller's state.
type Phase int

const (
	Closed Phase = iota
	Matching
	Open
)

func (p Phase) String() string {
	switch p {
	case Matching:
		return "matching"
	case Open:
		return "open"
	}
	return "closed"
}

// State is a snapshot of the session.
type State struct {
	Phase       Phase
	Match       *trigger.Match
	Suggestions []suggest.Candidate
	Active      int
	Geometry    caret.Geometry
}

// IsOpen reports whether the panel is shown.
func (s State) IsOpen() bool { return s.Phase == Open }

// Option configures a Controller.
type Option func(*Controller)

// WithLogger replaces the default session logger.
func WithLogger(l *log.Logger) Option {
	return func(c *Controller) { c.log = l }
}

// WithDeferredEcho is for hosts that report an applied edit back later as a
// separate text change, e.g. over IPC. The first text change after a
// confirmation that carries exactly the edited text and caret is ignored.
// Without it only an echo delivered during SetBufferAndCaret is ignored.
func WithDeferredEcho() Option {
	return func(c *Controller) { c.deferEcho = true }
}

// Controller owns the session state for one host input.
type Controller struct {
	cfg      Config
	host     Host
	measurer Measurer
	renderer Renderer
	log      *log.Logger

	phase       Phase
	match       *trigger.Match
	text        string
	suggestions []suggest.Candidate
	nav         *navigation.Navigator
	geometry    caret.Geometry
	anchor      caret.Point
	anchorOK    bool
	panelWidth  float64
	panelOK     bool
	shown       bool
	echo        *replace.Edit
	deferEcho   bool
}

// NewController validates cfg and returns a closed session. measurer and
// renderer may be nil.
func NewController(cfg Config, host Host, measurer Measurer, renderer Renderer, opts ...Option) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	c := &Controller{
		cfg:      cfg,
		host:     host,
		measurer: measurer,
		renderer: renderer,
		log:      log.Default().WithPrefix("session"),
		nav:      navigation.New(cfg.Mode, 0),
	}
	for _, opt := range opts {
		opt(c)
	}
	if cfg.Trigger.AcceptSpaces {
		c.log.Warn("accept_spaces is not supported, tokens stop at whitespace")
	}
	return c, nil
}

// Config returns the session configuration.
func (c *Controller) Config() Config { return c.cfg }

// State returns a snapshot of the session state.
func (c *Controller) State() State {
	s := State{
		Phase:       c.phase,
		Suggestions: slices.Clone(c.suggestions),
		Active:      c.nav.Index,
		Geometry:    c.geometry,
	}
	if c.match != nil {
		m := *c.match
		s.Match = &m
	}
	return s
}

// ViewModel builds the renderer input for the current state.
func (c *Controller) ViewModel() ViewModel {
	return ViewModel{
		Open:        c.phase == Open,
		Suggestions: suggest.DisplayTexts(c.suggestions),
		Active:      c.nav.Index,
		Geometry:    c.geometry,
		Char:        c.cfg.Trigger.String(),
		ShowChar:    c.cfg.ShowCharInList,
	}
}

// Reset returns to the initial closed state, as on mount.
func (c *Controller) Reset() {
	c.echo = nil
	c.text = ""
	c.close("reset")
}

// OnTextChange recomputes the match and suggestions for text and caret.
func (c *Controller) OnTextChange(text string, caretOffset int) {
	if c.echo != nil {
		echo := *c.echo
		c.echo = nil
		if echo.Text == text && echo.Caret == caretOffset {
			c.log.Debug("ignored echo of applied edit", "caret", caretOffset)
			return
		}
	}
	c.text = text

	m := c.cfg.Trigger.Match(text, caretOffset)
	if m == nil {
		c.close("no match")
		return
	}

	if c.phase == Closed {
		c.transition(Matching, "match", m.Token)
	}
	list := c.cfg.Provider.Suggest(m.Query(), c.cfg.MaxSuggest)
	if len(list) == 0 {
		c.close("no suggestions")
		return
	}

	same := c.shown && c.match != nil &&
		c.match.Token == m.Token && c.match.Start == m.Start &&
		sameCandidates(c.suggestions, list)
	c.match = m
	if !same {
		c.suggestions = list
		c.nav.Reset(len(list))
	}

	opening := !c.shown
	c.transition(Open, "suggestions", len(list))
	if opening {
		c.measureAnchor()
	}
	if opening || !same {
		c.place()
	}
	c.render()
	c.pullPanelWidth()
}

// OnKeyDown handles a key and reports whether the host must suppress its
// default behavior. Keys are never handled while closed.
func (c *Controller) OnKeyDown(key Key) bool {
	if c.phase != Open {
		return false
	}
	switch key {
	case KeyArrowDown:
		if c.nav.Down() {
			c.render()
		}
		return true
	case KeyArrowUp:
		if c.nav.Up() {
			c.render()
		}
		return true
	case KeyEnter:
		c.confirm()
		return true
	case KeyEscape:
		c.close("cancel")
		return true
	}
	return false
}

// OnPanelResize records a panel width reported by the host and recomputes
// the geometry when it changed.
func (c *Controller) OnPanelResize(width float64) {
	c.setPanelWidth(width, true)
}

func (c *Controller) confirm() {
	if len(c.suggestions) == 0 || c.match == nil {
		c.close("confirm without suggestions")
		return
	}
	chosen := c.suggestions[c.nav.Index]
	edit := replace.Apply(c.text, c.match.Start, c.match.End,
		chosen.InsertText(), c.cfg.Trigger.String(), c.cfg.AddChar)

	c.log.Debug("confirmed suggestion", "suggestion", chosen.DisplayText(), "caret", edit.Caret)
	c.echo = &edit
	c.text = edit.Text
	c.close("confirm")
	if c.host != nil {
		c.host.SetBufferAndCaret(edit.Text, edit.Caret)
	}
	if !c.deferEcho {
		c.echo = nil
	}
}

func (c *Controller) close(reason string) {
	c.match = nil
	c.suggestions = nil
	c.nav.Reset(0)
	c.transition(Closed, "reason", reason)
	if c.shown || reason == "reset" {
		c.render()
	}
}

func (c *Controller) transition(to Phase, keyvals ...any) {
	if c.phase == to {
		return
	}
	c.log.Debug("transition", append([]any{"from", c.phase, "to", to}, keyvals...)...)
	c.phase = to
}

func (c *Controller) measureAnchor() {
	c.anchor, c.anchorOK = caret.Point{}, false
	if c.measurer == nil || c.match == nil {
		return
	}
	p, err := c.measurer.MeasureCaret(c.text, c.match.End, c.cfg.Style)
	if err != nil {
		c.log.Debug("caret measurement failed, using origin", "err", err)
		return
	}
	c.anchor, c.anchorOK = p, true
}

func (c *Controller) pullPanelWidth() {
	if c.measurer == nil {
		return
	}
	w, err := c.measurer.MeasurePanelWidth()
	if err != nil {
		c.log.Debug("panel measurement failed", "err", err)
		c.setPanelWidth(c.panelWidth, false)
		return
	}
	c.setPanelWidth(w, true)
}

func (c *Controller) setPanelWidth(w float64, ok bool) {
	if w == c.panelWidth && ok == c.panelOK {
		return
	}
	c.panelWidth, c.panelOK = w, ok
	if c.phase != Open {
		return
	}
	c.place()
	c.render()
}

func (c *Controller) place() {
	var inputWidth float64
	if c.host != nil {
		inputWidth = c.host.InputWidth()
	}
	c.geometry = caret.Place(caret.Layout{
		Anchor:        c.anchor,
		PanelWidth:    c.panelWidth,
		InputWidth:    inputWidth,
		Rows:          len(c.suggestions),
		RowHeight:     c.cfg.Style.RowHeight,
		LimitToParent: c.cfg.LimitToParent && c.anchorOK && c.panelOK,
	})
}

func (c *Controller) render() {
	vm := c.ViewModel()
	c.shown = vm.Open
	if c.renderer != nil {
		c.renderer.Render(vm)
	}
}

func sameCandidates(a, b []suggest.Candidate) bool {
	return slices.EqualFunc(a, b, func(x, y suggest.Candidate) bool {
		return x.DisplayText() == y.DisplayText() && x.InsertText() == y.InsertText()
	})
}
