// Package tui is a terminal demo host: a single-line text input with the
// suggestion panel drawn above it.
package tui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/bastiangx/tagserve/pkg/session"
)

const prompt = "> "

// inputHost adapts a textinput to session.Host. The textinput counts runes,
// the session counts bytes.
type inputHost struct {
	input *textinput.Model
	width int
}

func (h *inputHost) Text() string { return h.input.Value() }

func (h *inputHost) Caret() int {
	return byteOffset(h.input.Value(), h.input.Position())
}

func (h *inputHost) InputWidth() float64 { return float64(h.width) }

func (h *inputHost) SetBufferAndCaret(text string, caret int) {
	h.input.SetValue(text)
	h.input.SetCursor(utf8.RuneCountInString(text[:min(max(caret, 0), len(text))]))
}

func byteOffset(s string, runes int) int {
	for i := range s {
		if runes == 0 {
			return i
		}
		runes--
	}
	return len(s)
}

// Model is the bubbletea model of the demo host.
type Model struct {
	input    textinput.Model
	host     *inputHost
	measurer *session.TerminalMeasurer
	ctrl     *session.Controller
	view     session.ViewModel
	styles   styles
}

type styles struct {
	row    lipgloss.Style
	active lipgloss.Style
	help   lipgloss.Style
}

// New builds a focused model for cfg.
func New(cfg session.Config, opts ...session.Option) (*Model, error) {
	m := &Model{
		input:    textinput.New(),
		measurer: &session.TerminalMeasurer{CellWidth: cfg.Style.CellWidth},
		styles: styles{
			row:    lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("236")),
			active: lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("75")).Bold(true),
			help:   lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		},
	}
	m.input.Prompt = prompt
	m.input.Placeholder = fmt.Sprintf("type %s to get suggestions", cfg.Trigger.String())
	m.input.Focus()
	m.host = &inputHost{input: &m.input, width: 80}

	ctrl, err := session.NewController(cfg, m.host, m.measurer, session.RendererFunc(m.render), opts...)
	if err != nil {
		return nil, err
	}
	m.ctrl = ctrl
	return m, nil
}

// Run starts the demo on the terminal.
func Run(cfg session.Config, opts ...session.Option) error {
	m, err := New(cfg, opts...)
	if err != nil {
		return err
	}
	_, err = tea.NewProgram(m).Run()
	return err
}

func (m *Model) render(vm session.ViewModel) {
	m.view = vm
	m.measurer.Track(vm)
}

// Value returns the input text.
func (m *Model) Value() string { return m.input.Value() }

// ViewModel returns the last rendered view-model.
func (m *Model) ViewModel() session.ViewModel { return m.view }

func (m *Model) Init() tea.Cmd { return textinput.Blink }

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.host.width = msg.Width - runewidth.StringWidth(prompt)
		m.input.Width = m.host.width
		return m, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if key, ok := sessionKey(msg); ok && m.ctrl.OnKeyDown(key) {
			return m, nil
		}
		if msg.Type == tea.KeyEsc {
			return m, tea.Quit
		}
	}

	text, pos := m.input.Value(), m.input.Position()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != text || m.input.Position() != pos {
		m.ctrl.OnTextChange(m.input.Value(), m.host.Caret())
	}
	return m, cmd
}

func sessionKey(msg tea.KeyMsg) (session.Key, bool) {
	switch msg.Type {
	case tea.KeyUp:
		return session.KeyArrowUp, true
	case tea.KeyDown:
		return session.KeyArrowDown, true
	case tea.KeyEnter:
		return session.KeyEnter, true
	case tea.KeyEsc:
		return session.KeyEscape, true
	}
	return "", false
}

func (m *Model) View() string {
	var b strings.Builder
	if m.view.Open {
		indent := strings.Repeat(" ", max(0, int(m.view.Geometry.PanelLeft))+runewidth.StringWidth(prompt))
		width := 0
		for _, s := range m.view.Suggestions {
			width = max(width, runewidth.StringWidth(m.label(s)))
		}
		for i, s := range m.view.Suggestions {
			style := m.styles.row
			if i == m.view.Active {
				style = m.styles.active
			}
			b.WriteString(indent + style.Width(width).Render(m.label(s)) + "\n")
		}
	}
	b.WriteString(m.input.View() + "\n")
	b.WriteString(m.styles.help.Render("↑/↓ navigate • enter select • esc close/quit • ctrl+c quit"))
	return b.String()
}

func (m *Model) label(s string) string {
	if m.view.ShowChar {
		return m.view.Char + s
	}
	return s
}
