// Package cli handles cmd line input for debugging trigger sessions in real-time
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/bastiangx/tagserve/pkg/session"
)

// keyCommands maps line commands to the keys they emit.
var keyCommands = map[string]session.Key{
	":up":    session.KeyArrowUp,
	":down":  session.KeyArrowDown,
	":enter": session.KeyEnter,
	":esc":   session.KeyEscape,
}

// InputHandler reads lines from in and feeds them to a session. A plain line
// is the new buffer with the caret at its end; :up, :down, :enter and :esc
// are key presses.
type InputHandler struct {
	ctrl         *session.Controller
	host         *session.BufferHost
	measurer     *session.TerminalMeasurer
	view         *panelView
	in           io.Reader
	out          io.Writer
	requestCount int
}

// NewInputHandler creates a CLI handler for cfg, reading in and printing to out.
func NewInputHandler(cfg session.Config, in io.Reader, out io.Writer, opts ...session.Option) (*InputHandler, error) {
	h := &InputHandler{
		host:     &session.BufferHost{},
		measurer: &session.TerminalMeasurer{CellWidth: cfg.Style.CellWidth},
		view:     newPanelView(out),
		in:       in,
		out:      out,
	}
	h.host.OnSet = func(text string, caret int) {
		fmt.Fprintln(h.out, h.view.applied(text, caret))
	}
	ctrl, err := session.NewController(cfg, h.host, h.measurer, session.RendererFunc(h.render), opts...)
	if err != nil {
		return nil, err
	}
	h.ctrl = ctrl
	return h, nil
}

// Start begins the interface loop. It returns nil when in is exhausted.
func (h *InputHandler) Start() error {
	fmt.Fprintln(h.out, h.view.banner(h.ctrl.Config()))
	reader := bufio.NewReader(h.in)
	for {
		fmt.Fprint(h.out, "> ")
		line, err := reader.ReadString('\n')
		if line != "" {
			h.handleInput(strings.TrimRight(line, "\r\n"))
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
	}
}

// handleInput routes one line to the session.
func (h *InputHandler) handleInput(line string) {
	h.requestCount++
	start := time.Now()
	if key, ok := keyCommands[strings.TrimSpace(line)]; ok {
		handled := h.ctrl.OnKeyDown(key)
		log.Debug("key", "key", key, "handled", handled, "took", time.Since(start))
		if !handled {
			fmt.Fprintln(h.out, h.view.muted(fmt.Sprintf("%s ignored, no suggestions open", key)))
		}
		return
	}
	h.host.Buffer, h.host.Offset = line, len(line)
	h.ctrl.OnTextChange(line, len(line))
	log.Debug("text change", "request", h.requestCount, "took", time.Since(start))
}

func (h *InputHandler) render(vm session.ViewModel) {
	h.measurer.Track(vm)
	fmt.Fprintln(h.out, h.view.render(vm))
}
