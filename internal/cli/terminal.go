package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/bastiangx/tagserve/pkg/session"
)

// panelView renders view-models as plain terminal lines.
type panelView struct {
	title  lipgloss.Style
	row    lipgloss.Style
	active lipgloss.Style
	dim    lipgloss.Style
	edit   lipgloss.Style
}

func newPanelView(out io.Writer) *panelView {
	r := lipgloss.NewRenderer(out)
	return &panelView{
		title:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("#C4A7E7")),
		row:    r.NewStyle().PaddingLeft(2),
		active: r.NewStyle().PaddingLeft(2).Bold(true).Foreground(lipgloss.Color("75")).SetString("›"),
		dim:    r.NewStyle().Foreground(lipgloss.Color("8")),
		edit:   r.NewStyle().Foreground(lipgloss.Color("#9CCFD8")),
	}
}

func (v *panelView) banner(cfg session.Config) string {
	return v.title.Render("tagserve CLI") + "\n" + v.dim.Render(fmt.Sprintf(
		"trigger %q, min %d, max %d, %s navigation. Type text, or :up :down :enter :esc (Ctrl+C to exit)",
		cfg.Trigger.String(), cfg.Trigger.MinChars, cfg.MaxSuggest, cfg.Mode))
}

func (v *panelView) render(vm session.ViewModel) string {
	if !vm.Open {
		return v.dim.Render("(closed)")
	}
	var b strings.Builder
	b.WriteString(v.dim.Render(fmt.Sprintf("panel left=%.1f top=%.1f, caret %.1f,%.1f",
		vm.Geometry.PanelLeft, vm.Geometry.PanelTop, vm.Geometry.AnchorLeft, vm.Geometry.AnchorTop)))
	for i, s := range vm.Suggestions {
		label := s
		if vm.ShowChar {
			label = vm.Char + s
		}
		b.WriteByte('\n')
		if i == vm.Active {
			b.WriteString(v.active.Render(label))
		} else {
			b.WriteString(v.row.Render(label))
		}
	}
	return b.String()
}

func (v *panelView) applied(text string, caret int) string {
	return v.edit.Render(fmt.Sprintf("applied: %q caret=%d", text, caret))
}

func (v *panelView) muted(s string) string { return v.dim.Render(s) }
