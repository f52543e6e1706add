package server

import (
	"github.com/bastiangx/tagserve/pkg/caret"
	"github.com/bastiangx/tagserve/pkg/session"
)

// field mirrors one remote input. It is the session's host, measurer and
// renderer at once.
type field struct {
	id    string
	host  *session.BufferHost
	ctrl  *session.Controller
	cells session.TerminalMeasurer

	view       session.ViewModel
	coords     *caret.Point
	panelWidth float64
	edit       *Edit
}

func newField(id string, style caret.Style) *field {
	f := &field{id: id, cells: session.TerminalMeasurer{CellWidth: style.CellWidth}}
	f.host = &session.BufferHost{
		OnSet: func(text string, c int) { f.edit = &Edit{Text: text, Caret: c} },
	}
	return f
}

func (f *field) Render(vm session.ViewModel) {
	f.view = vm
	f.cells.Track(vm)
}

// MeasureCaret prefers the coordinates reported with the last text change.
func (f *field) MeasureCaret(text string, offset int, style caret.Style) (caret.Point, error) {
	if f.coords != nil {
		return *f.coords, nil
	}
	return f.cells.MeasureCaret(text, offset, style)
}

// MeasurePanelWidth returns the width last reported by the host, or an
// estimate in cells.
func (f *field) MeasurePanelWidth() (float64, error) {
	if f.panelWidth > 0 {
		return f.panelWidth, nil
	}
	return f.cells.MeasurePanelWidth()
}

// response drains the pending edit into a response for this field.
func (f *field) response(handled bool) Response {
	r := Response{Field: f.id, View: f.wireView(), Handled: handled, Edit: f.edit}
	f.edit = nil
	return r
}

func (f *field) wireView() *View {
	vm := f.view
	return &View{
		Open:        vm.Open,
		Suggestions: vm.Suggestions,
		Active:      vm.Active,
		AnchorTop:   vm.Geometry.AnchorTop,
		AnchorLeft:  vm.Geometry.AnchorLeft,
		PanelTop:    vm.Geometry.PanelTop,
		PanelLeft:   vm.Geometry.PanelLeft,
		Char:        vm.Char,
		ShowChar:    vm.ShowChar,
	}
}
