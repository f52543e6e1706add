/*
Package caret maps a caret offset to a 2D position and places the suggestion
panel relative to it.

Measuring the caret depends on the host's font metrics, so it sits behind the
Measurer interface. CellMeasurer is the terminal implementation: every row is
RowHeight tall and every display cell CellWidth wide, with cell widths taken
from go-runewidth.

Placement centers the panel horizontally on the caret and, when limited to the
parent, clamps it into [0, inputWidth-panelWidth] with the lower bound winning
for panels wider than the input. The panel sits Rows*RowHeight above the caret.
*/
package caret

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
)

var (
	// ErrUnmeasured is returned while the host has no usable metrics yet.
	ErrUnmeasured = errors.New("caret: host not measured")
	// ErrOutOfRange is returned for an offset outside the text.
	ErrOutOfRange = errors.New("caret: offset out of range")
)

// Point is a position relative to the input's top-left corner.
type Point struct {
	Top  float64
	Left float64
}

// Style carries the font metrics a Measurer needs.
type Style struct {
	RowHeight float64
	CellWidth float64
	TabWidth  int
}

// Measurer returns the caret position for text[:offset].
type Measurer interface {
	MeasureCaret(text string, offset int, style Style) (Point, error)
}

// MeasurerFunc adapts a function to Measurer.
type MeasurerFunc func(text string, offset int, style Style) (Point, error)

func (f MeasurerFunc) MeasureCaret(text string, offset int, style Style) (Point, error) {
	return f(text, offset, style)
}

// CellMeasurer measures in terminal cells.
type CellMeasurer struct{}

// MeasureCaret counts the lines before the caret for Top and the display
// width of the caret's line for Left.
func (CellMeasurer) MeasureCaret(text string, offset int, style Style) (Point, error) {
	if style.RowHeight <= 0 || style.CellWidth <= 0 {
		return Point{}, ErrUnmeasured
	}
	if offset < 0 || offset > len(text) {
		return Point{}, fmt.Errorf("%w: %d not in [0,%d]", ErrOutOfRange, offset, len(text))
	}
	before := text[:offset]
	row := strings.Count(before, "\n")
	line := before[strings.LastIndexByte(before, '\n')+1:]
	return Point{
		Top:  float64(row) * style.RowHeight,
		Left: float64(lineWidth(line, style.TabWidth)) * style.CellWidth,
	}, nil
}

func lineWidth(line string, tabWidth int) int {
	if tabWidth <= 0 {
		tabWidth = 4
	}
	w := 0
	for _, r := range line {
		if r == '\t' {
			w += tabWidth - w%tabWidth
			continue
		}
		w += runewidth.RuneWidth(r)
	}
	return w
}

// TextWidth returns the widest display width among items, each prefixed by
// prefix, in cells.
func TextWidth(items []string, prefix string) int {
	pw := runewidth.StringWidth(prefix)
	w := 0
	for _, it := range items {
		w = max(w, pw+runewidth.StringWidth(it))
	}
	return w
}

// Geometry is the panel placement handed to renderers.
type Geometry struct {
	AnchorTop  float64
	AnchorLeft float64
	PanelLeft  float64
	PanelTop   float64
}

// Layout is the input to Place.
type Layout struct {
	Anchor        Point
	PanelWidth    float64
	InputWidth    float64
	Rows          int
	RowHeight     float64
	LimitToParent bool
}

// Place computes the panel geometry for l. Clamping is skipped when the input
// has no width yet.
func Place(l Layout) Geometry {
	left := l.Anchor.Left - l.PanelWidth/2
	if l.LimitToParent && l.InputWidth > 0 {
		left = max(0, min(left, l.InputWidth-l.PanelWidth))
	}
	return Geometry{
		AnchorTop:  l.Anchor.Top,
		AnchorLeft: l.Anchor.Left,
		PanelLeft:  left,
		PanelTop:   l.Anchor.Top - float64(l.Rows)*l.RowHeight,
	}
}
