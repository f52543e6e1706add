package caret

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var cells = Style{RowHeight: 1, CellWidth: 1, TabWidth: 4}

func TestCellMeasurer(t *testing.T) {
	testCases := []struct {
		text        string
		offset      int
		want        Point
		description string
	}{
		{"hello #wor", 10, Point{Top: 0, Left: 10}, "single line"},
		{"hello", 0, Point{}, "start of buffer"},
		{"ab\ncd #x", 8, Point{Top: 1, Left: 5}, "second line"},
		{"a\n\n#", 4, Point{Top: 2, Left: 1}, "blank line between"},
		{"\tx", 2, Point{Top: 0, Left: 5}, "tab expands"},
		{"日本#", 7, Point{Top: 0, Left: 5}, "wide runes take two cells"},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			p, err := CellMeasurer{}.MeasureCaret(tc.text, tc.offset, cells)
			require.NoError(t, err)
			assert.Equal(t, tc.want, p)
		})
	}
}

func TestCellMeasurerScaled(t *testing.T) {
	p, err := CellMeasurer{}.MeasureCaret("a\nbc", 4, Style{RowHeight: 36, CellWidth: 10})
	require.NoError(t, err)
	assert.Equal(t, Point{Top: 36, Left: 20}, p)
}

func TestCellMeasurerErrors(t *testing.T) {
	_, err := CellMeasurer{}.MeasureCaret("abc", 1, Style{})
	assert.ErrorIs(t, err, ErrUnmeasured)
	_, err = CellMeasurer{}.MeasureCaret("abc", 4, cells)
	assert.ErrorIs(t, err, ErrOutOfRange)
}

func TestPlaceClamping(t *testing.T) {
	testCases := []struct {
		caretLeft   float64
		limit       bool
		want        float64
		description string
	}{
		{100, true, 0, "raw left already zero"},
		{140, true, 0, "wider than input never goes negative"},
		{140, false, 40, "unclamped keeps raw"},
		{20, false, -80, "unclamped may go negative"},
	}
	for _, tc := range testCases {
		t.Run(tc.description, func(t *testing.T) {
			g := Place(Layout{
				Anchor:        Point{Left: tc.caretLeft},
				PanelWidth:    200,
				InputWidth:    150,
				LimitToParent: tc.limit,
			})
			assert.Equal(t, tc.want, g.PanelLeft)
			assert.Equal(t, tc.caretLeft, g.AnchorLeft)
		})
	}
}

func TestPlaceFitsInside(t *testing.T) {
	g := Place(Layout{Anchor: Point{Left: 290}, PanelWidth: 100, InputWidth: 300, LimitToParent: true})
	assert.Equal(t, 200.0, g.PanelLeft)

	g = Place(Layout{Anchor: Point{Left: 150}, PanelWidth: 100, InputWidth: 300, LimitToParent: true})
	assert.Equal(t, 100.0, g.PanelLeft)
}

func TestPlaceUnmeasuredInput(t *testing.T) {
	g := Place(Layout{Anchor: Point{Left: 10}, PanelWidth: 100, LimitToParent: true})
	assert.Equal(t, -40.0, g.PanelLeft)
}

func TestPlaceAboveCaret(t *testing.T) {
	g := Place(Layout{Anchor: Point{Top: 200}, Rows: 3, RowHeight: 36})
	assert.Equal(t, 92.0, g.PanelTop)
	assert.Equal(t, 200.0, g.AnchorTop)
}

func TestTextWidth(t *testing.T) {
	assert.Equal(t, 6, TextWidth([]string{"alice", "bob"}, "#"))
	assert.Equal(t, 0, TextWidth(nil, "#"))
	assert.Equal(t, 4, TextWidth([]string{"日本"}, ""))
}
