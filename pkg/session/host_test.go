package session

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bastiangx/tagserve/pkg/caret"
)

func TestTerminalMeasurer(t *testing.T) {
	m := &TerminalMeasurer{CellWidth: 2}

	_, err := m.MeasurePanelWidth()
	assert.ErrorIs(t, err, caret.ErrUnmeasured, "nothing rendered yet")

	m.Track(ViewModel{Open: true, Suggestions: []string{"bob", "alice"}, Char: "#", ShowChar: true})
	w, err := m.MeasurePanelWidth()
	require.NoError(t, err)
	assert.Equal(t, 12.0, w)

	m.Track(ViewModel{Open: true, Suggestions: []string{"bob", "alice"}, Char: "#"})
	w, err = m.MeasurePanelWidth()
	require.NoError(t, err)
	assert.Equal(t, 10.0, w)

	p, err := m.MeasureCaret("ab\n#cd", 6, caret.Style{RowHeight: 3, CellWidth: 2})
	require.NoError(t, err)
	assert.Equal(t, caret.Point{Top: 3, Left: 6}, p)

	m.Track(ViewModel{})
	_, err = m.MeasurePanelWidth()
	assert.ErrorIs(t, err, caret.ErrUnmeasured)
}

func TestBufferHost(t *testing.T) {
	var got []string
	h := &BufferHost{Width: 10, OnSet: func(text string, c int) { got = append(got, text) }}
	h.SetBufferAndCaret("#alice", 6)
	assert.Equal(t, "#alice", h.Text())
	assert.Equal(t, 6, h.Caret())
	assert.Equal(t, 10.0, h.InputWidth())
	assert.Equal(t, []string{"#alice"}, got)
}
