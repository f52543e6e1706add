package cli

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bastiangx/tagserve/internal/logger"
	"github.com/bastiangx/tagserve/pkg/caret"
	"github.com/bastiangx/tagserve/pkg/navigation"
	"github.com/bastiangx/tagserve/pkg/session"
	"github.com/bastiangx/tagserve/pkg/suggest"
	"github.com/bastiangx/tagserve/pkg/trigger"
)

func testConfig() session.Config {
	return session.Config{
		Trigger:        trigger.Trigger{Char: '#', MinChars: 2},
		MaxSuggest:     5,
		Mode:           navigation.Lock,
		AddChar:        true,
		ShowCharInList: true,
		LimitToParent:  true,
		Style:          caret.Style{RowHeight: 1, CellWidth: 1},
		Provider:       suggest.NewWordCatalog([]string{"alice", "bob", "alan"}),
	}
}

func run(t *testing.T, input string) string {
	t.Helper()
	out := &bytes.Buffer{}
	h, err := NewInputHandler(testConfig(), strings.NewReader(input), out, session.WithLogger(logger.Discard()))
	require.NoError(t, err)
	require.NoError(t, h.Start())
	return out.String()
}

func TestSelectAndApply(t *testing.T) {
	out := run(t, "hi #al\n:down\n:enter\n")
	assert.Contains(t, out, "tagserve CLI")
	assert.Contains(t, out, "  #alice")
	assert.Contains(t, out, "› #alan")
	assert.Contains(t, out, `applied: "hi #alan" caret=8`)
}

func TestKeysWhileClosed(t *testing.T) {
	out := run(t, ":up\n")
	assert.Contains(t, out, "ArrowUp ignored")
}

func TestEscapeCloses(t *testing.T) {
	out := run(t, "#bo\n:esc\n")
	assert.Contains(t, out, "#bob")
	assert.Contains(t, out, "(closed)")
	assert.NotContains(t, out, "applied:")
}

func TestLastLineWithoutNewline(t *testing.T) {
	out := run(t, "#bo")
	assert.Contains(t, out, "#bob")
}

func TestInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.Provider = nil
	_, err := NewInputHandler(cfg, strings.NewReader(""), &bytes.Buffer{})
	assert.ErrorIs(t, err, session.ErrNoProvider)
}
