package logger

import (
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormatter(t *testing.T) {
	f, err := ParseFormatter("JSON")
	require.NoError(t, err)
	assert.Equal(t, log.JSONFormatter, f)

	f, err = ParseFormatter("")
	require.NoError(t, err)
	assert.Equal(t, log.TextFormatter, f)

	_, err = ParseFormatter("xml")
	assert.Error(t, err)
}

func TestSetup(t *testing.T) {
	prev := log.Default()
	defer log.SetDefault(prev)

	Setup("error", "text", false)
	assert.Equal(t, log.ErrorLevel, log.GetLevel())

	Setup("bogus", "text", false)
	assert.Equal(t, log.WarnLevel, log.GetLevel())

	Setup("error", "logfmt", true)
	assert.Equal(t, log.DebugLevel, log.GetLevel())
}
