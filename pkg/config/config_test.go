package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/bastiangx/tagserve/pkg/navigation"
	"github.com/bastiangx/tagserve/pkg/session"
	"github.com/bastiangx/tagserve/pkg/suggest"
	"github.com/bastiangx/tagserve/pkg/trigger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	c := DefaultConfig()
	assert.Equal(t, "#", c.Trigger.Char)
	assert.Equal(t, 2, c.Trigger.MinChars)
	assert.Equal(t, 5, c.Suggest.MaxSuggest)
	assert.Equal(t, "infinite", c.Suggest.Mode)
	assert.True(t, c.Suggest.AddChar)
	assert.True(t, c.Suggest.ShowCharInList)
	assert.True(t, c.Panel.LimitToParent)
	assert.NoError(t, c.Validate())
}

func TestLoadConfig(t *testing.T) {
	path := writeFile(t, "config.toml", `
[trigger]
char = "@"
min_chars = 1

[suggest]
max_suggest = 8
mode = "lock"
add_char = false

[panel]
row_height = 18
cell_width = 7.5

[dict]
path = "tags.txt"
`)
	c, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "@", c.Trigger.Char)
	assert.Equal(t, 1, c.Trigger.MinChars)
	assert.Equal(t, 8, c.Suggest.MaxSuggest)
	assert.Equal(t, "lock", c.Suggest.Mode)
	assert.False(t, c.Suggest.AddChar)
	assert.True(t, c.Suggest.ShowCharInList, "unset keys keep defaults")
	assert.Equal(t, 18.0, c.Panel.RowHeight)
	assert.Equal(t, 7.5, c.Panel.CellWidth)
	assert.Equal(t, "tags.txt", c.Dict.Path)
}

func TestLoadConfigPartialRecovery(t *testing.T) {
	// min_chars has the wrong type so strict decoding fails
	path := writeFile(t, "config.toml", `
[trigger]
char = "$"
min_chars = "three"

[suggest]
max_suggest = 3

[panel]
row_height = 20

[dict]
candidates = ["a", 1, "b"]
`)
	c, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "$", c.Trigger.Char)
	assert.Equal(t, 2, c.Trigger.MinChars)
	assert.Equal(t, 3, c.Suggest.MaxSuggest)
	assert.Equal(t, 20.0, c.Panel.RowHeight)
	assert.Equal(t, []string{"a", "b"}, c.Dict.Candidates)
}

func TestLoadConfigGarbage(t *testing.T) {
	path := writeFile(t, "config.toml", "this is [not toml")
	c, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), c)
}

func TestInitConfigCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	c, err := InitConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), c)
	assert.FileExists(t, path)

	reloaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, c, reloaded)
}

func TestLoadConfigWithPriorityCustomPath(t *testing.T) {
	path := writeFile(t, "custom.toml", "[trigger]\nchar = \"+\"\n")
	c, used, err := LoadConfigWithPriority(path)
	require.NoError(t, err)
	assert.Equal(t, path, used)
	assert.Equal(t, "+", c.Trigger.Char)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*Config)
		want   error
	}{
		{"defaults", func(*Config) {}, nil},
		{"empty char", func(c *Config) { c.Trigger.Char = "" }, trigger.ErrInvalidChar},
		{"space char", func(c *Config) { c.Trigger.Char = " " }, trigger.ErrInvalidChar},
		{"two chars", func(c *Config) { c.Trigger.Char = "##" }, trigger.ErrInvalidChar},
		{"zero min", func(c *Config) { c.Trigger.MinChars = 0 }, trigger.ErrInvalidMinChars},
		{"zero max", func(c *Config) { c.Suggest.MaxSuggest = 0 }, session.ErrInvalidMaxSuggest},
		{"bad mode", func(c *Config) { c.Suggest.Mode = "sideways" }, session.ErrInvalidMode},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := DefaultConfig()
			tt.modify(c)
			err := c.Validate()
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestApplyOverrides(t *testing.T) {
	c := DefaultConfig()
	char, minChars, mode := "@", 1, "lock"
	c.Apply(Overrides{Char: &char, MinChars: &minChars, Mode: &mode})
	assert.Equal(t, "@", c.Trigger.Char)
	assert.Equal(t, 1, c.Trigger.MinChars)
	assert.Equal(t, "lock", c.Suggest.Mode)
	assert.Equal(t, 5, c.Suggest.MaxSuggest)
}

func TestUpdateActive(t *testing.T) {
	char, mode := "@", "lock"
	tests := []struct {
		name      string
		overrides Overrides
		wantErr   error
		wantChar  string
		wantMode  string
	}{
		{"trigger and mode", Overrides{Char: &char, Mode: &mode}, nil, "@", "lock"},
		{"no overrides", Overrides{}, nil, "#", "infinite"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "config.toml")
			require.NoError(t, SaveConfig(DefaultConfig(), path))
			c, err := LoadConfig(path)
			require.NoError(t, err)

			written, err := c.UpdateActive(path, tt.overrides)
			require.NoError(t, err)
			assert.Equal(t, path, written)

			reloaded, err := LoadConfig(path)
			require.NoError(t, err)
			assert.Equal(t, tt.wantChar, reloaded.Trigger.Char)
			assert.Equal(t, tt.wantMode, reloaded.Suggest.Mode)
		})
	}
}

func TestUpdateActiveDefaultPath(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("HOME", t.TempDir())
	maxSuggest := 7
	c := DefaultConfig()
	written, err := c.UpdateActive("", Overrides{MaxSuggest: &maxSuggest})
	require.NoError(t, err)

	want, err := GetDefaultConfigPath()
	require.NoError(t, err)
	assert.Equal(t, want, written)
	reloaded, err := LoadConfig(written)
	require.NoError(t, err)
	assert.Equal(t, 7, reloaded.Suggest.MaxSuggest)
}

func TestUpdateSaves(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	c := DefaultConfig()
	maxSuggest := 9
	require.NoError(t, c.Update(path, Overrides{MaxSuggest: &maxSuggest}))

	reloaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, 9, reloaded.Suggest.MaxSuggest)

	bad := 0
	assert.ErrorIs(t, c.Update(path, Overrides{MaxSuggest: &bad}), session.ErrInvalidMaxSuggest)
}

func TestSession(t *testing.T) {
	c := DefaultConfig()
	c.Suggest.Mode = "lock"
	c.Trigger.AcceptSpaces = true
	provider := suggest.NewWordCatalog(c.Dict.Candidates)

	cfg, err := c.Session(provider)
	require.NoError(t, err)
	assert.Equal(t, byte('#'), cfg.Trigger.Char)
	assert.True(t, cfg.Trigger.AcceptSpaces)
	assert.Equal(t, navigation.Lock, cfg.Mode)
	assert.Equal(t, 1.0, cfg.Style.RowHeight)
	assert.Same(t, provider, cfg.Provider)

	_, err = c.Session(nil)
	assert.ErrorIs(t, err, session.ErrNoProvider)
}
