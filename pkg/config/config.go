/*
Package config manages TOML config for tagserve sessions.
*/
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bastiangx/tagserve/internal/utils"
	"github.com/bastiangx/tagserve/pkg/caret"
	"github.com/bastiangx/tagserve/pkg/navigation"
	"github.com/bastiangx/tagserve/pkg/session"
	"github.com/bastiangx/tagserve/pkg/suggest"
	"github.com/bastiangx/tagserve/pkg/trigger"
	"github.com/charmbracelet/log"
)

// Config holds the entire config structure
type Config struct {
	Trigger TriggerConfig `toml:"trigger"`
	Suggest SuggestConfig `toml:"suggest"`
	Panel   PanelConfig   `toml:"panel"`
	Dict    DictConfig    `toml:"dict"`
	Log     LogConfig     `toml:"log"`
}

// TriggerConfig controls when a session opens.
type TriggerConfig struct {
	Char         string `toml:"char"`
	MinChars     int    `toml:"min_chars"`
	AcceptSpaces bool   `toml:"accept_spaces"`
}

// SuggestConfig controls the suggestion list and confirmation.
type SuggestConfig struct {
	MaxSuggest     int    `toml:"max_suggest"`
	Mode           string `toml:"mode"`
	AddChar        bool   `toml:"add_char"`
	ShowCharInList bool   `toml:"show_char_in_list"`
}

// PanelConfig holds placement and cell metrics.
type PanelConfig struct {
	LimitToParent bool    `toml:"limit_to_parent"`
	RowHeight     float64 `toml:"row_height"`
	CellWidth     float64 `toml:"cell_width"`
	TabWidth      int     `toml:"tab_width"`
}

// DictConfig holds candidate list options.
type DictConfig struct {
	Path       string   `toml:"path"`
	Watch      bool     `toml:"watch"`
	Candidates []string `toml:"candidates"`
}

// LogConfig holds logging options.
type LogConfig struct {
	Level string `toml:"level"`
}

// GetConfigDir returns the config directory with fallback priority:
// 1. ~/.config/
// 2. ~/Library/Application Support/ (macOS)
// 3. Current executable dir
// 4. builtin defaults
func GetConfigDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Errorf("Failed to get home directory: %v", err)
		execDir, execErr := utils.GetExecutableDir()
		if execErr != nil {
			return "", execErr
		}
		return execDir, nil
	}
	primaryPath := filepath.Join(homeDir, ".config", utils.AppName)
	if result := utils.CheckDirStatus(primaryPath); result.Writable {
		return primaryPath, nil
	}
	macOSPath := filepath.Join(homeDir, "Library", "Application Support", utils.AppName)
	if result := utils.CheckDirStatus(macOSPath); result.Writable {
		return macOSPath, nil
	}
	execDir, err := utils.GetExecutableDir()
	if err != nil {
		log.Errorf("Failed to get executable directory: %v", err)
		return "", err
	}
	return execDir, nil
}

// GetDefaultConfigPath returns the default path for config.toml
func GetDefaultConfigPath() (string, error) {
	configDir, err := GetConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "config.toml"), nil
}

// LoadConfigWithPriority loads config with priority:
// 1. Custom path from --config flag
// 2. Default path: [UserConfigDir]/tagserve/config.toml
// 3. Builtin defaults
func LoadConfigWithPriority(customConfigPath string) (*Config, string, error) {
	if customConfigPath != "" {
		if _, statErr := os.Stat(customConfigPath); statErr == nil {
			config, err := LoadConfig(customConfigPath)
			if err != nil {
				log.Warnf("Failed to load custom config from %s: %v. Trying default path...", customConfigPath, err)
			} else {
				log.Debugf("Loaded config from custom path: %s", customConfigPath)
				return config, customConfigPath, nil
			}
		} else {
			log.Warnf("Custom config file not found at %s: %v. Trying default path...", customConfigPath, statErr)
		}
	}
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		log.Warnf("Failed to determine default config path: %v. Using built-in defaults...", err)
		return DefaultConfig(), "", nil
	}

	config, err := InitConfig(defaultPath)
	if err != nil {
		log.Warnf("Failed to load/create config at default path %s: %v. Using builtin defaults...", defaultPath, err)
		return DefaultConfig(), "", nil
	}
	log.Debugf("Loaded config from default path: %s", defaultPath)
	return config, defaultPath, nil
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() *Config {
	return &Config{
		Trigger: TriggerConfig{
			Char:     "#",
			MinChars: 2,
		},
		Suggest: SuggestConfig{
			MaxSuggest:     5,
			Mode:           navigation.Infinite.String(),
			AddChar:        true,
			ShowCharInList: true,
		},
		Panel: PanelConfig{
			LimitToParent: true,
			RowHeight:     1,
			CellWidth:     1,
			TabWidth:      4,
		},
		Dict: DictConfig{
			Watch: true,
			Candidates: []string{
				"bug", "feature", "docs", "question", "refactor",
				"release", "performance", "security", "tests", "wontfix",
			},
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// InitConfig loads config from file or creates default if missing
func InitConfig(configPath string) (*Config, error) {
	configDir := filepath.Dir(configPath)

	if err := utils.EnsureDir(configDir); err != nil {
		log.Warnf("Failed to create config directory %s: %v. Using built-in defaults...", configDir, err)
		return DefaultConfig(), nil
	}

	if !utils.FileExists(configPath) {
		config := DefaultConfig()
		if err := SaveConfig(config, configPath); err != nil {
			log.Warnf("Failed to create default config file at %s: %v. Using built-in defaults...", configPath, err)
			return DefaultConfig(), nil
		}
		log.Debugf("Created default config file at: %s", configPath)
		return config, nil
	}

	config, err := LoadConfig(configPath)
	if err != nil {
		log.Warnf("Failed to load config from %s: %v. Using built-in defaults...", configPath, err)
		return DefaultConfig(), nil
	}
	return config, nil
}

// LoadConfig loads from a TOML file
func LoadConfig(configPath string) (*Config, error) {
	config := DefaultConfig()

	if err := utils.LoadTOMLFile(configPath, config); err != nil {
		return tryPartialParse(configPath)
	}
	return config, nil
}

// tryPartialParse keeps every well-typed key it can find and defaults the rest
func tryPartialParse(configPath string) (*Config, error) {
	config := DefaultConfig()

	tempConfig, err := utils.ParseTOMLWithRecovery(configPath)
	if err != nil {
		log.Warnf("Could not parse any valid configuration from %s: %v. Using all defaults.", configPath, err)
		return config, nil
	}

	if section, ok := utils.ExtractSection(tempConfig, "trigger"); ok {
		extractTriggerConfig(section, &config.Trigger)
	}
	if section, ok := utils.ExtractSection(tempConfig, "suggest"); ok {
		extractSuggestConfig(section, &config.Suggest)
	}
	if section, ok := utils.ExtractSection(tempConfig, "panel"); ok {
		extractPanelConfig(section, &config.Panel)
	}
	if section, ok := utils.ExtractSection(tempConfig, "dict"); ok {
		extractDictConfig(section, &config.Dict)
	}
	if section, ok := utils.ExtractSection(tempConfig, "log"); ok {
		if val, ok := utils.ExtractString(section, "level"); ok {
			config.Log.Level = val
		}
	}
	return config, nil
}

func extractTriggerConfig(data map[string]any, t *TriggerConfig) {
	if val, ok := utils.ExtractString(data, "char"); ok {
		t.Char = val
	}
	if val, ok := utils.ExtractInt64(data, "min_chars"); ok {
		t.MinChars = val
	}
	if val, ok := utils.ExtractBool(data, "accept_spaces"); ok {
		t.AcceptSpaces = val
	}
}

func extractSuggestConfig(data map[string]any, s *SuggestConfig) {
	if val, ok := utils.ExtractInt64(data, "max_suggest"); ok {
		s.MaxSuggest = val
	}
	if val, ok := utils.ExtractString(data, "mode"); ok {
		s.Mode = val
	}
	if val, ok := utils.ExtractBool(data, "add_char"); ok {
		s.AddChar = val
	}
	if val, ok := utils.ExtractBool(data, "show_char_in_list"); ok {
		s.ShowCharInList = val
	}
}

func extractPanelConfig(data map[string]any, p *PanelConfig) {
	if val, ok := utils.ExtractBool(data, "limit_to_parent"); ok {
		p.LimitToParent = val
	}
	if val, ok := utils.ExtractFloat(data, "row_height"); ok {
		p.RowHeight = val
	}
	if val, ok := utils.ExtractFloat(data, "cell_width"); ok {
		p.CellWidth = val
	}
	if val, ok := utils.ExtractInt64(data, "tab_width"); ok {
		p.TabWidth = val
	}
}

func extractDictConfig(data map[string]any, d *DictConfig) {
	if val, ok := utils.ExtractString(data, "path"); ok {
		d.Path = val
	}
	if val, ok := utils.ExtractBool(data, "watch"); ok {
		d.Watch = val
	}
	if val, ok := utils.ExtractStringSlice(data, "candidates"); ok {
		d.Candidates = val
	}
}

// RebuildConfigFile force creates a new config.toml at default
func RebuildConfigFile() error {
	defaultPath, err := GetDefaultConfigPath()
	if err != nil {
		return err
	}
	configDir := filepath.Dir(defaultPath)
	if err := utils.EnsureDir(configDir); err != nil {
		return err
	}
	return utils.SaveTOMLFile(DefaultConfig(), defaultPath)
}

// GetActiveConfigPath returns the absolute path of loaded config file
func GetActiveConfigPath(configPath string) string {
	if configPath == "" {
		if defaultPath, err := GetDefaultConfigPath(); err == nil {
			return defaultPath
		}
		return "unknown"
	}
	return utils.GetAbsolutePath(configPath)
}

// SaveConfig saves into a TOML file
func SaveConfig(config *Config, configPath string) error {
	return utils.SaveTOMLFile(config, configPath)
}

// Overrides carries command line values; nil fields keep the loaded value.
type Overrides struct {
	Char       *string
	MinChars   *int
	MaxSuggest *int
	Mode       *string
	DictPath   *string
}

// Apply copies the set overrides into c.
func (c *Config) Apply(o Overrides) {
	if o.Char != nil {
		c.Trigger.Char = *o.Char
	}
	if o.MinChars != nil {
		c.Trigger.MinChars = *o.MinChars
	}
	if o.MaxSuggest != nil {
		c.Suggest.MaxSuggest = *o.MaxSuggest
	}
	if o.Mode != nil {
		c.Suggest.Mode = *o.Mode
	}
	if o.DictPath != nil {
		c.Dict.Path = *o.DictPath
	}
}

// Update applies overrides and saves to file
func (c *Config) Update(configPath string, o Overrides) error {
	c.Apply(o)
	if err := c.Validate(); err != nil {
		return err
	}
	return SaveConfig(c, configPath)
}

// UpdateActive runs Update against the file the config was loaded from, or
// the default config path when loadedPath is empty. It returns the path
// written.
func (c *Config) UpdateActive(loadedPath string, o Overrides) (string, error) {
	target := loadedPath
	if target == "" {
		p, err := GetDefaultConfigPath()
		if err != nil {
			return "", err
		}
		target = p
	}
	if err := c.Update(target, o); err != nil {
		return "", err
	}
	return target, nil
}

// Validate checks every field a session depends on.
func (c *Config) Validate() error {
	if _, err := trigger.New(c.Trigger.Char, c.Trigger.MinChars); err != nil {
		return fmt.Errorf("config [trigger]: %w", err)
	}
	if c.Suggest.MaxSuggest < 1 {
		return fmt.Errorf("config [suggest]: %w: got %d", session.ErrInvalidMaxSuggest, c.Suggest.MaxSuggest)
	}
	if _, err := navigation.ParseMode(c.Suggest.Mode); err != nil {
		return fmt.Errorf("config [suggest]: %w: %v", session.ErrInvalidMode, err)
	}
	return nil
}

// Session builds the immutable session configuration backed by provider.
func (c *Config) Session(provider suggest.Provider) (session.Config, error) {
	if err := c.Validate(); err != nil {
		return session.Config{}, err
	}
	t, _ := trigger.New(c.Trigger.Char, c.Trigger.MinChars)
	t.AcceptSpaces = c.Trigger.AcceptSpaces
	mode, _ := navigation.ParseMode(c.Suggest.Mode)

	cfg := session.Config{
		Trigger:        t,
		MaxSuggest:     c.Suggest.MaxSuggest,
		Mode:           mode,
		AddChar:        c.Suggest.AddChar,
		ShowCharInList: c.Suggest.ShowCharInList,
		LimitToParent:  c.Panel.LimitToParent,
		Style: caret.Style{
			RowHeight: c.Panel.RowHeight,
			CellWidth: c.Panel.CellWidth,
			TabWidth:  c.Panel.TabWidth,
		},
		Provider: provider,
	}
	if err := cfg.Validate(); err != nil {
		return session.Config{}, err
	}
	return cfg, nil
}
