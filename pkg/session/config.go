package session

import (
	"errors"
	"fmt"

	"github.com/bastiangx/tagserve/pkg/caret"
	"github.com/bastiangx/tagserve/pkg/navigation"
	"github.com/bastiangx/tagserve/pkg/suggest"
	"github.com/bastiangx/tagserve/pkg/trigger"
)

var (
	ErrInvalidMaxSuggest = errors.New("session: max suggest must be at least 1")
	ErrInvalidMode       = errors.New("session: unknown navigation mode")
	ErrNoProvider        = errors.New("session: no suggestion provider")
)

// Config is fixed for the lifetime of a Controller.
type Config struct {
	Trigger        trigger.Trigger
	MaxSuggest     int
	Mode           navigation.Mode
	AddChar        bool
	ShowCharInList bool
	LimitToParent  bool
	Style          caret.Style
	Provider       suggest.Provider
}

// Validate checks the configuration before a session starts.
func (c Config) Validate() error {
	if err := c.Trigger.Validate(); err != nil {
		return err
	}
	if c.MaxSuggest < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidMaxSuggest, c.MaxSuggest)
	}
	if c.Mode != navigation.Lock && c.Mode != navigation.Infinite {
		return fmt.Errorf("%w: %v", ErrInvalidMode, c.Mode)
	}
	if c.Provider == nil {
		return ErrNoProvider
	}
	return nil
}
