// Package settings holds the user-facing toggles and their change
// notifications.
package settings

import (
	"sync"

	"github.com/v0xg/pickr/internal/logger"
)

// Setting names as they appear in change notifications.
const (
	AutoSidebar       = "autoSidebar"
	ShowHelp          = "showHelp"
	HighlightElements = "highlightElements"
	CopyClipboard     = "copyClipboard"
	ShowNotifications = "showNotifications"
)

// ChangeType is the message type of a setting change notification.
const ChangeType = "setting-change"

// Settings are the user toggles. All default to true.
type Settings struct {
	// AutoSidebar opens the sidebar when a mode starts.
	AutoSidebar bool `toml:"auto_sidebar" json:"autoSidebar"`
	// ShowHelp shows the legend and compact help when a mode starts.
	ShowHelp bool `toml:"show_help" json:"showHelp"`
	// HighlightElements applies inline outline styles to targeted elements.
	HighlightElements bool `toml:"highlight_elements" json:"highlightElements"`
	// CopyClipboard lets string action results reach the clipboard.
	CopyClipboard bool `toml:"copy_clipboard" json:"copyClipboard"`
	// ShowNotifications enables toasts.
	ShowNotifications bool `toml:"show_notifications" json:"showNotifications"`
}

// Defaults returns every setting enabled.
func Defaults() Settings {
	return Settings{
		AutoSidebar:       true,
		ShowHelp:          true,
		HighlightElements: true,
		CopyClipboard:     true,
		ShowNotifications: true,
	}
}

// Change is a single setting-change notification.
type Change struct {
	Type    string `json:"type"`
	Setting string `json:"setting"`
	Value   bool   `json:"value"`
}

// NewChange builds a setting-change notification.
func NewChange(setting string, value bool) Change {
	return Change{Type: ChangeType, Setting: setting, Value: value}
}

// field returns a pointer to the named setting, or nil for unknown names.
func (s *Settings) field(name string) *bool {
	switch name {
	case AutoSidebar:
		return &s.AutoSidebar
	case ShowHelp:
		return &s.ShowHelp
	case HighlightElements:
		return &s.HighlightElements
	case CopyClipboard:
		return &s.CopyClipboard
	case ShowNotifications:
		return &s.ShowNotifications
	}
	return nil
}

// With returns s with c applied. Unknown settings leave s as it is.
func (s Settings) With(c Change) Settings {
	if f := s.field(c.Setting); f != nil {
		*f = c.Value
	}
	return s
}

// Diff lists the changes that turn a into b, in a fixed setting order.
func Diff(a, b Settings) []Change {
	var out []Change
	for _, name := range []string{AutoSidebar, ShowHelp, HighlightElements, CopyClipboard, ShowNotifications} {
		if *a.field(name) != *b.field(name) {
			out = append(out, NewChange(name, *b.field(name)))
		}
	}
	return out
}

// Store is the current settings plus their subscribers.
type Store struct {
	mu   sync.RWMutex
	cur  Settings
	subs []func(Change)
}

// NewStore creates a store seeded with initial.
func NewStore(initial Settings) *Store {
	return &Store{cur: initial}
}

// Get returns a snapshot of the current settings.
func (s *Store) Get() Settings {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}

// Subscribe registers fn for applied changes.
func (s *Store) Subscribe(fn func(Change)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

// Apply applies a change notification. Messages of another type and unknown
// settings are ignored. It reports whether the value changed.
func (s *Store) Apply(c Change) bool {
	if c.Type != ChangeType {
		return false
	}
	s.mu.Lock()
	f := s.cur.field(c.Setting)
	if f == nil {
		s.mu.Unlock()
		logger.Debugf("settings: ignoring unknown setting %q", c.Setting)
		return false
	}
	if *f == c.Value {
		s.mu.Unlock()
		return false
	}
	*f = c.Value
	subs := append([]func(Change){}, s.subs...)
	s.mu.Unlock()

	for _, fn := range subs {
		fn(c)
	}
	return true
}

// Replace applies every difference between the current settings and next.
func (s *Store) Replace(next Settings) {
	for _, c := range Diff(s.Get(), next) {
		s.Apply(c)
	}
}
