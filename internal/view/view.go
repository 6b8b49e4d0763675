// Package view holds the data pickr's interface shows, separate from how it
// is drawn.
//
// The core builds a Screen after every event and hands it to a Renderer.
// Renderers never call back into the core; user input on rendered controls
// comes back as ordinary page events.
package view

import (
	"context"
	"time"

	"github.com/v0xg/pickr/internal/action"
	"github.com/v0xg/pickr/internal/selection"
)

// Level is the severity of a toast.
type Level string

const (
	Info    Level = "info"
	Success Level = "success"
	Warning Level = "warning"
	Error   Level = "error"
)

// Toast is a transient notification. ID increases with every toast so a
// renderer can tell a repeated message from a new one.
type Toast struct {
	ID       uint64        `json:"id"`
	Message  string        `json:"message"`
	Level    Level         `json:"level"`
	Duration time.Duration `json:"duration"`
}

// Screen is the complete interface state for one render.
type Screen struct {
	Mode   selection.Mode `json:"mode"`
	Paused bool           `json:"paused"`
	Frozen bool           `json:"frozen"`
	// Target describes the current element, empty when there is none.
	Target string `json:"target"`
	// Input shows the selector input.
	Input bool `json:"input"`

	Sidebar *Panel               `json:"sidebar,omitempty"`
	Legend  []action.HelpSection `json:"legend,omitempty"`
	Help    []action.HelpSection `json:"help,omitempty"`
	Menu    *ContextMenu         `json:"menu,omitempty"`
	Toast   *Toast               `json:"toast,omitempty"`

	// Claimed lists the keys the page must not see while a mode is active.
	Claimed []string `json:"claimed,omitempty"`
}

// Renderer draws a Screen.
type Renderer interface {
	Render(ctx context.Context, s Screen) error
}

// Multi fans a render out to several renderers, returning the first error.
type Multi []Renderer

// Render implements Renderer.
func (m Multi) Render(ctx context.Context, s Screen) error {
	var first error
	for _, r := range m {
		if err := r.Render(ctx, s); err != nil && first == nil {
			first = err
		}
	}
	return first
}

// Reset forwards to every renderer that caches what it last drew.
func (m Multi) Reset() {
	for _, r := range m {
		if rs, ok := r.(interface{ Reset() }); ok {
			rs.Reset()
		}
	}
}
