// Package selection is the single source of truth for the element pickr is
// targeting.
//
// A Store belongs to one session and is confined to that session's event
// loop; it is not safe for concurrent use. Every mutation is pushed to
// subscribers synchronously, in subscription order.
package selection

import (
	"github.com/v0xg/pickr/internal/dom"
)

// Mode is the active interaction mode.
type Mode string

const (
	ModeNone  Mode = ""
	ModeMouse Mode = "mouse"
	ModeInput Mode = "input"
)

// State is a snapshot of the selection.
type State struct {
	ActiveMode  Mode
	Current     dom.Element
	Paused      bool
	Frozen      bool
	SidebarOpen bool
}

// ChangeKind names the mutation that produced a Change.
type ChangeKind int

const (
	ChangeSet ChangeKind = iota
	ChangeSelect
	ChangeClear
	ChangeFreeze
	ChangeUnfreeze
	ChangePause
	ChangeResume
	ChangeSidebar
	ChangeReset
)

var changeNames = map[ChangeKind]string{
	ChangeSet:      "set",
	ChangeSelect:   "select",
	ChangeClear:    "clear",
	ChangeFreeze:   "freeze",
	ChangeUnfreeze: "unfreeze",
	ChangePause:    "pause",
	ChangeResume:   "resume",
	ChangeSidebar:  "sidebar",
	ChangeReset:    "reset",
}

func (k ChangeKind) String() string {
	if s, ok := changeNames[k]; ok {
		return s
	}
	return "unknown"
}

// Change is delivered to subscribers after each mutation.
type Change struct {
	Kind  ChangeKind
	State State
	// Previous is the element targeted before the change.
	Previous dom.Element
}

// TargetChanged reports whether the change may have moved the current
// element, which is what the sidebar previews follow.
func (c Change) TargetChanged() bool {
	return c.Kind == ChangeSet || c.Kind == ChangeSelect
}
