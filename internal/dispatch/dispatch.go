// Package dispatch routes keystrokes to actions or interface commands and
// implements the layered Escape.
package dispatch

import (
	"fmt"
	"sort"
	"strings"

	"github.com/v0xg/pickr/internal/action"
	"github.com/v0xg/pickr/internal/logger"
	"github.com/v0xg/pickr/internal/mode"
	"github.com/v0xg/pickr/internal/navigate"
	"github.com/v0xg/pickr/internal/selection"
	"github.com/v0xg/pickr/internal/view"
)

// KeyEvent is a keydown observed in the page.
type KeyEvent struct {
	Key string `json:"key"`
	// Editable is set when focus is in a native editable field.
	Editable bool `json:"editable"`
	// OwnInput is set when that field is pickr's selector input.
	OwnInput bool `json:"ownInput"`
	Ctrl     bool `json:"ctrl"`
	Meta     bool `json:"meta"`
	Alt      bool `json:"alt"`
}

// UI is the transient interface state the dispatcher opens and closes.
type UI interface {
	Notify(msg string, level view.Level)
	ContextMenuOpen() bool
	CloseContextMenu()
	HelpOpen() bool
	SetHelpOpen(open bool)
	LegendOpen() bool
	SetLegendOpen(open bool)
	CloseAll()
}

// Deps are the dispatcher's collaborators. Registry, Runner and UI may be
// nil, in which case the features that need them do nothing.
type Deps struct {
	Registry  *action.Registry
	Runner    action.Runner
	Store     *selection.Store
	Modes     *mode.Controller
	Navigator *navigate.Engine
	UI        UI
	Keymap    Keymap
}

// Dispatcher resolves key events.
type Dispatcher struct {
	reg   *action.Registry
	run   action.Runner
	store *selection.Store
	modes *mode.Controller
	nav   *navigate.Engine
	ui    UI
	keys  Keymap
}

// New returns a dispatcher over deps.
func New(deps Deps) *Dispatcher {
	d := &Dispatcher{
		reg:   deps.Registry,
		run:   deps.Runner,
		store: deps.Store,
		modes: deps.Modes,
		nav:   deps.Navigator,
		ui:    deps.UI,
		keys:  deps.Keymap,
	}
	if d.ui == nil {
		d.ui = nopUI{}
	}
	if d.keys == nil {
		d.keys = DefaultKeymap()
	}
	return d
}

// HandleKey processes ev and reports whether it was consumed, in which case
// the page must not see it.
func (d *Dispatcher) HandleKey(ev KeyEvent) bool {
	key := NormalizeKey(ev.Key)
	if key == "" {
		return false
	}
	if key == KeyEscape {
		return d.Escape()
	}
	if d.modes == nil || d.modes.Active() == selection.ModeNone {
		return false
	}
	if ev.Ctrl || ev.Meta || ev.Alt {
		return false
	}
	if ev.OwnInput {
		if !ownInputKeys[key] {
			return false
		}
	} else if ev.Editable {
		return false
	}

	cmd, isCmd := d.keys.Lookup(key, d.modes.Active())
	var act *action.Action
	if d.reg != nil && !ev.OwnInput {
		act = d.reg.Resolve(key)
	}
	if act == nil && !isCmd {
		return false
	}

	if act != nil {
		if el := d.store.Current(); el != nil && d.run != nil {
			d.run.Run(key, el)
			return true
		}
		if !isCmd {
			d.ui.Notify("No element selected", view.Warning)
			return true
		}
	}
	d.Run(cmd)
	return true
}

// ActionFinished closes transient UI after a successful action.
func (d *Dispatcher) ActionFinished(res *action.Result) {
	if res == nil || res.Failed {
		return
	}
	d.ui.CloseContextMenu()
	d.ui.SetHelpOpen(false)
}

// Run executes an interface command.
func (d *Dispatcher) Run(cmd Command) {
	switch cmd {
	case CmdPause:
		d.setPaused(!d.store.State().Paused)
	case CmdSidebar:
		d.store.SetSidebarOpen(!d.store.State().SidebarOpen)
	case CmdLegend:
		open := !d.ui.LegendOpen()
		d.ui.SetLegendOpen(open)
		d.ui.Notify(pick(open, "Legend shown", "Legend hidden"), view.Info)
	case CmdHelp:
		open := !d.ui.HelpOpen()
		d.ui.SetHelpOpen(open)
		d.ui.Notify(pick(open, "Full help opened", "Full help closed"), view.Info)
	case CmdUp, CmdDown, CmdLeft, CmdRight:
		d.move(navigate.Direction(cmd))
	case CmdPrevious, CmdNext:
		if d.cycle(cmd) {
			return
		}
		d.move(navigate.Direction(cmd))
	case CmdCommit:
		d.commit()
	default:
		logger.Debugf("dispatch: unknown command %q", cmd)
	}
}

func (d *Dispatcher) setPaused(paused bool) {
	d.store.SetPaused(paused)
	if paused {
		d.ui.Notify("Selection paused", view.Info)
		return
	}
	d.ui.Notify("Selection resumed", view.Info)
	if d.modes != nil {
		d.modes.Refresh()
	}
}

// cycle walks the input-mode match list. It reports false when there is no
// list to walk.
func (d *Dispatcher) cycle(cmd Command) bool {
	if d.modes == nil || d.modes.Active() != selection.ModeInput {
		return false
	}
	r := d.modes.Result()
	if r.Len() == 0 {
		return false
	}
	if d.store.State().Frozen {
		d.ui.Notify("Highlights frozen - ESC to unfreeze", view.Warning)
		return true
	}
	if cmd == CmdNext {
		d.modes.NextMatch()
	} else {
		d.modes.PreviousMatch()
	}
	d.ui.Notify(fmt.Sprintf("Element %d of %d", r.Index+1, r.Len()), view.Info)
	return true
}

func (d *Dispatcher) move(dir navigate.Direction) {
	st := d.store.State()
	if st.Current == nil {
		d.ui.Notify("No element selected", view.Warning)
		return
	}
	if st.Frozen {
		d.ui.Notify("Highlights frozen - ESC to unfreeze", view.Warning)
		return
	}
	if d.nav == nil {
		return
	}
	next, err := d.nav.Move(st.Current, dir)
	if err != nil {
		logger.Warnf("dispatch: move %s failed: %v", dir, err)
		next = nil
	}
	if next == nil {
		d.ui.Notify(fmt.Sprintf("No element %s", dir), view.Warning)
		return
	}
	d.store.Set(next)
	if err := next.ScrollIntoView(); err != nil {
		logger.Debugf("dispatch: scroll failed: %v", err)
	}
	d.ui.Notify(fmt.Sprintf("Moved %s", dir), view.Info)
}

func (d *Dispatcher) commit() {
	if d.modes != nil && d.modes.Active() == selection.ModeInput {
		d.modes.Commit()
		return
	}
	el := d.store.Current()
	if el == nil {
		d.ui.Notify("No element selected", view.Warning)
		return
	}
	if d.run != nil {
		d.run.Run(action.ClickKey, el)
	}
}

// Escape resolves exactly one layer, in order: freeze, context menu,
// sidebar, full help, pause, active mode. With none of them left it closes
// every transient UI element and reports false.
func (d *Dispatcher) Escape() bool {
	st := d.store.State()
	switch {
	case st.Frozen:
		d.store.Unfreeze()
		d.ui.Notify("Highlights unfrozen", view.Info)
	case d.ui.ContextMenuOpen():
		d.ui.CloseContextMenu()
	case st.SidebarOpen:
		d.store.SetSidebarOpen(false)
	case d.ui.HelpOpen():
		d.ui.SetHelpOpen(false)
	case st.Paused:
		d.setPaused(false)
	case d.modes != nil && d.modes.Active() != selection.ModeNone:
		d.modes.Exit()
		d.ui.Notify("Mode exited", view.Info)
	default:
		d.ui.CloseAll()
		return false
	}
	return true
}

// ClaimedKeys lists every key the dispatcher may consume while a mode is
// active: escape, the keymap and every action key and alias.
func (d *Dispatcher) ClaimedKeys() []string {
	seen := map[string]bool{KeyEscape: true}
	for _, k := range d.keys.Keys() {
		seen[k] = true
	}
	if d.reg != nil {
		for _, a := range d.reg.All() {
			if a.Key != action.ClickKey {
				seen[a.Key] = true
			}
			for _, al := range a.Aliases {
				seen[al] = true
			}
		}
	}
	out := make([]string, 0, len(seen))
	for k := range seen {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// CommandHelp describes the interface commands for the legend and help.
func (d *Dispatcher) CommandHelp() action.HelpSection {
	sec := action.HelpSection{Title: "INTERFACE"}
	for _, c := range commandOrder {
		keys := d.keys[c]
		if len(keys) == 0 {
			continue
		}
		sec.Entries = append(sec.Entries, action.HelpEntry{
			Keys: strings.ToUpper(strings.Join(keys, ", ")),
			Name: commandNames[c],
		})
	}
	sec.Entries = append(sec.Entries, action.HelpEntry{Keys: "ESCAPE", Name: "Close / go back one step"})
	return sec
}

func pick(cond bool, a, b string) string {
	if cond {
		return a
	}
	return b
}

type nopUI struct{}

func (nopUI) Notify(string, view.Level) {}
func (nopUI) ContextMenuOpen() bool     { return false }
func (nopUI) CloseContextMenu()         {}
func (nopUI) HelpOpen() bool            { return false }
func (nopUI) SetHelpOpen(bool)          {}
func (nopUI) LegendOpen() bool          { return false }
func (nopUI) SetLegendOpen(bool)        {}
func (nopUI) CloseAll()                 {}
