package app

import (
	"context"
	"strings"

	"github.com/v0xg/pickr/internal/action"
	"github.com/v0xg/pickr/internal/dispatch"
	"github.com/v0xg/pickr/internal/dom"
	"github.com/v0xg/pickr/internal/selection"
	"github.com/v0xg/pickr/internal/settings"
	"github.com/v0xg/pickr/internal/view"
)

// The handlers below must run on the event loop. Page bindings reach them
// through Post or Do.

// HandlePointerMove retargets mouse mode to el.
func (c *Context) HandlePointerMove(el dom.Element) {
	c.Modes.PointerMove(el)
}

// HandleClick reports whether the page's own click handling must be
// suppressed.
func (c *Context) HandleClick(el dom.Element) bool {
	if c.ui.menu != nil && !dom.IsOverlay(el) {
		c.CloseContextMenu()
		return true
	}
	return c.Modes.Click(el)
}

// HandleContextMenu reports whether the native menu must be suppressed.
func (c *Context) HandleContextMenu(el dom.Element, x, y float64) bool {
	return c.Modes.RightClick(el, x, y)
}

// HandleKey routes a keydown and reports whether it was consumed.
func (c *Context) HandleKey(ev dispatch.KeyEvent) bool {
	return c.Dispatcher.HandleKey(ev)
}

// HandleInput feeds the selector input.
func (c *Context) HandleInput(text string) {
	c.Modes.Input(text)
}

// HandleMenuPick runs the action picked from the context menu on the
// element the menu was opened for.
func (c *Context) HandleMenuPick(key string) {
	el := c.ui.menuEl
	if c.ui.menu == nil || el == nil {
		return
	}
	c.CloseContextMenu()
	(&runner{c: c}).Run(strings.ToLower(key), el)
}

// ToggleMouse enters mouse mode, or backs out one layer when it is already
// active.
func (c *Context) ToggleMouse() {
	c.toggle(selection.ModeMouse)
}

// ToggleInput enters input mode, or backs out one layer when it is already
// active.
func (c *Context) ToggleInput() {
	c.toggle(selection.ModeInput)
}

func (c *Context) toggle(m selection.Mode) {
	if c.Modes.Active() == m {
		c.Dispatcher.Escape()
		return
	}
	c.Modes.Enter(m)
}

// PageReloaded forgets every element reference of the previous document.
func (c *Context) PageReloaded() {
	active := c.Modes.Active()
	if r, ok := c.renderer.(interface{ Reset() }); ok {
		r.Reset()
	}
	c.Modes.Exit()
	c.CloseAll()
	if active != selection.ModeNone {
		c.Notify("Page reloaded", view.Warning)
	}
}

// ApplySetting changes one setting as if toggled from the settings page.
func (c *Context) ApplySetting(name string, value bool) bool {
	return c.Settings.Apply(settings.NewChange(name, value))
}

// runner executes actions off the loop and posts their results back.
type runner struct {
	c *Context
}

// Run implements action.Runner.
func (r *runner) Run(key string, el dom.Element) {
	ctx := r.c.ctx
	if ctx == nil {
		ctx = context.Background()
	}
	r.c.log.Debugf("running action %q on %s", key, dom.Describe(el))
	go func() {
		res := r.c.Registry.ExecuteByKey(ctx, key, el)
		r.c.Post(func() { r.c.surface(key, res) })
	}()
}

var _ action.Runner = (*runner)(nil)
var _ dispatch.UI = (*Context)(nil)
