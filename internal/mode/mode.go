// Package mode runs the interaction modes: mouse mode tracks the hovered
// element, input mode tracks the matches of a typed CSS selector.
//
// At most one mode is active. Page events reach the controller through its
// handler methods, which ignore events that do not belong to the active
// mode. Leaving a mode bumps a generation counter, so debounce callbacks
// scheduled by the old mode are dropped when they land.
package mode

import (
	"time"

	"github.com/v0xg/pickr/internal/action"
	"github.com/v0xg/pickr/internal/dom"
	"github.com/v0xg/pickr/internal/logger"
	"github.com/v0xg/pickr/internal/selection"
)

// DefaultDebounce is the quiet period before a typed selector is evaluated.
const DefaultDebounce = 100 * time.Millisecond

// MatchStyle marks input-mode matches other than the one under the cursor.
var MatchStyle = dom.Styles{
	"outline":        "2px dashed rgba(59, 130, 246, 0.6)",
	"outline-offset": "2px",
}

// Observer receives the output of the controller that the view renders.
type Observer interface {
	ModeChanged(m selection.Mode)
	QueryUpdated(status QueryStatus)
	ContextMenu(el dom.Element, x, y float64)
}

// Options configures a Controller.
type Options struct {
	Debounce time.Duration
	// Post schedules fn on the event loop. It must be safe to call from any
	// goroutine.
	Post     func(fn func())
	Runner   action.Runner
	Observer Observer
}

// Controller owns mode entry, exit and the per-mode event handling.
type Controller struct {
	store    *selection.Store
	doc      dom.Document
	run      action.Runner
	obs      Observer
	post     func(func())
	debounce time.Duration

	active selection.Mode
	gen    uint64
	input  *inputState
}

// New returns an idle controller.
func New(store *selection.Store, doc dom.Document, opts Options) *Controller {
	c := &Controller{
		store:    store,
		doc:      doc,
		run:      opts.Runner,
		obs:      opts.Observer,
		post:     opts.Post,
		debounce: opts.Debounce,
	}
	if c.debounce <= 0 {
		c.debounce = DefaultDebounce
	}
	if c.post == nil {
		c.post = func(fn func()) { fn() }
	}
	return c
}

// Active returns the active mode, ModeNone when idle.
func (c *Controller) Active() selection.Mode {
	return c.active
}

// Enter activates m, tearing down the active mode first. Entering ModeNone
// is Exit.
func (c *Controller) Enter(m selection.Mode) {
	if m == selection.ModeNone {
		c.Exit()
		return
	}
	c.teardown()
	c.active = m
	c.store.Reset(m)
	if m == selection.ModeInput {
		c.input = &inputState{}
	}
	logger.Debugf("mode: entered %s", m)
	c.modeChanged(m)
	if m == selection.ModeInput {
		c.publish(QueryStatus{Message: Placeholder})
	}
}

// Exit returns to idle and restores every style the mode applied. Exiting
// while idle does nothing.
func (c *Controller) Exit() {
	if c.active == selection.ModeNone {
		return
	}
	prev := c.active
	c.teardown()
	c.store.Reset(selection.ModeNone)
	logger.Debugf("mode: exited %s", prev)
	c.modeChanged(selection.ModeNone)
}

// teardown drops the active mode's handlers and pending timers.
func (c *Controller) teardown() {
	c.gen++
	if c.input != nil {
		c.input.stop()
		c.input = nil
	}
	c.active = selection.ModeNone
}

func (c *Controller) runAction(key string, el dom.Element) {
	if c.run == nil || el == nil {
		return
	}
	c.run.Run(key, el)
}

func (c *Controller) modeChanged(m selection.Mode) {
	if c.obs != nil {
		c.obs.ModeChanged(m)
	}
}

func (c *Controller) publish(s QueryStatus) {
	if c.obs != nil {
		c.obs.QueryUpdated(s)
	}
}
