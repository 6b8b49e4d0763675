package mode

import (
	"github.com/v0xg/pickr/internal/action"
	"github.com/v0xg/pickr/internal/dom"
	"github.com/v0xg/pickr/internal/selection"
)

// PointerMove retargets the selection to the hovered element. Hovering
// pickr's own UI or empty space clears it. Pausing and freezing suppress
// both.
func (c *Controller) PointerMove(el dom.Element) {
	if c.active != selection.ModeMouse {
		return
	}
	st := c.store.State()
	if st.Paused || st.Frozen {
		return
	}
	if el == nil || dom.IsOverlay(el) {
		c.store.Clear()
		return
	}
	if dom.Same(el, st.Current) {
		return
	}
	c.store.Clear()
	c.store.SetFromPointer(el)
}

// Click commits the current element through the click action. It reports
// whether the page's own handling should be suppressed, which is the case
// for any click outside pickr's UI.
func (c *Controller) Click(el dom.Element) bool {
	if c.active != selection.ModeMouse || dom.IsOverlay(el) {
		return false
	}
	c.runAction(action.ClickKey, c.store.Current())
	return true
}

// RightClick opens the context menu for the current element, targeting el
// first when nothing is selected.
func (c *Controller) RightClick(el dom.Element, x, y float64) bool {
	if c.active != selection.ModeMouse || dom.IsOverlay(el) {
		return false
	}
	if c.store.Current() == nil && el != nil {
		c.store.Set(el)
	}
	cur := c.store.Current()
	if cur == nil {
		return true
	}
	if c.obs != nil {
		c.obs.ContextMenu(cur, x, y)
	}
	return true
}
