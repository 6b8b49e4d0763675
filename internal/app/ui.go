package app

import (
	"time"

	"github.com/v0xg/pickr/internal/action"
	"github.com/v0xg/pickr/internal/dom"
	"github.com/v0xg/pickr/internal/mode"
	"github.com/v0xg/pickr/internal/selection"
	"github.com/v0xg/pickr/internal/view"
)

// uiState is the transient interface the dispatcher and modes open and
// close. The sidebar's visibility lives in the selection store; its content
// lives here.
type uiState struct {
	sidebar *view.Panel
	menu    *view.ContextMenu
	menuEl  dom.Element
	help    bool
	legend  bool
	toast   *view.Toast
	toastID uint64
}

// Screen snapshots everything a renderer draws.
func (c *Context) Screen() view.Screen {
	st := c.Store.State()
	s := view.Screen{
		Mode:   st.ActiveMode,
		Paused: st.Paused,
		Frozen: st.Frozen,
		Input:  st.ActiveMode == selection.ModeInput,
		Menu:   c.ui.menu,
		Toast:  c.ui.toast,
	}
	if st.ActiveMode != selection.ModeNone {
		s.Claimed = c.Dispatcher.ClaimedKeys()
	}
	if st.Current != nil {
		s.Target = dom.Describe(st.Current)
	}
	if st.SidebarOpen {
		s.Sidebar = c.ui.sidebar
	}
	if c.ui.legend {
		s.Legend = append(c.Registry.LegendContent(), c.Dispatcher.CommandHelp())
	}
	if c.ui.help {
		s.Help = append(c.Registry.HelpContent(), c.Dispatcher.CommandHelp())
	}
	return s
}

// Notify shows a toast unless notifications are off. The toast clears itself
// after the configured duration unless a newer one replaced it.
func (c *Context) Notify(msg string, level view.Level) {
	c.log.Debugf("toast [%s] %s", level, msg)
	if !c.Settings.Get().ShowNotifications {
		return
	}
	c.ui.toastID++
	d := time.Duration(c.cfg.Timing.ToastMS) * time.Millisecond
	t := &view.Toast{ID: c.ui.toastID, Message: msg, Level: level, Duration: d}
	c.ui.toast = t
	c.dirty = true
	if d > 0 {
		time.AfterFunc(d, func() {
			c.Post(func() {
				if c.ui.toast == t {
					c.ui.toast = nil
					c.dirty = true
				}
			})
		})
	}
}

func (c *Context) ContextMenuOpen() bool { return c.ui.menu != nil }

func (c *Context) CloseContextMenu() {
	if c.ui.menu != nil {
		c.ui.menu = nil
		c.ui.menuEl = nil
		c.dirty = true
	}
}

func (c *Context) HelpOpen() bool { return c.ui.help }

func (c *Context) SetHelpOpen(open bool) {
	c.ui.help = open
	c.dirty = true
}

func (c *Context) LegendOpen() bool { return c.ui.legend }

func (c *Context) SetLegendOpen(open bool) {
	c.ui.legend = open
	c.dirty = true
}

// CloseAll drops every transient UI element and the selection highlight.
func (c *Context) CloseAll() {
	c.ui.menu = nil
	c.ui.menuEl = nil
	c.ui.help = false
	c.ui.legend = false
	c.ui.sidebar = nil
	c.Store.SetSidebarOpen(false)
	c.Store.Unfreeze()
	c.Store.Clear()
	c.dirty = true
}

// ModeChanged applies the mode-entry settings, or closes everything when the
// session went idle.
func (c *Context) ModeChanged(m selection.Mode) {
	c.dirty = true
	c.ui.menu = nil
	c.ui.menuEl = nil
	c.ui.sidebar = nil
	if m == selection.ModeNone {
		c.CloseAll()
		return
	}
	s := c.Settings.Get()
	c.ui.legend = s.ShowHelp
	if m == selection.ModeMouse {
		c.ui.sidebar = view.PreviewPanel(c.doc, nil)
	}
	if s.AutoSidebar {
		c.Store.SetSidebarOpen(true)
	}
	c.Notify(modeBanner(m), view.Info)
}

func modeBanner(m selection.Mode) string {
	if m == selection.ModeInput {
		return "Input mode: type a CSS selector"
	}
	return "Mouse mode: hover to target, click to select"
}

// QueryUpdated shows the evaluation of the typed selector in the sidebar.
func (c *Context) QueryUpdated(st mode.QueryStatus) {
	p := view.QueryPanel(c.doc, st)
	if p.Kind == view.PanelQuery {
		p = c.withPreviews(p)
	}
	c.ui.sidebar = p
	c.dirty = true
}

// ContextMenu opens the action menu for el at the pointer.
func (c *Context) ContextMenu(el dom.Element, x, y float64) {
	c.ui.menu = view.NewContextMenu(el, x, y, c.Registry.Groups())
	c.ui.menuEl = el
	c.dirty = true
}

// surface reports a finished action: a toast with its feedback and the
// result in the sidebar.
func (c *Context) surface(key string, res *action.Result) {
	if res == nil {
		c.Notify("Unknown action: "+key, view.Error)
		return
	}
	level := view.Success
	if res.Failed {
		level = view.Error
	}
	if res.Feedback != "" {
		c.Notify(res.Feedback, level)
	}
	// Mouse-mode clicks keep the preview of what was just selected.
	if key != action.ClickKey || res.Failed || c.Modes.Active() == selection.ModeInput {
		c.ui.sidebar = view.ResultPanel(res)
	}
	c.Dispatcher.ActionFinished(res)
	c.dirty = true
}
