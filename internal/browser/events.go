package browser

import (
	"github.com/ysmood/gson"

	"github.com/v0xg/pickr/internal/dispatch"
	"github.com/v0xg/pickr/internal/dom"
	"github.com/v0xg/pickr/internal/selection"
)

// Event types sent by the page shim.
const (
	EventReady       = "ready"
	EventPointer     = "pointer"
	EventClick       = "click"
	EventContextMenu = "contextmenu"
	EventKey         = "key"
	EventInput       = "input"
	EventMenu        = "menu"
	EventToggle      = "toggle"
)

// Event is one decoded shim message.
type Event struct {
	Type    string
	X, Y    float64
	Element dom.Element
	Key     dispatch.KeyEvent
	Text    string
	Action  string
	Mode    selection.Mode
	URL     string
}

// Handler receives page events. Its methods are called on the session's
// event loop.
type Handler interface {
	HandlePointerMove(el dom.Element)
	HandleClick(el dom.Element) bool
	HandleContextMenu(el dom.Element, x, y float64) bool
	HandleKey(ev dispatch.KeyEvent) bool
	HandleInput(text string)
	HandleMenuPick(key string)
	ToggleMouse()
	ToggleInput()
	PageReloaded()
}

func decodeEvent(p *Page, v gson.JSON) Event {
	ev := Event{
		Type:   v.Get("type").Str(),
		X:      v.Get("x").Num(),
		Y:      v.Get("y").Num(),
		Text:   v.Get("text").Str(),
		Action: v.Get("action").Str(),
		Mode:   selection.Mode(v.Get("mode").Str()),
		URL:    v.Get("url").Str(),
	}
	if v.Has("el") {
		ev.Element = p.element(v.Get("el"))
	}
	if ev.Type == EventKey {
		ev.Key = dispatch.KeyEvent{
			Key:      v.Get("key").Str(),
			Editable: v.Get("editable").Bool(),
			OwnInput: v.Get("ownInput").Bool(),
			Ctrl:     v.Get("ctrl").Bool(),
			Meta:     v.Get("meta").Bool(),
			Alt:      v.Get("alt").Bool(),
		}
	}
	return ev
}

// router delivers events to a Handler. The first ready event is the initial
// install; every later one means the tab loaded a new document.
type router struct {
	h       Handler
	loaded  bool
	onReady func(url string)
}

func (r *router) deliver(ev Event) {
	switch ev.Type {
	case EventReady:
		if r.onReady != nil {
			r.onReady(ev.URL)
		}
		if r.loaded {
			r.h.PageReloaded()
		}
		r.loaded = true
	case EventPointer:
		r.h.HandlePointerMove(ev.Element)
	case EventClick:
		r.h.HandleClick(ev.Element)
	case EventContextMenu:
		r.h.HandleContextMenu(ev.Element, ev.X, ev.Y)
	case EventKey:
		r.h.HandleKey(ev.Key)
	case EventInput:
		r.h.HandleInput(ev.Text)
	case EventMenu:
		r.h.HandleMenuPick(ev.Action)
	case EventToggle:
		if ev.Mode == selection.ModeInput {
			r.h.ToggleInput()
		} else {
			r.h.ToggleMouse()
		}
	}
}
