package browser

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"sync"

	"github.com/go-rod/rod"
	"github.com/sirupsen/logrus"
	"github.com/ysmood/gson"

	"github.com/v0xg/pickr/internal/dom"
	"github.com/v0xg/pickr/internal/logger"
	"github.com/v0xg/pickr/internal/view/overlay"
)

// ErrDetached is returned for elements that left the document.
var ErrDetached = errors.New("element is no longer in the document")

// bindingName is the page function the shim reports events through.
const bindingName = "__pickrEmit"

//go:embed shim.js
var shim string

// Page is a live browser tab. It implements dom.Document and the overlay
// surface.
type Page struct {
	rod *rod.Page
	log *logrus.Entry

	mu    sync.Mutex
	stops []func() error
}

func newPage(p *rod.Page) *Page {
	return &Page{rod: p, log: logger.With("page")}
}

// Rod returns the underlying rod page.
func (p *Page) Rod() *rod.Page {
	return p.rod
}

// install exposes the event binding and loads the shim into the current
// document and every document the tab navigates to.
func (p *Page) install(onEvent func(gson.JSON)) error {
	stop, err := p.rod.Expose(bindingName, func(j gson.JSON) (interface{}, error) {
		onEvent(j)
		return nil, nil
	})
	if err != nil {
		return fmt.Errorf("failed to expose event binding: %w", err)
	}
	remove, err := p.rod.EvalOnNewDocument("(" + shim + ")()")
	if err != nil {
		_ = stop()
		return fmt.Errorf("failed to register page shim: %w", err)
	}
	p.mu.Lock()
	p.stops = append(p.stops, stop, remove)
	p.mu.Unlock()

	if _, err := p.rod.Eval(shim); err != nil {
		return fmt.Errorf("failed to install page shim: %w", err)
	}
	return nil
}

// uninstall removes the binding and the new-document script.
func (p *Page) uninstall() {
	p.mu.Lock()
	stops := p.stops
	p.stops = nil
	p.mu.Unlock()
	for _, stop := range stops {
		if err := stop(); err != nil {
			p.log.Debugf("uninstall: %v", err)
		}
	}
}

func (p *Page) eval(js string, args ...interface{}) (gson.JSON, error) {
	res, err := p.rod.Eval(js, args...)
	if err != nil {
		return gson.JSON{}, err
	}
	return res.Value, nil
}

// call runs a shim element operation on the node with the given id.
func (p *Page) call(id int64, op string, args ...interface{}) (gson.JSON, error) {
	if args == nil {
		args = []interface{}{}
	}
	v, err := p.eval(`(id, op, args) => window.__pickr.call(id, op, args)`, id, op, args)
	if err != nil {
		return v, fmt.Errorf("%s failed: %w", op, err)
	}
	if v.Get("gone").Bool() {
		return v, ErrDetached
	}
	return v.Get("value"), nil
}

// QueryAll implements dom.Document.
func (p *Page) QueryAll(selector string) ([]dom.Element, error) {
	v, err := p.eval(`(sel) => window.__pickr.query(sel)`, selector)
	if err != nil {
		return nil, err
	}
	if msg := v.Get("error").Str(); msg != "" {
		return nil, fmt.Errorf("%w: %s", dom.ErrInvalidSelector, msg)
	}
	return p.elements(v.Get("value")), nil
}

// ElementFromPoint implements dom.Document.
func (p *Page) ElementFromPoint(x, y float64) (dom.Element, error) {
	v, err := p.eval(`(x, y) => window.__pickr.fromPoint(x, y)`, x, y)
	if err != nil {
		return nil, err
	}
	return p.element(v), nil
}

// All implements dom.Document. The returned elements carry the boxes they
// had at the time of the call.
func (p *Page) All() ([]dom.Element, error) {
	v, err := p.eval(`() => window.__pickr.all()`)
	if err != nil {
		return nil, err
	}
	return p.elements(v), nil
}

// Mount implements overlay.Surface.
func (p *Page) Mount(ctx context.Context, html string, m overlay.Mount) error {
	_, err := p.rod.Context(ctx).Eval(`(html, state) => window.__pickr.mount(html, state)`, html, m)
	if err != nil {
		return fmt.Errorf("failed to mount overlay: %w", err)
	}
	return nil
}

func (p *Page) elements(list gson.JSON) []dom.Element {
	arr := list.Arr()
	out := make([]dom.Element, 0, len(arr))
	for _, v := range arr {
		if el := p.element(v); el != nil {
			out = append(out, el)
		}
	}
	return out
}

// element builds an element from a shim descriptor. A null descriptor gives
// nil, typed as the interface so callers can compare against nil.
func (p *Page) element(v gson.JSON) dom.Element {
	el := decodeElement(p, v)
	if el == nil {
		return nil
	}
	return el
}

var (
	_ dom.Document    = (*Page)(nil)
	_ overlay.Surface = (*Page)(nil)
)
