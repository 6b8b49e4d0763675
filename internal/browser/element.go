package browser

import (
	"fmt"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/proto"
	"github.com/ysmood/gson"

	"github.com/v0xg/pickr/internal/dom"
)

// Element is a reference to a node of a live page. The shim keys nodes by a
// per-document id, so two references to one node share a NodeID.
type Element struct {
	page    *Page
	id      int64
	tag     string
	elID    string
	class   string
	overlay bool
	// box is the snapshot taken by Page.All, nil otherwise.
	box *dom.Box
}

// decodeElement reads a shim descriptor. It returns nil for null or
// malformed descriptors.
func decodeElement(p *Page, v gson.JSON) *Element {
	if v.Nil() || !v.Has("id") {
		return nil
	}
	el := &Element{
		page:    p,
		id:      int64(v.Get("id").Int()),
		tag:     v.Get("tag").Str(),
		elID:    v.Get("elId").Str(),
		class:   v.Get("cls").Str(),
		overlay: v.Get("overlay").Bool(),
	}
	if v.Has("box") {
		b := decodeBox(v.Get("box"))
		el.box = &b
	}
	return el
}

func decodeBox(v gson.JSON) dom.Box {
	r := v.Get("rect")
	return dom.Box{
		Rect: dom.Rect{
			X:      r.Get("x").Num(),
			Y:      r.Get("y").Num(),
			Width:  r.Get("width").Num(),
			Height: r.Get("height").Num(),
		},
		Display: v.Get("display").Str(),
	}
}

func (e *Element) NodeID() int64     { return e.id }
func (e *Element) TagName() string   { return e.tag }
func (e *Element) ID() string        { return e.elID }
func (e *Element) ClassName() string { return e.class }
func (e *Element) InOverlay() bool   { return e.overlay }

func (e *Element) Box() (dom.Box, error) {
	if e.box != nil {
		return *e.box, nil
	}
	v, err := e.page.call(e.id, "box")
	if err != nil {
		return dom.Box{}, err
	}
	return decodeBox(v), nil
}

func (e *Element) Attributes() ([]dom.Attribute, error) {
	v, err := e.page.call(e.id, "attrs")
	if err != nil {
		return nil, err
	}
	var attrs []dom.Attribute
	for _, a := range v.Arr() {
		attrs = append(attrs, dom.Attribute{Name: a.Get("name").Str(), Value: a.Get("value").Str()})
	}
	return attrs, nil
}

// Property reads a DOM property, falling back to the attribute of the same
// name for properties that are not strings.
func (e *Element) Property(name string) (string, error) {
	v, err := e.page.call(e.id, "prop", name)
	if err != nil {
		return "", err
	}
	return v.Str(), nil
}

func (e *Element) Text() (string, error) {
	v, err := e.page.call(e.id, "text")
	if err != nil {
		return "", err
	}
	return v.Str(), nil
}

func (e *Element) OuterHTML() (string, error) {
	v, err := e.page.call(e.id, "html")
	if err != nil {
		return "", err
	}
	return v.Str(), nil
}

func (e *Element) ChildCount() (int, error) {
	v, err := e.page.call(e.id, "childCount")
	if err != nil {
		return 0, err
	}
	return v.Int(), nil
}

func (e *Element) Parent() (dom.Element, error) {
	v, err := e.page.call(e.id, "parent")
	if err != nil {
		return nil, err
	}
	return e.page.element(v), nil
}

func (e *Element) Children() ([]dom.Element, error) {
	v, err := e.page.call(e.id, "children")
	if err != nil {
		return nil, err
	}
	return e.page.elements(v), nil
}

func (e *Element) Style(prop string) (string, error) {
	v, err := e.page.call(e.id, "style", prop)
	if err != nil {
		return "", err
	}
	return v.Str(), nil
}

func (e *Element) SetStyle(styles dom.Styles) error {
	_, err := e.page.call(e.id, "setStyle", map[string]string(styles))
	return err
}

func (e *Element) ComputedStyle(props ...string) (map[string]string, error) {
	v, err := e.page.call(e.id, "computed", props)
	if err != nil {
		return nil, err
	}
	out := make(map[string]string, len(props))
	for _, p := range props {
		out[p] = v.Get(p).Str()
	}
	return out, nil
}

func (e *Element) SetAttribute(name, value string) error {
	_, err := e.page.call(e.id, "setAttr", name, value)
	return err
}

func (e *Element) ScrollIntoView() error {
	_, err := e.page.call(e.id, "scroll")
	return err
}

// Screenshot captures the element as PNG.
func (e *Element) Screenshot() ([]byte, error) {
	el, err := e.page.rod.Sleeper(rod.NotFoundSleeper).
		ElementByJS(rod.Eval(`(id) => window.__pickr.get(id)`, e.id))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDetached, err)
	}
	return el.Screenshot(proto.PageCaptureScreenshotFormatPng, 0)
}

var _ dom.Element = (*Element)(nil)
