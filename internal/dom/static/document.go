// Package static implements dom.Document over parsed HTML.
//
// Static documents have no layout engine. Boxes are assigned explicitly with
// SetBox or Layout; elements without one have an empty rect. Hit testing
// picks the last rendered element in document order whose rect contains the
// point, which matches paint order for documents without z-index.
package static

import (
	"fmt"
	"io"
	"net/url"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"

	"github.com/v0xg/pickr/internal/dom"
)

// Document is a parsed HTML page.
type Document struct {
	root    *html.Node
	base    *url.URL
	nextID  int64
	byNode  map[*html.Node]*Element
	layouts map[*html.Node]dom.Rect
}

// Parse reads an HTML document.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	d := &Document{
		root:    root,
		byNode:  make(map[*html.Node]*Element),
		layouts: make(map[*html.Node]dom.Rect),
	}
	d.walk(root, func(n *html.Node) {
		d.wrap(n)
	})
	return d, nil
}

// ParseString is Parse over a string.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// SetBaseURL sets the URL relative href and src properties resolve against.
func (d *Document) SetBaseURL(raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid base URL %q: %w", raw, err)
	}
	d.base = u
	return nil
}

// SetBox assigns the rendered rect of an element.
func (d *Document) SetBox(el dom.Element, r dom.Rect) {
	if e, ok := el.(*Element); ok && e.doc == d {
		d.layouts[e.node] = r
	}
}

// Layout assigns r to every element matching selector.
func (d *Document) Layout(selector string, r dom.Rect) error {
	els, err := d.QueryAll(selector)
	if err != nil {
		return err
	}
	for _, el := range els {
		d.SetBox(el, r)
	}
	return nil
}

// First returns the first element matching selector, or nil.
func (d *Document) First(selector string) (*Element, error) {
	els, err := d.QueryAll(selector)
	if err != nil {
		return nil, err
	}
	if len(els) == 0 {
		return nil, nil
	}
	return els[0].(*Element), nil
}

// Remove detaches an element from the document.
func (d *Document) Remove(el dom.Element) {
	e, ok := el.(*Element)
	if !ok || e.doc != d || e.node.Parent == nil {
		return
	}
	e.node.Parent.RemoveChild(e.node)
}

// QueryAll implements dom.Document.
func (d *Document) QueryAll(selector string) ([]dom.Element, error) {
	sel, err := cascadia.Compile(selector)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", dom.ErrInvalidSelector, err)
	}
	nodes := sel.MatchAll(d.root)
	out := make([]dom.Element, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, d.wrap(n))
	}
	return out, nil
}

// ElementFromPoint implements dom.Document.
func (d *Document) ElementFromPoint(x, y float64) (dom.Element, error) {
	var hit *Element
	d.walk(d.root, func(n *html.Node) {
		if d.hidden(n) {
			return
		}
		if r, ok := d.layouts[n]; ok && !r.Empty() && r.Contains(x, y) {
			hit = d.wrap(n)
		}
	})
	if hit == nil {
		return nil, nil
	}
	return hit, nil
}

// All implements dom.Document.
func (d *Document) All() ([]dom.Element, error) {
	var out []dom.Element
	d.walk(d.root, func(n *html.Node) {
		out = append(out, d.wrap(n))
	})
	return out, nil
}

// walk visits element nodes in document order.
func (d *Document) walk(n *html.Node, fn func(*html.Node)) {
	if n.Type == html.ElementNode {
		fn(n)
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		d.walk(c, fn)
	}
}

func (d *Document) wrap(n *html.Node) *Element {
	if e, ok := d.byNode[n]; ok {
		return e
	}
	d.nextID++
	e := &Element{doc: d, node: n, id: d.nextID}
	d.byNode[n] = e
	return e
}

// hidden reports whether n or an ancestor is display:none.
func (d *Document) hidden(n *html.Node) bool {
	for p := n; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && displayOf(p) == "none" {
			return true
		}
	}
	return false
}

// attached reports whether n is still part of the document tree.
func (d *Document) attached(n *html.Node) bool {
	for p := n; p != nil; p = p.Parent {
		if p == d.root {
			return true
		}
	}
	return false
}

func displayOf(n *html.Node) string {
	if v, ok := parseStyle(attr(n, "style")).get("display"); ok {
		return v
	}
	if _, ok := lookupAttr(n, "hidden"); ok {
		return "none"
	}
	switch n.Data {
	case "head", "script", "style", "meta", "link", "title", "template":
		return "none"
	case "span", "a", "b", "i", "em", "strong", "code", "label", "img", "input", "button", "select", "kbd":
		return "inline"
	}
	return "block"
}
