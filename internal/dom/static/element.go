package static

import (
	"net/url"
	"sort"
	"strings"

	"golang.org/x/net/html"

	"github.com/v0xg/pickr/internal/dom"
)

// Element is a node of a static Document.
type Element struct {
	doc  *Document
	node *html.Node
	id   int64
}

var _ dom.Element = (*Element)(nil)

func (e *Element) NodeID() int64     { return e.id }
func (e *Element) TagName() string   { return strings.ToLower(e.node.Data) }
func (e *Element) ID() string        { return attr(e.node, "id") }
func (e *Element) ClassName() string { return attr(e.node, "class") }

// InOverlay implements dom.Element.
func (e *Element) InOverlay() bool {
	for p := e.node; p != nil; p = p.Parent {
		if p.Type == html.ElementNode && dom.OwnsID(attr(p, "id")) {
			return true
		}
	}
	return false
}

// Box implements dom.Element. Detached elements and elements inside a
// display:none subtree report an empty rect.
func (e *Element) Box() (dom.Box, error) {
	box := dom.Box{Display: displayOf(e.node)}
	if !e.doc.attached(e.node) || e.doc.hidden(e.node) {
		return box, nil
	}
	box.Rect = e.doc.layouts[e.node]
	return box, nil
}

func (e *Element) Attributes() ([]dom.Attribute, error) {
	out := make([]dom.Attribute, 0, len(e.node.Attr))
	for _, a := range e.node.Attr {
		out = append(out, dom.Attribute{Name: a.Key, Value: a.Val})
	}
	return out, nil
}

// Property implements dom.Element. href and src resolve against the
// document base URL when one is set.
func (e *Element) Property(name string) (string, error) {
	v, ok := lookupAttr(e.node, name)
	if !ok {
		return "", nil
	}
	if (name == "href" || name == "src") && e.doc.base != nil {
		if ref, err := url.Parse(v); err == nil {
			return e.doc.base.ResolveReference(ref).String(), nil
		}
	}
	return v, nil
}

func (e *Element) Text() (string, error) {
	var b strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(e.node)
	return b.String(), nil
}

func (e *Element) OuterHTML() (string, error) {
	var b strings.Builder
	if err := html.Render(&b, e.node); err != nil {
		return "", err
	}
	return b.String(), nil
}

func (e *Element) ChildCount() (int, error) {
	n := 0
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			n++
		}
	}
	return n, nil
}

func (e *Element) Parent() (dom.Element, error) {
	p := e.node.Parent
	if p == nil || p.Type != html.ElementNode {
		return nil, nil
	}
	return e.doc.wrap(p), nil
}

func (e *Element) Children() ([]dom.Element, error) {
	var out []dom.Element
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, e.doc.wrap(c))
		}
	}
	return out, nil
}

func (e *Element) Style(prop string) (string, error) {
	v, _ := parseStyle(attr(e.node, "style")).get(prop)
	return v, nil
}

// SetStyle implements dom.Element by rewriting the style attribute, so
// OuterHTML and Attributes reflect inline changes the way a browser does.
func (e *Element) SetStyle(styles dom.Styles) error {
	decl := parseStyle(attr(e.node, "style"))
	props := make([]string, 0, len(styles))
	for k := range styles {
		props = append(props, k)
	}
	sort.Strings(props)
	for _, k := range props {
		decl = decl.set(k, styles[k])
	}
	if s := decl.String(); s != "" {
		setAttr(e.node, "style", s)
	} else {
		removeAttr(e.node, "style")
	}
	return nil
}

// ComputedStyle implements dom.Element. Only inline declarations and the
// display default are known to a static document.
func (e *Element) ComputedStyle(props ...string) (map[string]string, error) {
	decl := parseStyle(attr(e.node, "style"))
	out := make(map[string]string, len(props))
	for _, p := range props {
		if p == "display" {
			out[p] = displayOf(e.node)
			continue
		}
		v, _ := decl.get(p)
		out[p] = v
	}
	return out, nil
}

func (e *Element) SetAttribute(name, value string) error {
	setAttr(e.node, name, value)
	return nil
}

func (e *Element) ScrollIntoView() error { return nil }

func (e *Element) Screenshot() ([]byte, error) {
	return nil, dom.ErrUnsupported
}

func attr(n *html.Node, key string) string {
	v, _ := lookupAttr(n, key)
	return v
}

func lookupAttr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func setAttr(n *html.Node, key, val string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func removeAttr(n *html.Node, key string) {
	for i, a := range n.Attr {
		if a.Namespace == "" && a.Key == key {
			n.Attr = append(n.Attr[:i], n.Attr[i+1:]...)
			return
		}
	}
}
