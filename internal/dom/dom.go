// Package dom is the boundary between pickr's core and a page's document.
//
// The core never owns page nodes. It holds Element references, reads their
// geometry and text, and writes inline styles. Two documents implement the
// boundary: the live browser page (package browser) and parsed static HTML
// (package dom/static).
package dom

import (
	"errors"
	"strings"
)

// OverlayPrefix marks every element pickr injects into a page. An element is
// overlay-owned when it or one of its ancestors carries an id with this prefix.
const OverlayPrefix = "pickr-"

var (
	// ErrInvalidSelector is returned by Document.QueryAll for selectors that
	// do not parse.
	ErrInvalidSelector = errors.New("invalid selector")

	// ErrUnsupported is returned by operations a document cannot perform,
	// such as screenshots of static HTML.
	ErrUnsupported = errors.New("operation not supported by document")
)

// Styles maps CSS property names (kebab-case) to values. An empty value
// removes the property from the element's inline style.
type Styles map[string]string

// Attribute is a single name/value pair in source order.
type Attribute struct {
	Name  string
	Value string
}

// Element is a live reference into a page document.
type Element interface {
	// NodeID identifies the underlying node; two references to the same
	// node report the same id.
	NodeID() int64
	TagName() string
	ID() string
	ClassName() string
	// InOverlay reports whether the element belongs to pickr's own UI.
	InOverlay() bool

	Box() (Box, error)
	Attributes() ([]Attribute, error)
	Property(name string) (string, error)
	Text() (string, error)
	OuterHTML() (string, error)
	ChildCount() (int, error)
	Parent() (Element, error)
	Children() ([]Element, error)

	Style(prop string) (string, error)
	SetStyle(styles Styles) error
	ComputedStyle(props ...string) (map[string]string, error)
	SetAttribute(name, value string) error
	ScrollIntoView() error
	Screenshot() ([]byte, error)
}

// Document is the query surface of a page.
type Document interface {
	// QueryAll returns matches in document order. Syntax errors wrap
	// ErrInvalidSelector.
	QueryAll(selector string) ([]Element, error)
	// ElementFromPoint returns the topmost element rendered at a viewport
	// point, or nil when there is none.
	ElementFromPoint(x, y float64) (Element, error)
	// All returns every element of the document in document order.
	All() ([]Element, error)
}

// Same reports whether a and b refer to the same node. Two nil references
// are the same.
func Same(a, b Element) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.NodeID() == b.NodeID()
}

// IsOverlay reports whether el belongs to pickr's own UI. A nil element is
// not an overlay.
func IsOverlay(el Element) bool {
	return el != nil && el.InOverlay()
}

// OwnsID reports whether an element id belongs to pickr's UI.
func OwnsID(id string) bool {
	return strings.HasPrefix(id, OverlayPrefix)
}

// Describe renders a short tag#id.class label for logs and toasts.
func Describe(el Element) string {
	if el == nil {
		return "<nil>"
	}
	var b strings.Builder
	b.WriteString(el.TagName())
	if id := el.ID(); id != "" {
		b.WriteString("#")
		b.WriteString(id)
	}
	for _, c := range strings.Fields(el.ClassName()) {
		b.WriteString(".")
		b.WriteString(c)
	}
	return b.String()
}
