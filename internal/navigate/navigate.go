// Package navigate computes the element a directional or sequential move
// lands on.
//
// Moves never wrap and never search further than one step: repeated moves
// are how a user walks across the page. The visible-element list is rebuilt
// on every sequential move so results track a mutating page.
package navigate

import (
	"fmt"

	"github.com/v0xg/pickr/internal/dom"
)

// ProbeOffset is how far beyond an element's edge a directional move probes.
const ProbeOffset = 10

// Direction is a move direction.
type Direction string

const (
	Up       Direction = "up"
	Down     Direction = "down"
	Left     Direction = "left"
	Right    Direction = "right"
	Previous Direction = "previous"
	Next     Direction = "next"
)

// Spatial reports whether d is one of the four geometric directions.
func (d Direction) Spatial() bool {
	return d == Up || d == Down || d == Left || d == Right
}

// Engine resolves moves against a document.
type Engine struct {
	doc dom.Document
}

// New returns an engine over doc.
func New(doc dom.Document) *Engine {
	return &Engine{doc: doc}
}

// Move dispatches to FindInDirection, FindPrevious or FindNext.
func (e *Engine) Move(el dom.Element, d Direction) (dom.Element, error) {
	switch {
	case d.Spatial():
		return e.FindInDirection(el, d)
	case d == Previous:
		return e.FindPrevious(el)
	case d == Next:
		return e.FindNext(el)
	}
	return nil, fmt.Errorf("unknown direction %q", d)
}

// probe returns the point ProbeOffset px past the edge of r facing d, centred
// on the other axis.
func probe(r dom.Rect, d Direction) (x, y float64, ok bool) {
	switch d {
	case Up:
		return r.CenterX(), r.Top() - ProbeOffset, true
	case Down:
		return r.CenterX(), r.Bottom() + ProbeOffset, true
	case Left:
		return r.Left() - ProbeOffset, r.CenterY(), true
	case Right:
		return r.Right() + ProbeOffset, r.CenterY(), true
	}
	return 0, 0, false
}

// FindInDirection hit-tests a single point beyond el's edge. It returns nil
// when nothing is there or the hit is el itself.
func (e *Engine) FindInDirection(el dom.Element, d Direction) (dom.Element, error) {
	if el == nil {
		return nil, nil
	}
	box, err := el.Box()
	if err != nil {
		return nil, fmt.Errorf("failed to measure %s: %w", dom.Describe(el), err)
	}
	x, y, ok := probe(box.Rect, d)
	if !ok {
		return nil, fmt.Errorf("unknown direction %q", d)
	}
	hit, err := e.doc.ElementFromPoint(x, y)
	if err != nil {
		return nil, fmt.Errorf("hit test at (%.0f, %.0f) failed: %w", x, y, err)
	}
	if hit == nil || dom.Same(hit, el) {
		return nil, nil
	}
	return hit, nil
}

// Visible lists, in document order, every element that is not part of
// pickr's UI, has a non-empty rect and is not display:none.
func (e *Engine) Visible() ([]dom.Element, error) {
	all, err := e.doc.All()
	if err != nil {
		return nil, fmt.Errorf("failed to list elements: %w", err)
	}
	out := make([]dom.Element, 0, len(all))
	for _, el := range all {
		if dom.IsOverlay(el) {
			continue
		}
		box, err := el.Box()
		if err != nil || !box.Rendered() {
			continue
		}
		out = append(out, el)
	}
	return out, nil
}

// FindPrevious returns the visible element before el, or nil at the start of
// the list or when el is no longer in it.
func (e *Engine) FindPrevious(el dom.Element) (dom.Element, error) {
	return e.adjacent(el, -1)
}

// FindNext returns the visible element after el, or nil at the end of the
// list or when el is no longer in it.
func (e *Engine) FindNext(el dom.Element) (dom.Element, error) {
	return e.adjacent(el, 1)
}

func (e *Engine) adjacent(el dom.Element, step int) (dom.Element, error) {
	if el == nil {
		return nil, nil
	}
	list, err := e.Visible()
	if err != nil {
		return nil, err
	}
	idx := -1
	for i, v := range list {
		if dom.Same(v, el) {
			idx = i
			break
		}
	}
	if idx < 0 {
		return nil, nil
	}
	j := idx + step
	if j < 0 || j >= len(list) {
		return nil, nil
	}
	return list[j], nil
}
