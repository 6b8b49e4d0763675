package selection

import (
	"github.com/v0xg/pickr/internal/dom"
	"github.com/v0xg/pickr/internal/logger"
)

// Highlight styles applied to targeted elements.
var (
	HoverStyle = dom.Styles{
		"outline":        "2px solid rgba(59, 130, 246, 0.6)",
		"outline-offset": "2px",
	}
	SelectedStyle = dom.Styles{
		"outline":        "3px solid #10b981",
		"outline-offset": "2px",
	}
)

// saved is an element's inline outline before pickr painted it.
type saved struct {
	el      dom.Element
	outline string
	offset  string
	// style is the highlight currently applied.
	style dom.Styles
}

type subscriber struct {
	id int
	fn func(Change)
}

// Store holds the selection State and the styles pickr applied to the page.
type Store struct {
	state  State
	subs   []subscriber
	nextID int

	painted map[int64]saved
	// highlight gates painting; nil means enabled.
	highlight func() bool
}

// NewStore returns an idle store.
func NewStore() *Store {
	return &Store{painted: make(map[int64]saved)}
}

// SetHighlightEnabled installs the gate consulted before painting.
func (s *Store) SetHighlightEnabled(fn func() bool) {
	s.highlight = fn
}

// State returns a snapshot.
func (s *Store) State() State {
	return s.state
}

// Current returns the targeted element, or nil.
func (s *Store) Current() dom.Element {
	return s.state.Current
}

// Subscribe registers fn and returns a function that removes it.
func (s *Store) Subscribe(fn func(Change)) func() {
	s.nextID++
	id := s.nextID
	s.subs = append(s.subs, subscriber{id: id, fn: fn})
	return func() {
		for i, sub := range s.subs {
			if sub.id == id {
				s.subs = append(s.subs[:i], s.subs[i+1:]...)
				return
			}
		}
	}
}

func (s *Store) notify(kind ChangeKind, prev dom.Element) {
	c := Change{Kind: kind, State: s.state, Previous: prev}
	for _, sub := range append([]subscriber(nil), s.subs...) {
		sub.fn(c)
	}
}

// Set targets el with the hover style. It is refused while frozen and for
// nil elements, and reports whether el became current.
func (s *Store) Set(el dom.Element) bool {
	if el == nil || s.state.Frozen {
		return false
	}
	prev := s.state.Current
	if prev != nil && !dom.Same(prev, el) {
		s.Unpaint(prev)
	}
	s.state.Current = el
	s.Paint(el, HoverStyle)
	s.notify(ChangeSet, prev)
	return true
}

// SetFromPointer is Set for pointer-driven retargeting, which pausing
// additionally suppresses.
func (s *Store) SetFromPointer(el dom.Element) bool {
	if s.state.Paused {
		return false
	}
	return s.Set(el)
}

// Select commits el: it becomes current, the selection pauses and the
// selected style is applied. Select is not subject to freezing.
func (s *Store) Select(el dom.Element) {
	if el == nil {
		return
	}
	prev := s.state.Current
	if prev != nil && !dom.Same(prev, el) {
		s.Unpaint(prev)
	}
	s.state.Current = el
	s.state.Paused = true
	s.Paint(el, SelectedStyle)
	s.notify(ChangeSelect, prev)
}

// Clear restores the current element's style and drops it. Clearing an
// empty selection does nothing.
func (s *Store) Clear() {
	prev := s.state.Current
	if prev == nil {
		return
	}
	s.Unpaint(prev)
	s.state.Current = nil
	s.notify(ChangeClear, prev)
}

// Freeze locks the current element against retargeting.
func (s *Store) Freeze() {
	if s.state.Frozen {
		return
	}
	s.state.Frozen = true
	s.notify(ChangeFreeze, s.state.Current)
}

// Unfreeze releases a freeze.
func (s *Store) Unfreeze() {
	if !s.state.Frozen {
		return
	}
	s.state.Frozen = false
	s.notify(ChangeUnfreeze, s.state.Current)
}

// SetPaused pauses or resumes pointer and query retargeting.
func (s *Store) SetPaused(paused bool) {
	if s.state.Paused == paused {
		return
	}
	s.state.Paused = paused
	kind := ChangeResume
	if paused {
		kind = ChangePause
	}
	s.notify(kind, s.state.Current)
}

// SetSidebarOpen records the sidebar visibility.
func (s *Store) SetSidebarOpen(open bool) {
	if s.state.SidebarOpen == open {
		return
	}
	s.state.SidebarOpen = open
	s.notify(ChangeSidebar, s.state.Current)
}

// Reset clears the selection, restores every painted element and starts
// mode with all flags off. ModeNone returns the store to idle.
func (s *Store) Reset(mode Mode) {
	prev := s.state.Current
	s.UnpaintAll()
	s.state = State{ActiveMode: mode}
	s.notify(ChangeReset, prev)
}

// Paint applies an outline style to el, remembering the element's own
// inline outline the first time it is painted.
func (s *Store) Paint(el dom.Element, style dom.Styles) {
	if el == nil || (s.highlight != nil && !s.highlight()) {
		return
	}
	id := el.NodeID()
	if _, ok := s.painted[id]; !ok {
		outline, _ := el.Style("outline")
		offset, _ := el.Style("outline-offset")
		s.painted[id] = saved{el: el, outline: outline, offset: offset}
	}
	sv := s.painted[id]
	sv.style = style
	s.painted[id] = sv
	if err := el.SetStyle(style); err != nil {
		logger.Debugf("selection: paint %s failed: %v", dom.Describe(el), err)
	}
}

// Unpaint restores el's original outline if pickr painted it.
func (s *Store) Unpaint(el dom.Element) {
	if el == nil {
		return
	}
	orig, ok := s.painted[el.NodeID()]
	if !ok {
		return
	}
	delete(s.painted, el.NodeID())
	err := el.SetStyle(dom.Styles{"outline": orig.outline, "outline-offset": orig.offset})
	if err != nil {
		logger.Debugf("selection: unpaint %s failed: %v", dom.Describe(el), err)
	}
}

// Restore ends the temporary outline temp that an action laid over el when
// el's outline was orig. An element pickr still paints gets its highlight
// back. Any other element gets orig, unless it was restyled meanwhile.
func (s *Store) Restore(el dom.Element, temp, orig dom.Styles) {
	if el == nil {
		return
	}
	id := el.NodeID()
	sv, tracked := s.painted[id]
	if tracked && sv.outline == temp["outline"] {
		// Painted over temp, so temp was remembered as the original.
		sv.outline, sv.offset = orig["outline"], orig["outline-offset"]
		s.painted[id] = sv
	}
	if cur, _ := el.Style("outline"); cur != temp["outline"] {
		return
	}
	style := orig
	if tracked {
		style = sv.style
	}
	if err := el.SetStyle(style); err != nil {
		logger.Debugf("selection: restore %s failed: %v", dom.Describe(el), err)
	}
}

// UnpaintAll restores every painted element.
func (s *Store) UnpaintAll() {
	for _, orig := range s.painted {
		s.Unpaint(orig.el)
	}
}

// Painted reports how many elements currently carry pickr styles.
func (s *Store) Painted() int {
	return len(s.painted)
}
