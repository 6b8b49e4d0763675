package mode

import (
	"errors"
	"fmt"
	"strings"

	"github.com/v0xg/pickr/internal/dom"
	"github.com/v0xg/pickr/internal/logger"
)

// Placeholder is shown while the selector input is empty.
const Placeholder = "Type a CSS selector to find elements"

// NoValidElements is reported when every match belongs to pickr's UI.
const NoValidElements = "No valid elements found (excluding interface elements)"

// QueryResult is the match list of an input-mode selector with a cursor.
// Index stays within bounds while Elements is non-empty.
type QueryResult struct {
	Selector string
	Elements []dom.Element
	Index    int
}

// Len returns the number of matches.
func (q *QueryResult) Len() int {
	if q == nil {
		return 0
	}
	return len(q.Elements)
}

// Current returns the match under the cursor, or nil.
func (q *QueryResult) Current() dom.Element {
	if q.Len() == 0 {
		return nil
	}
	return q.Elements[q.Index]
}

// Next advances the cursor, wrapping to the first match.
func (q *QueryResult) Next() dom.Element {
	if q.Len() == 0 {
		return nil
	}
	q.Index = (q.Index + 1) % len(q.Elements)
	return q.Elements[q.Index]
}

// Previous moves the cursor back, wrapping to the last match.
func (q *QueryResult) Previous() dom.Element {
	if q.Len() == 0 {
		return nil
	}
	q.Index = (q.Index - 1 + len(q.Elements)) % len(q.Elements)
	return q.Elements[q.Index]
}

// QueryStatus is what the sidebar shows for the selector input. Exactly one
// of Result and Message is meaningful: a non-nil Result lists matches,
// otherwise Message is guidance or, when Error is set, a failure.
type QueryStatus struct {
	Selector string
	Message  string
	Error    bool
	Result   *QueryResult
}

// Query runs the typed selector against doc without touching the selection.
// Checks run in order: empty input, syntax, zero matches, matches that are
// all pickr UI.
func Query(doc dom.Document, text string) QueryStatus {
	sel := strings.TrimSpace(text)
	if sel == "" {
		return QueryStatus{Message: Placeholder}
	}
	all, err := doc.QueryAll(sel)
	if err != nil {
		if !errors.Is(err, dom.ErrInvalidSelector) {
			logger.Warnf("mode: query %q failed: %v", sel, err)
		}
		return QueryStatus{Selector: sel, Message: "Invalid selector: " + sel, Error: true}
	}
	if len(all) == 0 {
		return QueryStatus{Selector: sel, Message: "No elements found for selector: " + sel, Error: true}
	}

	valid := make([]dom.Element, 0, len(all))
	for _, el := range all {
		if !dom.IsOverlay(el) {
			valid = append(valid, el)
		}
	}
	if len(valid) == 0 {
		return QueryStatus{Selector: sel, Message: NoValidElements, Error: true}
	}
	return found(&QueryResult{Selector: sel, Elements: valid})
}

func found(r *QueryResult) QueryStatus {
	return QueryStatus{
		Selector: r.Selector,
		Message:  fmt.Sprintf("Found %d elements", r.Len()),
		Result:   r,
	}
}
