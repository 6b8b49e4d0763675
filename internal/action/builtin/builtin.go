// Package builtin defines the actions pickr ships with.
package builtin

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/v0xg/pickr/internal/action"
	"github.com/v0xg/pickr/internal/capture"
	"github.com/v0xg/pickr/internal/dom"
	"github.com/v0xg/pickr/internal/logger"
)

// InspectDuration is how long the inspect outline stays on an element.
const InspectDuration = 2 * time.Second

// Styles applied by the inspect and highlight actions.
var (
	InspectStyle = dom.Styles{
		"outline":        "3px solid #ff6b6b",
		"outline-offset": "2px",
	}
	HighlightStyle = dom.Styles{
		"background-color": "rgba(255, 255, 0, 0.3)",
		"outline":          "2px solid #f59e0b",
		"outline-offset":   "2px",
	}
)

// Deps are the hooks actions need from the session.
type Deps struct {
	// Commit selects and freezes el on the event loop.
	Commit func(el dom.Element)
	// After runs fn on the event loop once d has passed. Defaults to
	// time.AfterFunc.
	After func(d time.Duration, fn func())
	// Restore removes the temporary style temp from el once it expires; orig
	// is el's style from before. Defaults to putting orig back while temp
	// is still showing.
	Restore func(el dom.Element, temp, orig dom.Styles)
	Capture capture.Options
}

// Actions returns the built-in set in registration order.
func Actions(deps Deps) []action.Action {
	if deps.After == nil {
		deps.After = func(d time.Duration, fn func()) { time.AfterFunc(d, fn) }
	}
	if deps.Restore == nil {
		deps.Restore = restore
	}
	return []action.Action{
		{Key: action.ClickKey, Name: "Select Element", Description: "Select the element and pause tracking", Execute: selectElement(deps.Commit)},
		{Key: "y", Name: "Copy Inner Text", Description: "Copy element text content", Category: "copy", Execute: copyText},
		{Key: "h", Name: "Copy HTML", Description: "Copy element HTML", Category: "copy", Execute: copyHTML},
		{Key: "s", Name: "Copy Selector", Description: "Copy CSS selector for element", Category: "copy", Execute: copySelector},
		{Key: "a", Name: "Copy Attributes", Description: "Copy element attributes as JSON", Category: "copy", Execute: copyAttributes},
		{Key: "u", Name: "Copy URL", Description: "Copy element href or src URL", Category: "copy", Execute: copyURL},
		{Key: "i", Name: "Inspect Element", Description: "Outline the element briefly", Category: "Inspect", Execute: inspect(deps.After, deps.Restore)},
		{Key: "l", Name: "Highlight Element", Description: "Add permanent highlight to element", Category: "modify", Execute: highlight},
		{Key: "z", Name: "Capture Element", Description: "Save a thumbnail screenshot of the element", Category: "capture", Execute: captureElement(deps.Capture)},
	}
}

// Register adds every built-in action to reg. Registration failures are
// logged by the registry and skipped here.
func Register(reg *action.Registry, deps Deps) int {
	n := 0
	for _, a := range Actions(deps) {
		if reg.Register(a) == nil {
			n++
		}
	}
	return n
}

func selectElement(commit func(dom.Element)) action.ExecFunc {
	return func(_ context.Context, el dom.Element) (action.Result, error) {
		if commit != nil {
			commit(el)
		}
		return action.Result{Feedback: "Selected " + dom.Describe(el)}, nil
	}
}

func copyText(_ context.Context, el dom.Element) (action.Result, error) {
	text, err := el.Text()
	if err != nil {
		return action.Result{}, err
	}
	return action.Result{Feedback: fmt.Sprintf("Copied %d characters", len([]rune(text))), Value: text}, nil
}

func copyHTML(_ context.Context, el dom.Element) (action.Result, error) {
	h, err := el.OuterHTML()
	if err != nil {
		return action.Result{}, err
	}
	return action.Result{Feedback: fmt.Sprintf("Copied HTML (%d chars)", len([]rune(h))), Value: h}, nil
}

func copySelector(_ context.Context, el dom.Element) (action.Result, error) {
	sel, err := dom.Path(el)
	if err != nil {
		return action.Result{}, err
	}
	return action.Result{Feedback: "Copied selector: " + sel, Value: sel}, nil
}

// orderedAttrs marshals as a JSON object keeping source order.
type orderedAttrs []dom.Attribute

func (o orderedAttrs) MarshalJSON() ([]byte, error) {
	var b strings.Builder
	b.WriteByte('{')
	for i, a := range o {
		if i > 0 {
			b.WriteByte(',')
		}
		k, err := json.Marshal(a.Name)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(a.Value)
		if err != nil {
			return nil, err
		}
		b.Write(k)
		b.WriteByte(':')
		b.Write(v)
	}
	b.WriteByte('}')
	return []byte(b.String()), nil
}

func copyAttributes(_ context.Context, el dom.Element) (action.Result, error) {
	attrs, err := el.Attributes()
	if err != nil {
		return action.Result{}, err
	}
	out, err := json.MarshalIndent(orderedAttrs(attrs), "", "  ")
	if err != nil {
		return action.Result{}, err
	}
	return action.Result{Feedback: fmt.Sprintf("Copied %d attributes", len(attrs)), Value: string(out)}, nil
}

func copyURL(_ context.Context, el dom.Element) (action.Result, error) {
	for _, prop := range []string{"href", "src"} {
		u, err := el.Property(prop)
		if err != nil {
			return action.Result{}, err
		}
		if u != "" {
			return action.Result{Feedback: "Copied URL: " + u, Value: u}, nil
		}
	}
	return action.Result{Feedback: "No URL found on element"}, nil
}

func restore(el dom.Element, temp, orig dom.Styles) {
	if cur, _ := el.Style("outline"); cur != temp["outline"] {
		return
	}
	if err := el.SetStyle(orig); err != nil {
		logger.Debugf("inspect: restore %s failed: %v", dom.Describe(el), err)
	}
}

func inspect(after func(time.Duration, func()), restore func(dom.Element, dom.Styles, dom.Styles)) action.ExecFunc {
	return func(_ context.Context, el dom.Element) (action.Result, error) {
		outline, err := el.Style("outline")
		if err != nil {
			return action.Result{}, err
		}
		offset, _ := el.Style("outline-offset")
		if err := el.SetStyle(InspectStyle); err != nil {
			return action.Result{}, err
		}
		orig := dom.Styles{"outline": outline, "outline-offset": offset}
		after(InspectDuration, func() { restore(el, InspectStyle, orig) })
		return action.Result{Feedback: "Element highlighted - check dev tools"}, nil
	}
}

// highlight keeps the element's own background and outline in data
// attributes so they can be recovered from the page.
func highlight(_ context.Context, el dom.Element) (action.Result, error) {
	bg, err := el.Style("background-color")
	if err != nil {
		return action.Result{}, err
	}
	outline, _ := el.Style("outline")
	if err := el.SetStyle(HighlightStyle); err != nil {
		return action.Result{}, err
	}
	if err := el.SetAttribute("data-pickr-original-background", bg); err != nil {
		return action.Result{}, err
	}
	if err := el.SetAttribute("data-pickr-original-outline", outline); err != nil {
		return action.Result{}, err
	}
	return action.Result{
		Feedback: fmt.Sprintf("Highlighted %s element", el.TagName()),
		Value: map[string]string{
			"element":            strings.ToUpper(el.TagName()),
			"originalBackground": bg,
			"originalOutline":    outline,
		},
	}, nil
}

func captureElement(opts capture.Options) action.ExecFunc {
	return func(_ context.Context, el dom.Element) (action.Result, error) {
		data, err := el.Screenshot()
		if err != nil {
			return action.Result{}, err
		}
		path, size, err := capture.Save(data, opts)
		if err != nil {
			return action.Result{}, err
		}
		return action.Result{Feedback: fmt.Sprintf("Captured %s (%d KB)", dom.Describe(el), (size+1023)/1024), Value: path}, nil
	}
}
