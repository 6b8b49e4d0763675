// Package overlay draws pickr's interface into the page it is inspecting.
//
// The renderer turns a view.Screen into one HTML fragment and hands it to a
// Surface, which replaces the content of pickr's root element. The selector
// input is not part of the fragment: the page shim owns it so that focus and
// caret survive re-renders.
package overlay

import (
	"bytes"
	"context"
	_ "embed"
	"fmt"
	"html/template"
	"slices"

	"github.com/v0xg/pickr/internal/mode"
	"github.com/v0xg/pickr/internal/selection"
	"github.com/v0xg/pickr/internal/view"
)

//go:embed overlay.tmpl
var source string

var page = template.Must(template.New("overlay").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
	"px":  func(v float64) template.CSS { return template.CSS(fmt.Sprintf("%.0fpx", v)) },
}).Parse(source))

// Mount is the state the page shim needs besides the markup.
type Mount struct {
	Mode        selection.Mode `json:"mode"`
	Menu        bool           `json:"menu"`
	Input       bool           `json:"input"`
	Placeholder string         `json:"placeholder"`
	Claimed     []string       `json:"claimed"`
}

// Surface is where the overlay is drawn.
type Surface interface {
	Mount(ctx context.Context, html string, m Mount) error
}

// Renderer implements view.Renderer over a Surface. It skips renders that
// would not change the page.
type Renderer struct {
	surface Surface
	html    string
	mount   *Mount
}

// New returns a renderer drawing on s.
func New(s Surface) *Renderer {
	return &Renderer{surface: s}
}

// HTML renders the markup for s.
func HTML(s view.Screen) (string, error) {
	var buf bytes.Buffer
	if err := page.Execute(&buf, s); err != nil {
		return "", fmt.Errorf("failed to render overlay: %w", err)
	}
	return buf.String(), nil
}

// Render implements view.Renderer.
func (r *Renderer) Render(ctx context.Context, s view.Screen) error {
	html, err := HTML(s)
	if err != nil {
		return err
	}
	m := Mount{
		Mode:    s.Mode,
		Menu:    s.Menu != nil,
		Input:   s.Input,
		Claimed: s.Claimed,
	}
	if s.Input {
		m.Placeholder = mode.Placeholder
	}
	if r.mount != nil && html == r.html && sameMount(*r.mount, m) {
		return nil
	}
	if err := r.surface.Mount(ctx, html, m); err != nil {
		return err
	}
	r.html, r.mount = html, &m
	return nil
}

// Reset forgets what was last drawn, so the next render always reaches the
// surface. Call it after the page navigated.
func (r *Renderer) Reset() {
	r.html, r.mount = "", nil
}

func sameMount(a, b Mount) bool {
	return a.Mode == b.Mode && a.Menu == b.Menu && a.Input == b.Input &&
		a.Placeholder == b.Placeholder && slices.Equal(a.Claimed, b.Claimed)
}
