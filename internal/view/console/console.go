// Package console echoes pickr's interface to a terminal: toasts as single
// lines and action results as boxed panels.
package console

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/v0xg/pickr/internal/view"
)

const panelWidth = 72

var (
	blue  = lipgloss.Color("#89B4FA")
	green = lipgloss.Color("#A6E3A1")
	amber = lipgloss.Color("#F9E2AF")
	red   = lipgloss.Color("203")
	muted = lipgloss.Color("#6B7280")
)

// Renderer implements view.Renderer by writing changes to w. It prints a
// toast once and a panel only when its content changed; hover previews are
// not echoed.
type Renderer struct {
	w  io.Writer
	lg *lipgloss.Renderer

	lastToast uint64
	lastPanel string
	lastMode  string
}

// New returns a renderer writing to w.
func New(w io.Writer) *Renderer {
	return &Renderer{w: w, lg: lipgloss.NewRenderer(w)}
}

// Render implements view.Renderer.
func (r *Renderer) Render(_ context.Context, s view.Screen) error {
	var out strings.Builder
	if m := string(s.Mode); m != r.lastMode {
		r.lastMode = m
		label := m
		if label == "" {
			label = "idle"
		}
		out.WriteString(r.lg.NewStyle().Foreground(muted).Render("mode: "+label) + "\n")
	}
	if t := s.Toast; t != nil && t.ID != r.lastToast {
		r.lastToast = t.ID
		out.WriteString(r.toast(t) + "\n")
	}
	if p := s.Sidebar; p != nil && p.Kind != view.PanelPreview {
		if text := r.Panel(p); text != r.lastPanel {
			r.lastPanel = text
			out.WriteString(text + "\n")
		}
	}
	if out.Len() == 0 {
		return nil
	}
	_, err := io.WriteString(r.w, out.String())
	return err
}

func (r *Renderer) toast(t *view.Toast) string {
	color := blue
	switch t.Level {
	case view.Success:
		color = green
	case view.Warning:
		color = amber
	case view.Error:
		color = red
	}
	tag := r.lg.NewStyle().Foreground(color).Bold(true).Render(fmt.Sprintf("[%s]", t.Level))
	return tag + " " + t.Message
}

// Panel renders a sidebar panel as a bordered box.
func (r *Renderer) Panel(p *view.Panel) string {
	if p == nil {
		return ""
	}
	border := blue
	if p.Kind == view.PanelError || (p.Result != nil && p.Result.Failed) {
		border = red
	}
	title := r.lg.NewStyle().Bold(true).Foreground(border)
	head := r.lg.NewStyle().Foreground(muted)

	var b strings.Builder
	b.WriteString(title.Render(p.Title))
	if p.Message != "" {
		b.WriteString("\n" + p.Message)
	}
	for _, pv := range p.Previews {
		b.WriteString("\n\n" + head.Render(pv.Title) + "\n" + pv.Content)
	}
	if m := p.Matches; m != nil {
		for _, s := range m.Samples {
			marker := " "
			if s.Selected {
				marker = ">"
			}
			line := fmt.Sprintf("%s %d. <%s> %s", marker, s.Position, s.Tag, s.Selector)
			if s.Text != "" {
				line += "  " + s.Text
			}
			b.WriteString("\n" + line)
		}
	}
	if res := p.Result; res != nil {
		b.WriteString("\n" + res.Feedback)
		if res.Value != "" {
			b.WriteString("\n\n" + res.Value)
		}
	}

	return r.lg.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Width(panelWidth).
		Render(b.String())
}
