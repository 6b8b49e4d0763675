package console

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/v0xg/pickr/internal/selection"
	"github.com/v0xg/pickr/internal/view"
)

func TestRender_ToastOnce(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf)
	s := view.Screen{Mode: selection.ModeMouse, Toast: &view.Toast{ID: 1, Message: "Moved up", Level: view.Info}}

	require.NoError(t, r.Render(context.Background(), s))
	require.NoError(t, r.Render(context.Background(), s))
	out := buf.String()
	assert.Contains(t, out, "mode: mouse")
	assert.Contains(t, out, "[info] Moved up")
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("Moved up")))

	s.Mode = selection.ModeNone
	s.Toast = nil
	require.NoError(t, r.Render(context.Background(), s))
	assert.Contains(t, buf.String(), "mode: idle")
}

func TestRender_ResultPanels(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf)
	preview := view.Screen{Sidebar: &view.Panel{Kind: view.PanelPreview, Title: "h1#title"}}
	require.NoError(t, r.Render(context.Background(), preview))
	assert.NotContains(t, buf.String(), "h1#title")

	result := view.Screen{Sidebar: &view.Panel{Kind: view.PanelResult, Title: "Result", Result: &view.ResultView{
		Feedback: "Copied 5 characters", Value: "Hello",
	}}}
	require.NoError(t, r.Render(context.Background(), result))
	require.NoError(t, r.Render(context.Background(), result))
	assert.Equal(t, 1, bytes.Count(buf.Bytes(), []byte("Copied 5 characters")))
	assert.Contains(t, buf.String(), "Hello")
}

func TestPanel_Matches(t *testing.T) {
	r := New(&bytes.Buffer{})
	out := r.Panel(&view.Panel{Kind: view.PanelQuery, Title: "Input Selector", Message: "Found 2 elements", Matches: &view.MatchList{
		Count: 2,
		Samples: []view.MatchSample{
			{Position: 1, Tag: "li", Selector: "ul > li", Text: "one", Selected: true},
			{Position: 2, Tag: "li", Selector: "ul > li:nth-child(2)"},
		},
	}})
	assert.Contains(t, out, "Found 2 elements")
	assert.Contains(t, out, "> 1. <li> ul > li  one")
	assert.Contains(t, out, "2. <li> ul > li:nth-child(2)")
	assert.Empty(t, r.Panel(nil))
}
