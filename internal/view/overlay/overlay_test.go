package overlay

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/v0xg/pickr/internal/action"
	"github.com/v0xg/pickr/internal/mode"
	"github.com/v0xg/pickr/internal/selection"
	"github.com/v0xg/pickr/internal/view"
)

type surface struct {
	html   []string
	mounts []Mount
	err    error
}

func (s *surface) Mount(_ context.Context, html string, m Mount) error {
	if s.err != nil {
		return s.err
	}
	s.html = append(s.html, html)
	s.mounts = append(s.mounts, m)
	return nil
}

func TestHTML_Idle(t *testing.T) {
	out, err := HTML(view.Screen{})
	require.NoError(t, err)
	assert.Contains(t, out, "<style>")
	assert.NotContains(t, out, "pickr-status")
	assert.NotContains(t, out, "pickr-sidebar")
}

func TestHTML_Sidebar(t *testing.T) {
	out, err := HTML(view.Screen{
		Mode:   selection.ModeMouse,
		Frozen: true,
		Target: "a#home",
		Sidebar: &view.Panel{
			Kind:     view.PanelPreview,
			Title:    "a#home",
			Previews: []view.Preview{{Title: "HTML", Content: `<a id="home">x</a>`, Kind: view.PreviewHTML}},
		},
	})
	require.NoError(t, err)
	assert.Contains(t, out, `id="pickr-status"`)
	assert.Contains(t, out, "frozen")
	assert.Contains(t, out, "&lt;a id=&#34;home&#34;&gt;x&lt;/a&gt;", "page content is escaped")
	assert.Contains(t, out, "pickr-preview-html")
}

func TestHTML_MatchesAndMenu(t *testing.T) {
	out, err := HTML(view.Screen{
		Mode: selection.ModeInput,
		Sidebar: &view.Panel{Kind: view.PanelQuery, Title: "Input Selector", Matches: &view.MatchList{
			Selector: "li", Count: 5, Index: 3,
			Samples: []view.MatchSample{{Position: 1, Tag: "li"}, {Position: 4, Tag: "li", Selected: true}},
		}},
		Menu: &view.ContextMenu{X: 12.4, Y: 30, Groups: []view.MenuGroup{
			{Category: "copy", Items: []view.MenuItem{{Key: "Y", Name: "Copy Inner Text"}}},
		}},
		Legend: []action.HelpSection{{Title: "INTERFACE", Entries: []action.HelpEntry{{Keys: "P", Name: "Pause"}}}},
		Toast:  &view.Toast{ID: 7, Message: "Copied", Level: view.Success},
	})
	require.NoError(t, err)
	assert.Contains(t, out, "5 matches for <code>li</code>, showing 4")
	assert.Contains(t, out, `pickr-match pickr-selected">4. &lt;li&gt;`)
	assert.Contains(t, out, `left: 12px; top: 30px`)
	assert.Contains(t, out, `data-pickr-action="Y"`)
	assert.Contains(t, out, `id="pickr-legend"`)
	assert.Contains(t, out, `pickr-toast" class="pickr-box pickr-success" data-pickr-toast="7"`)
}

func TestRender_SkipsUnchanged(t *testing.T) {
	s := &surface{}
	r := New(s)
	ctx := context.Background()
	screen := view.Screen{Mode: selection.ModeInput, Input: true, Claimed: []string{"escape", "y"}}

	require.NoError(t, r.Render(ctx, screen))
	require.NoError(t, r.Render(ctx, screen))
	require.Len(t, s.mounts, 1)
	assert.Equal(t, Mount{
		Mode:        selection.ModeInput,
		Input:       true,
		Placeholder: mode.Placeholder,
		Claimed:     []string{"escape", "y"},
	}, s.mounts[0])

	screen.Claimed = []string{"escape"}
	require.NoError(t, r.Render(ctx, screen))
	assert.Len(t, s.mounts, 2)

	r.Reset()
	require.NoError(t, r.Render(ctx, screen))
	assert.Len(t, s.mounts, 3)
}

func TestRender_RetriesAfterFailure(t *testing.T) {
	s := &surface{err: errors.New("detached")}
	r := New(s)
	screen := view.Screen{Mode: selection.ModeMouse}
	assert.Error(t, r.Render(context.Background(), screen))

	s.err = nil
	require.NoError(t, r.Render(context.Background(), screen))
	assert.Len(t, s.mounts, 1)
}
