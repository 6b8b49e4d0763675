package app

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/v0xg/pickr/internal/action"
	"github.com/v0xg/pickr/internal/clipboard"
	"github.com/v0xg/pickr/internal/config"
	"github.com/v0xg/pickr/internal/dispatch"
	"github.com/v0xg/pickr/internal/dom"
	"github.com/v0xg/pickr/internal/dom/static"
	"github.com/v0xg/pickr/internal/selection"
	"github.com/v0xg/pickr/internal/settings"
	"github.com/v0xg/pickr/internal/view"
)

const page = `<html><body>
<h1 id="title">Hello</h1>
<ul><li class="item">one</li><li class="item">two</li></ul>
</body></html>`

type screens struct {
	mu  sync.Mutex
	all []view.Screen
}

func (s *screens) Render(_ context.Context, sc view.Screen) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.all = append(s.all, sc)
	return nil
}

func (s *screens) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.all)
}

type session struct {
	*Context
	doc  *static.Document
	clip *clipboard.Memory
	out  *screens
}

func start(t *testing.T, opts Options) *session {
	t.Helper()
	doc, err := static.ParseString(page)
	require.NoError(t, err)

	if opts.Config == nil {
		opts.Config = config.NewDefaultConfig()
		opts.Config.Timing.DebounceMS = 5
	}
	s := &session{doc: doc, clip: &clipboard.Memory{}, out: &screens{}}
	opts.Document = doc
	opts.Clipboard = s.clip
	opts.Renderer = s.out
	c, err := New(opts)
	require.NoError(t, err)
	s.Context = c

	ctx, cancel := context.WithCancel(context.Background())
	stopped := make(chan struct{})
	go func() {
		_ = c.Run(ctx)
		close(stopped)
	}()
	t.Cleanup(func() {
		cancel()
		<-stopped
	})
	return s
}

func (s *session) el(t *testing.T, sel string) dom.Element {
	t.Helper()
	el, err := s.doc.First(sel)
	require.NoError(t, err)
	require.NotNil(t, el)
	return el
}

func (s *session) do(t *testing.T, fn func()) {
	t.Helper()
	require.NoError(t, s.Do(fn))
}

func (s *session) screen(t *testing.T) view.Screen {
	t.Helper()
	var sc view.Screen
	s.do(t, func() { sc = s.Screen() })
	return sc
}

func (s *session) key(t *testing.T, k string) bool {
	t.Helper()
	var consumed bool
	s.do(t, func() { consumed = s.HandleKey(dispatch.KeyEvent{Key: k}) })
	return consumed
}

func (s *session) waitToast(t *testing.T, msg string) {
	t.Helper()
	require.Eventually(t, func() bool {
		sc := s.screen(t)
		return sc.Toast != nil && sc.Toast.Message == msg
	}, time.Second, 5*time.Millisecond, "toast %q", msg)
}

func TestNew_RejectsBadKeymap(t *testing.T) {
	doc, err := static.ParseString(page)
	require.NoError(t, err)
	cfg := config.NewDefaultConfig()
	cfg.Keymap = map[string][]string{"teleport": {"t"}}

	_, err = New(Options{Config: cfg, Document: doc})
	assert.ErrorContains(t, err, "invalid keymap")

	_, err = New(Options{})
	assert.Error(t, err)
}

func TestMouseMode_HoverAndCopy(t *testing.T) {
	s := start(t, Options{})
	s.do(t, s.ToggleMouse)

	sc := s.screen(t)
	assert.Equal(t, selection.ModeMouse, sc.Mode)
	require.NotNil(t, sc.Sidebar)
	assert.Equal(t, view.PanelPreview, sc.Sidebar.Kind)
	require.NotEmpty(t, sc.Legend)
	assert.Equal(t, "INTERFACE", sc.Legend[len(sc.Legend)-1].Title)

	title := s.el(t, "#title")
	s.do(t, func() { s.HandlePointerMove(title) })
	sc = s.screen(t)
	assert.Equal(t, "h1#title", sc.Target)
	assert.Equal(t, "h1#title", sc.Sidebar.Title)

	assert.True(t, s.key(t, "y"))
	s.waitToast(t, "Copied 5 characters")
	last, ok := s.clip.Last()
	require.True(t, ok)
	assert.Equal(t, "Hello", last)

	sc = s.screen(t)
	require.NotNil(t, sc.Sidebar)
	assert.Equal(t, view.PanelResult, sc.Sidebar.Kind)
	assert.Equal(t, "Hello", sc.Sidebar.Result.Value)
	assert.Positive(t, s.out.count())
}

func TestMouseMode_ClickFreezes(t *testing.T) {
	s := start(t, Options{})
	s.do(t, s.ToggleMouse)
	item := s.el(t, "li.item")
	s.do(t, func() { s.HandlePointerMove(item) })

	var suppressed bool
	s.do(t, func() { suppressed = s.HandleClick(item) })
	assert.True(t, suppressed)

	require.Eventually(t, func() bool { return s.screen(t).Frozen }, time.Second, 5*time.Millisecond)
	sc := s.screen(t)
	assert.True(t, sc.Paused)
	assert.Equal(t, "li.item", sc.Target)

	// frozen highlights ignore the pointer
	s.do(t, func() { s.HandlePointerMove(s.el(t, "#title")) })
	assert.Equal(t, "li.item", s.screen(t).Target)

	assert.True(t, s.key(t, "escape"))
	s.waitToast(t, "Highlights unfrozen")
	assert.False(t, s.screen(t).Frozen)
}

func TestToggle_UnwindsOneLayerAtATime(t *testing.T) {
	s := start(t, Options{})
	s.do(t, s.ToggleMouse)
	require.NotNil(t, s.screen(t).Sidebar)

	s.do(t, s.ToggleMouse)
	sc := s.screen(t)
	assert.Equal(t, selection.ModeMouse, sc.Mode)
	assert.Nil(t, sc.Sidebar)

	s.do(t, s.ToggleMouse)
	sc = s.screen(t)
	assert.Equal(t, selection.ModeNone, sc.Mode)
	assert.Empty(t, sc.Legend)
	require.NotNil(t, sc.Toast)
	assert.Equal(t, "Mode exited", sc.Toast.Message)

	s.do(t, s.ToggleInput)
	assert.Equal(t, selection.ModeInput, s.screen(t).Mode)
	s.do(t, s.ToggleMouse)
	assert.Equal(t, selection.ModeMouse, s.screen(t).Mode)
}

func TestInputMode_ShowsMatches(t *testing.T) {
	s := start(t, Options{})
	s.do(t, s.ToggleInput)
	sc := s.screen(t)
	assert.True(t, sc.Input)
	require.NotNil(t, sc.Sidebar)
	assert.Equal(t, view.PanelQuery, sc.Sidebar.Kind)

	s.do(t, func() { s.HandleInput("li.item") })
	require.Eventually(t, func() bool {
		p := s.screen(t).Sidebar
		return p != nil && p.Matches != nil
	}, time.Second, 5*time.Millisecond)
	sc = s.screen(t)
	assert.Equal(t, 2, sc.Sidebar.Matches.Count)
	assert.Equal(t, "Found 2 elements", sc.Sidebar.Message)
	assert.Equal(t, "li.item", sc.Target)

	assert.True(t, s.key(t, "arrowdown"))
	s.waitToast(t, "Element 2 of 2")

	s.do(t, func() { s.HandleInput("li[") })
	require.Eventually(t, func() bool {
		p := s.screen(t).Sidebar
		return p != nil && p.Kind == view.PanelError
	}, time.Second, 5*time.Millisecond)
}

func TestInputMode_MovePreviewsNewTarget(t *testing.T) {
	s := start(t, Options{})
	s.doc.SetBox(s.el(t, "#title"), dom.Rect{X: 0, Y: 0, Width: 200, Height: 30})
	s.doc.SetBox(s.el(t, "li.item"), dom.Rect{X: 0, Y: 35, Width: 200, Height: 20})

	s.do(t, s.ToggleInput)
	s.do(t, func() { s.HandleInput("#title") })
	require.Eventually(t, func() bool {
		p := s.screen(t).Sidebar
		return p != nil && p.Matches != nil
	}, time.Second, 5*time.Millisecond)
	sc := s.screen(t)
	require.NotEmpty(t, sc.Sidebar.Previews)
	assert.Equal(t, "Hello", sc.Sidebar.Previews[0].Content)

	assert.True(t, s.key(t, "x"))
	sc = s.screen(t)
	assert.Equal(t, "li.item", sc.Target)
	require.NotNil(t, sc.Sidebar)
	assert.Equal(t, view.PanelQuery, sc.Sidebar.Kind)
	assert.NotNil(t, sc.Sidebar.Matches, "the match list stays")
	require.NotEmpty(t, sc.Sidebar.Previews)
	assert.Equal(t, "one", sc.Sidebar.Previews[0].Content)
}

func TestInputMode_CommitShowsResultAndHoldsCursor(t *testing.T) {
	s := start(t, Options{})
	s.do(t, s.ToggleInput)
	s.do(t, func() { s.HandleInput("li.item") })
	require.Eventually(t, func() bool {
		p := s.screen(t).Sidebar
		return p != nil && p.Matches != nil
	}, time.Second, 5*time.Millisecond)

	assert.True(t, s.key(t, "enter"))
	require.Eventually(t, func() bool {
		p := s.screen(t).Sidebar
		return p != nil && p.Kind == view.PanelResult
	}, time.Second, 5*time.Millisecond)
	sc := s.screen(t)
	assert.Equal(t, "Selected li.item", sc.Sidebar.Result.Feedback)
	assert.True(t, sc.Frozen)

	first := s.el(t, "li.item")
	assert.True(t, s.key(t, "arrowdown"))
	s.waitToast(t, "Highlights frozen - ESC to unfreeze")
	var cur dom.Element
	s.do(t, func() { cur = s.Store.Current() })
	assert.True(t, dom.Same(first, cur))
}

func TestCustomAction_ReachesClipboard(t *testing.T) {
	s := start(t, Options{SkipBuiltins: true})
	require.NoError(t, s.Registry.Register(action.Action{
		Key:  "t",
		Name: "Test",
		Execute: func(context.Context, dom.Element) (action.Result, error) {
			return action.Result{Feedback: "done", Value: "hi"}, nil
		},
	}))

	assert.False(t, s.key(t, "t"), "idle sessions ignore keys")

	s.do(t, s.ToggleMouse)
	assert.True(t, s.key(t, "t"))
	s.waitToast(t, "No element selected")

	s.do(t, func() { s.HandlePointerMove(s.el(t, "#title")) })
	assert.True(t, s.key(t, "t"))
	s.waitToast(t, "done")
	assert.Equal(t, []string{"hi"}, s.clip.Writes())
	first := s.screen(t).Toast.ID

	s.do(t, func() { s.ApplySetting(settings.CopyClipboard, false) })
	assert.True(t, s.key(t, "t"))
	require.Eventually(t, func() bool {
		sc := s.screen(t)
		return sc.Toast != nil && sc.Toast.ID > first
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"hi"}, s.clip.Writes())
}

func TestContextMenu_PickRunsAction(t *testing.T) {
	s := start(t, Options{})
	s.do(t, s.ToggleMouse)
	title := s.el(t, "#title")

	s.do(t, func() { s.HandleContextMenu(title, 10, 20) })
	sc := s.screen(t)
	require.NotNil(t, sc.Menu)
	assert.Equal(t, "h1#title", sc.Target)

	s.do(t, func() { s.HandleMenuPick("s") })
	s.waitToast(t, "Copied selector: #title")
	assert.Nil(t, s.screen(t).Menu)
}

func TestSettings_NotificationsAndHighlight(t *testing.T) {
	s := start(t, Options{})
	s.do(t, func() { s.ApplySetting(settings.ShowNotifications, false) })
	s.do(t, s.ToggleMouse)
	assert.Nil(t, s.screen(t).Toast)

	s.do(t, func() { s.HandlePointerMove(s.el(t, "#title")) })
	var painted int
	s.do(t, func() { painted = s.Store.Painted() })
	assert.Equal(t, 1, painted)

	s.do(t, func() { s.ApplySetting(settings.HighlightElements, false) })
	// the change handler is posted; a second round trip runs after it
	s.do(t, func() {})
	s.do(t, func() { painted = s.Store.Painted() })
	assert.Zero(t, painted)
}

func TestPageReloaded_ResetsSession(t *testing.T) {
	s := start(t, Options{})
	s.do(t, s.ToggleMouse)
	s.do(t, func() { s.HandlePointerMove(s.el(t, "#title")) })
	s.do(t, s.PageReloaded)

	sc := s.screen(t)
	assert.Equal(t, selection.ModeNone, sc.Mode)
	assert.Empty(t, sc.Target)
	require.NotNil(t, sc.Toast)
	assert.Equal(t, "Page reloaded", sc.Toast.Message)
}

func TestRun_StopsOnCancel(t *testing.T) {
	doc, err := static.ParseString(page)
	require.NoError(t, err)
	c, err := New(Options{Document: doc})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Run(ctx) }()
	require.NoError(t, c.Do(c.ToggleMouse))
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
	assert.Equal(t, selection.ModeNone, c.Modes.Active())
	assert.ErrorIs(t, c.Do(func() {}), ErrStopped)
}
