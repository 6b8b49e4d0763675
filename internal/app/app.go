// Package app wires one pickr session together and runs its event loop.
//
// Every collaborator is built once in New and reached through the Context;
// nothing is looked up globally. All page events, debounce expiries and
// action completions are posted into the loop, so selection state is only
// ever touched from the goroutine running Run.
package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/v0xg/pickr/internal/action"
	"github.com/v0xg/pickr/internal/action/builtin"
	"github.com/v0xg/pickr/internal/capture"
	"github.com/v0xg/pickr/internal/clipboard"
	"github.com/v0xg/pickr/internal/config"
	"github.com/v0xg/pickr/internal/dispatch"
	"github.com/v0xg/pickr/internal/dom"
	"github.com/v0xg/pickr/internal/logger"
	"github.com/v0xg/pickr/internal/mode"
	"github.com/v0xg/pickr/internal/navigate"
	"github.com/v0xg/pickr/internal/selection"
	"github.com/v0xg/pickr/internal/settings"
	"github.com/v0xg/pickr/internal/view"
)

// ErrStopped is returned by Do once the loop has exited.
var ErrStopped = errors.New("event loop stopped")

const eventQueueSize = 256

// Options configures a session.
type Options struct {
	Config    *config.Config
	Document  dom.Document
	Renderer  view.Renderer
	Clipboard clipboard.Writer
	// Settings defaults to a store seeded from Config.
	Settings *settings.Store
	// SkipBuiltins leaves the registry empty.
	SkipBuiltins bool
}

// Context is one session: the registry, selection store, navigator, modes,
// dispatcher, settings and renderer, plus the transient UI state.
type Context struct {
	Registry   *action.Registry
	Store      *selection.Store
	Navigator  *navigate.Engine
	Modes      *mode.Controller
	Dispatcher *dispatch.Dispatcher
	Settings   *settings.Store

	cfg      *config.Config
	doc      dom.Document
	renderer view.Renderer
	log      *logrus.Entry

	events chan func()
	done   chan struct{}
	ctx    context.Context

	ui    uiState
	dirty bool
}

// New builds a session over doc. The loop is not started.
func New(opts Options) (*Context, error) {
	cfg := opts.Config
	if cfg == nil {
		cfg = config.NewDefaultConfig()
	}
	if opts.Document == nil {
		return nil, errors.New("app: a document is required")
	}
	keymap, err := dispatch.DefaultKeymap().Merge(cfg.Keymap)
	if err != nil {
		return nil, fmt.Errorf("invalid keymap: %w", err)
	}

	c := &Context{
		Settings: opts.Settings,
		cfg:      cfg,
		doc:      opts.Document,
		renderer: opts.Renderer,
		log:      logger.With("app"),
		events:   make(chan func(), eventQueueSize),
		done:     make(chan struct{}),
		ctx:      context.Background(),
	}
	if c.Settings == nil {
		c.Settings = settings.NewStore(cfg.Settings)
	}

	c.Registry = action.NewRegistry(opts.Clipboard)
	c.Registry.SetCopyEnabled(func() bool { return c.Settings.Get().CopyClipboard })

	c.Store = selection.NewStore()
	c.Store.SetHighlightEnabled(func() bool { return c.Settings.Get().HighlightElements })
	c.Store.Subscribe(c.selectionChanged)

	c.Navigator = navigate.New(c.doc)
	run := &runner{c: c}
	c.Modes = mode.New(c.Store, c.doc, mode.Options{
		Debounce: time.Duration(cfg.Timing.DebounceMS) * time.Millisecond,
		Post:     c.Post,
		Runner:   run,
		Observer: c,
	})
	c.Dispatcher = dispatch.New(dispatch.Deps{
		Registry:  c.Registry,
		Runner:    run,
		Store:     c.Store,
		Modes:     c.Modes,
		Navigator: c.Navigator,
		UI:        c,
		Keymap:    keymap,
	})

	if !opts.SkipBuiltins {
		builtin.Register(c.Registry, builtin.Deps{
			Commit: c.commit,
			After: func(d time.Duration, fn func()) {
				time.AfterFunc(d, func() { c.Post(fn) })
			},
			Restore: c.Store.Restore,
			Capture: capture.Options{Dir: cfg.Capture.Dir, MaxWidth: cfg.Capture.ThumbWidth},
		})
	}

	c.Settings.Subscribe(func(ch settings.Change) {
		c.Post(func() { c.settingChanged(ch) })
	})
	return c, nil
}

// Post schedules fn on the event loop. It is safe from any goroutine and
// drops fn once the loop has stopped.
func (c *Context) Post(fn func()) {
	select {
	case c.events <- fn:
	case <-c.done:
	}
}

// Do runs fn on the event loop and waits for it to finish.
func (c *Context) Do(fn func()) error {
	finished := make(chan struct{})
	select {
	case c.events <- func() { fn(); close(finished) }:
	case <-c.done:
		return ErrStopped
	}
	select {
	case <-finished:
		return nil
	case <-c.done:
		return ErrStopped
	}
}

// Run processes events until ctx is cancelled. On the way out it exits the
// active mode so the page is left without pickr's styles.
func (c *Context) Run(ctx context.Context) error {
	c.ctx = ctx
	defer close(c.done)
	c.log.Debug("event loop started")
	for {
		select {
		case <-ctx.Done():
			c.Modes.Exit()
			c.CloseAll()
			c.flush(context.Background())
			c.log.Debug("event loop stopped")
			return ctx.Err()
		case fn := <-c.events:
			fn()
			c.flush(ctx)
		}
	}
}

// flush renders when something changed since the last render.
func (c *Context) flush(ctx context.Context) {
	if !c.dirty || c.renderer == nil {
		return
	}
	c.dirty = false
	if err := c.renderer.Render(ctx, c.Screen()); err != nil {
		c.log.Warnf("render failed: %v", err)
	}
}

// commit is the click action's hook. It runs on the action goroutine, so the
// selection change is posted.
func (c *Context) commit(el dom.Element) {
	c.Post(func() {
		c.Store.Select(el)
		c.Store.Freeze()
	})
}

func (c *Context) selectionChanged(ch selection.Change) {
	c.dirty = true
	if ch.Kind == selection.ChangeSidebar && ch.State.SidebarOpen && c.ui.sidebar == nil {
		c.ui.sidebar = view.PreviewPanel(c.doc, ch.State.Current)
	}
	if !ch.TargetChanged() && ch.Kind != selection.ChangeClear {
		return
	}
	switch ch.State.ActiveMode {
	case selection.ModeMouse:
		c.ui.sidebar = view.PreviewPanel(c.doc, ch.State.Current)
	case selection.ModeInput:
		// The match list stays; previews follow the element under it.
		if p := c.ui.sidebar; p != nil && p.Kind == view.PanelQuery {
			c.ui.sidebar = c.withPreviews(p)
		} else if ch.State.Current != nil {
			c.ui.sidebar = view.PreviewPanel(c.doc, ch.State.Current)
		}
	}
}

// withPreviews returns a copy of p carrying the current element's previews.
func (c *Context) withPreviews(p *view.Panel) *view.Panel {
	next := *p
	next.Previews = nil
	if el := c.Store.Current(); el != nil {
		next.Previews = view.BuildPreviews(c.doc, el)
	}
	return &next
}

func (c *Context) settingChanged(ch settings.Change) {
	c.log.Infof("setting %s = %t", ch.Setting, ch.Value)
	c.dirty = true
	switch ch.Setting {
	case settings.HighlightElements:
		if !ch.Value {
			c.Store.UnpaintAll()
		}
	case settings.ShowNotifications:
		if !ch.Value {
			c.ui.toast = nil
		}
	}
}
