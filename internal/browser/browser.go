// Package browser drives the Chromium instance pickr inspects. It launches
// or attaches to the browser, installs the page shim that reports pointer
// and keyboard events, and exposes the tab as a dom.Document.
package browser

import (
	"context"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
	"github.com/sirupsen/logrus"
	"github.com/ysmood/gson"

	"github.com/v0xg/pickr/internal/logger"
)

// Options configures the browser.
type Options struct {
	Bin      string
	Headless bool
	Width    int
	Height   int
	// ProfileDir is a Chrome/Chromium profile directory for authenticated
	// sessions. The browser using it must be closed first.
	ProfileDir string
	// ControlURL attaches to a running browser instead of launching one.
	ControlURL string
	// LoadTimeout bounds the initial navigation.
	LoadTimeout time.Duration
}

// Browser wraps the rod browser and the tab being inspected.
type Browser struct {
	browser  *rod.Browser
	launcher *launcher.Launcher
	page     *Page
	log      *logrus.Entry
	owned    bool
	tempData bool
	done     chan struct{}
}

// Open launches (or attaches to) a browser and loads url in a new tab.
func Open(ctx context.Context, url string, opts Options) (*Browser, error) {
	if opts.LoadTimeout == 0 {
		opts.LoadTimeout = 30 * time.Second
	}
	b := &Browser{log: logger.With("browser"), done: make(chan struct{})}

	controlURL := opts.ControlURL
	if controlURL == "" {
		bin := opts.Bin
		if bin == "" {
			bin, _ = launcher.LookPath()
		}
		l := launcher.New().Context(ctx).Headless(opts.Headless)
		if bin != "" {
			l = l.Bin(bin)
		}
		if opts.ProfileDir != "" {
			l = l.UserDataDir(opts.ProfileDir)
		} else {
			b.tempData = true
		}
		u, err := l.Launch()
		if err != nil {
			return nil, fmt.Errorf("failed to launch browser: %w", err)
		}
		controlURL = u
		b.launcher = l
		b.owned = true
		b.log.Debugf("launched %s", bin)
	}

	rb := rod.New().ControlURL(controlURL).Context(ctx)
	if err := rb.Connect(); err != nil {
		if b.launcher != nil {
			b.launcher.Kill()
		}
		b.cleanup()
		return nil, fmt.Errorf("failed to connect to browser: %w", err)
	}
	b.browser = rb

	page, err := rb.Page(proto.TargetCreateTarget{})
	if err != nil {
		b.Close()
		return nil, fmt.Errorf("failed to open tab: %w", err)
	}
	if opts.Width > 0 && opts.Height > 0 {
		if err := page.SetViewport(&proto.EmulationSetDeviceMetricsOverride{
			Width:             opts.Width,
			Height:            opts.Height,
			DeviceScaleFactor: 1,
		}); err != nil {
			b.log.Warnf("failed to set viewport: %v", err)
		}
	}

	load := page.Timeout(opts.LoadTimeout)
	if err := load.Navigate(url); err != nil {
		b.Close()
		return nil, fmt.Errorf("failed to navigate to %s: %w", url, err)
	}
	if err := load.WaitLoad(); err != nil {
		b.log.Warnf("page did not finish loading: %v", err)
	}
	// Don't hang on persistent connections.
	page.Timeout(5*time.Second).WaitRequestIdle(500*time.Millisecond, nil, nil, nil)()

	b.page = newPage(page)
	b.watch(ctx, page.TargetID)
	return b, nil
}

// Page returns the inspected tab.
func (b *Browser) Page() *Page {
	return b.page
}

// Bind installs the page shim and routes its events to h through post,
// which must run its argument on h's event loop.
func (b *Browser) Bind(h Handler, post func(func())) error {
	r := &router{h: h, onReady: func(url string) {
		b.log.Infof("shim ready on %s", url)
	}}
	return b.page.install(func(v gson.JSON) {
		ev := decodeEvent(b.page, v)
		post(func() { r.deliver(ev) })
	})
}

// Done is closed when the tab goes away, for example because the user
// closed the window.
func (b *Browser) Done() <-chan struct{} {
	return b.done
}

func (b *Browser) watch(ctx context.Context, id proto.TargetTargetID) {
	if err := (proto.TargetSetDiscoverTargets{Discover: true}).Call(b.browser); err != nil {
		b.log.Debugf("target discovery: %v", err)
	}
	wait := b.browser.Context(ctx).EachEvent(func(e *proto.TargetTargetDestroyed) bool {
		return e.TargetID == id
	})
	go func() {
		wait()
		close(b.done)
	}()
}

// Close releases the tab and, when pickr launched it, the browser.
func (b *Browser) Close() {
	if b.page != nil {
		b.page.uninstall()
	}
	if b.browser != nil {
		if b.owned {
			if err := b.browser.Close(); err != nil {
				b.log.Debugf("close: %v", err)
			}
		} else if b.page != nil {
			_ = b.page.rod.Close()
		}
	}
	b.cleanup()
}

// cleanup removes the temporary profile of a launched browser. A user's
// profile directory is never removed.
func (b *Browser) cleanup() {
	if b.launcher != nil && b.tempData {
		b.launcher.Cleanup()
	}
}
