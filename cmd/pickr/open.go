package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/v0xg/pickr/internal/app"
	"github.com/v0xg/pickr/internal/browser"
	"github.com/v0xg/pickr/internal/clipboard"
	"github.com/v0xg/pickr/internal/config"
	"github.com/v0xg/pickr/internal/logger"
	"github.com/v0xg/pickr/internal/view"
	"github.com/v0xg/pickr/internal/view/console"
	"github.com/v0xg/pickr/internal/view/overlay"
)

var (
	startMode string
	echo      bool
	headless  bool
	width     int
	height    int
	profile   string
)

func newOpenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "open <url>",
		Short: "Open a page in Chromium and start picking elements",
		Long: `open loads the page in a browser window. Press Alt+Shift+M for mouse mode
or Alt+Shift+I for input mode; Escape backs out one step at a time.`,
		Args: cobra.ExactArgs(1),
		RunE: runOpen,
	}
	cmd.Flags().StringVar(&startMode, "mode", "", "Mode to start in: mouse or input")
	cmd.Flags().BoolVar(&echo, "echo", false, "Echo toasts and action results to the terminal")
	cmd.Flags().BoolVar(&headless, "headless", false, "Run the browser headless")
	cmd.Flags().IntVar(&width, "width", config.DefaultWidth, "Viewport width")
	cmd.Flags().IntVar(&height, "height", config.DefaultHeight, "Viewport height")
	cmd.Flags().StringVar(&profile, "profile", "", "Chrome/Chromium profile directory for authenticated sessions (close browser first)")
	return cmd
}

func runOpen(cmd *cobra.Command, args []string) error {
	url := args[0]
	if startMode != "" && startMode != "mouse" && startMode != "input" {
		return fmt.Errorf("unknown mode %q: want mouse or input", startMode)
	}

	flags := &config.Flags{}
	if cmd.Flags().Changed("headless") {
		flags.Headless = &headless
	}
	if cmd.Flags().Changed("width") {
		flags.Width = &width
	}
	if cmd.Flags().Changed("height") {
		flags.Height = &height
	}
	if cmd.Flags().Changed("profile") {
		flags.ProfileDir = &profile
	}
	cfg, path, cleanup, err := loadConfig(flags)
	if err != nil {
		return err
	}
	defer cleanup()
	log := logger.With("open")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Infof("opening %s", url)
	b, err := browser.Open(ctx, url, browser.Options{
		Bin:        cfg.Browser.Bin,
		Headless:   cfg.Browser.Headless,
		Width:      cfg.Browser.Width,
		Height:     cfg.Browser.Height,
		ProfileDir: cfg.Browser.ProfileDir,
		ControlURL: cfg.Browser.ControlURL,
	})
	if err != nil {
		return err
	}
	defer b.Close()

	renderers := view.Multi{overlay.New(b.Page())}
	if echo {
		renderers = append(renderers, console.New(os.Stdout))
	}
	session, err := app.New(app.Options{
		Config:    cfg,
		Document:  b.Page(),
		Renderer:  renderers,
		Clipboard: clipboard.System{},
	})
	if err != nil {
		return err
	}
	if err := applySets(session.Settings); err != nil {
		return err
	}
	if err := b.Bind(session, session.Post); err != nil {
		return err
	}

	if path != "" {
		go func() {
			err := config.Watch(ctx, path, func(next *config.Config) {
				session.Settings.Replace(overlaySets(next.Settings))
			})
			if err != nil {
				log.Warnf("settings will not reload: %v", err)
			}
		}()
	}
	go func() {
		<-b.Done()
		log.Info("browser disconnected")
		stop()
	}()

	switch startMode {
	case "mouse":
		session.Post(session.ToggleMouse)
	case "input":
		session.Post(session.ToggleInput)
	}

	fmt.Println("pickr: Alt+Shift+M mouse mode, Alt+Shift+I input mode, Ctrl+C to quit")
	if err := session.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
