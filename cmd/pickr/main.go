package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/v0xg/pickr/internal/config"
	"github.com/v0xg/pickr/internal/logger"
	"github.com/v0xg/pickr/internal/settings"
)

var (
	configPath string
	verbose    bool
	sets       []string
)

func main() {
	// Load .env file if present (silently ignore if not found)
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:   "pickr",
		Short: "Point at, navigate and act on the elements of a web page",
		Long: `pickr opens a page in Chromium and lets you target its elements with the
mouse or a CSS selector, then copy, inspect, highlight or capture them.

Example:
  pickr open https://example.com --mode mouse`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: $PICKR_CONFIG or the user config dir)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Show debug logs")
	rootCmd.PersistentFlags().StringArrayVar(&sets, "set", nil, "Override a setting, e.g. --set showHelp=false")

	rootCmd.AddCommand(newOpenCmd(), newQueryCmd(), newActionsCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// loadConfig resolves the config file, applies flag overrides and sets up
// logging. The returned cleanup closes the log file.
func loadConfig(flags *config.Flags) (*config.Config, string, func(), error) {
	path := configPath
	if path == "" {
		path = config.DefaultPath()
	}
	if verbose {
		level := "debug"
		flags.LogLevel = &level
	}
	cfg, err := config.Load(path, flags)
	if err != nil {
		return nil, "", nil, err
	}
	closer, err := logger.Init(cfg.Logger)
	if err != nil {
		return nil, "", nil, err
	}
	logger.Debugf("config: loaded %s", path)
	return cfg, path, func() { _ = closer.Close() }, nil
}

// parseSets parses the --set overrides.
func parseSets() ([]settings.Change, error) {
	out := make([]settings.Change, 0, len(sets))
	for _, kv := range sets {
		name, raw, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --set %q: want name=true|false", kv)
		}
		value, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return nil, fmt.Errorf("invalid --set %q: %w", kv, err)
		}
		out = append(out, settings.NewChange(strings.TrimSpace(name), value))
	}
	return out, nil
}

// applySets applies the --set overrides to s.
func applySets(s *settings.Store) error {
	changes, err := parseSets()
	if err != nil {
		return err
	}
	for _, c := range changes {
		s.Apply(c)
	}
	return nil
}

// overlaySets layers the --set overrides over settings read from the
// config file, so a reload never undoes them.
func overlaySets(file settings.Settings) settings.Settings {
	changes, err := parseSets()
	if err != nil {
		// Validated by applySets at startup.
		return file
	}
	for _, c := range changes {
		file = file.With(c)
	}
	return file
}
