package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/v0xg/pickr/internal/action"
	"github.com/v0xg/pickr/internal/action/builtin"
	"github.com/v0xg/pickr/internal/clipboard"
	"github.com/v0xg/pickr/internal/config"
	"github.com/v0xg/pickr/internal/dispatch"
)

var actionsFormat string

func newActionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "actions",
		Short: "List the element actions and interface keys",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, cleanup, err := loadConfig(&config.Flags{})
			if err != nil {
				return err
			}
			defer cleanup()
			sections, err := helpSections(cfg)
			if err != nil {
				return err
			}
			switch actionsFormat {
			case "text":
				return printHelp(os.Stdout, sections)
			case "yaml":
				enc := yaml.NewEncoder(os.Stdout)
				enc.SetIndent(2)
				defer enc.Close()
				return enc.Encode(sections)
			}
			return fmt.Errorf("unknown format %q: want text or yaml", actionsFormat)
		},
	}
	cmd.Flags().StringVar(&actionsFormat, "format", "text", "Output format: text or yaml")
	return cmd
}

// helpSections returns the same help the in-page help view shows, with the
// configured keymap applied.
func helpSections(cfg *config.Config) ([]action.HelpSection, error) {
	keymap, err := dispatch.DefaultKeymap().Merge(cfg.Keymap)
	if err != nil {
		return nil, fmt.Errorf("invalid keymap: %w", err)
	}
	reg := action.NewRegistry(&clipboard.Memory{})
	builtin.Register(reg, builtin.Deps{})
	d := dispatch.New(dispatch.Deps{Registry: reg, Keymap: keymap})
	return append(reg.HelpContent(), d.CommandHelp()), nil
}

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Underline(true)
	keyStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Width(18)
	descStyle  = lipgloss.NewStyle().Faint(true)
)

func printHelp(w io.Writer, sections []action.HelpSection) error {
	for i, sec := range sections {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w, titleStyle.Render(sec.Title))
		for _, e := range sec.Entries {
			line := keyStyle.Render(e.Keys) + e.Name
			if e.Description != "" {
				line += "  " + descStyle.Render(e.Description)
			}
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}
	return nil
}
