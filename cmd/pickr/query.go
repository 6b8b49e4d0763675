package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/v0xg/pickr/internal/action"
	"github.com/v0xg/pickr/internal/action/builtin"
	"github.com/v0xg/pickr/internal/capture"
	"github.com/v0xg/pickr/internal/clipboard"
	"github.com/v0xg/pickr/internal/config"
	"github.com/v0xg/pickr/internal/dom"
	"github.com/v0xg/pickr/internal/dom/static"
	"github.com/v0xg/pickr/internal/mode"
	"github.com/v0xg/pickr/internal/view"
	"github.com/v0xg/pickr/internal/view/console"
)

var (
	format    string
	baseURL   string
	actionKey string
	copyOut   bool
)

func newQueryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query <file.html> <selector>",
		Short: "Run a CSS selector against a saved HTML file",
		Long: `query evaluates a selector the way input mode does and lists the matches.
With --action it runs an action on every match, for example --action s to
print a selector for each.`,
		Args: cobra.ExactArgs(2),
		RunE: runQuery,
	}
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text or yaml")
	cmd.Flags().StringVar(&baseURL, "base", "", "URL that relative href and src values resolve against")
	cmd.Flags().StringVar(&actionKey, "action", "", "Action key or alias to run on each match")
	cmd.Flags().BoolVar(&copyOut, "copy", false, "Let string results reach the system clipboard")
	return cmd
}

type matchOut struct {
	Position int            `yaml:"position"`
	Element  string         `yaml:"element"`
	Path     string         `yaml:"path"`
	Text     string         `yaml:"text,omitempty"`
	Result   *action.Result `yaml:"action,omitempty"`
}

type queryOut struct {
	Selector string     `yaml:"selector"`
	Message  string     `yaml:"message"`
	Error    bool       `yaml:"error,omitempty"`
	Matches  []matchOut `yaml:"matches,omitempty"`
}

func runQuery(cmd *cobra.Command, args []string) error {
	if format != "text" && format != "yaml" {
		return fmt.Errorf("unknown format %q: want text or yaml", format)
	}
	cfg, _, cleanup, err := loadConfig(&config.Flags{})
	if err != nil {
		return err
	}
	defer cleanup()

	f, err := os.Open(args[0])
	if err != nil {
		return err
	}
	defer f.Close()
	doc, err := static.Parse(f)
	if err != nil {
		return err
	}
	if baseURL != "" {
		if err := doc.SetBaseURL(baseURL); err != nil {
			return err
		}
	}

	st := mode.Query(doc, args[1])
	out := queryOut{Selector: st.Selector, Message: st.Message, Error: st.Error}
	if st.Result != nil {
		reg, err := registryFor(cfg)
		if err != nil {
			return err
		}
		for i, el := range st.Result.Elements {
			m := matchOut{Position: i + 1, Element: dom.Describe(el)}
			m.Path, _ = dom.Path(el)
			if text, err := el.Text(); err == nil {
				m.Text = strings.Join(strings.Fields(text), " ")
			}
			if reg != nil {
				m.Result = reg.ExecuteByKey(cmd.Context(), actionKey, el)
				if m.Result == nil {
					return fmt.Errorf("unknown action %q", actionKey)
				}
			}
			out.Matches = append(out.Matches, m)
		}
	}

	if format == "yaml" {
		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(out)
	}
	return printText(os.Stdout, doc, st, out)
}

// registryFor builds the built-in registry when an action was requested.
func registryFor(cfg *config.Config) (*action.Registry, error) {
	if actionKey == "" {
		return nil, nil
	}
	var clip clipboard.Writer = &clipboard.Memory{}
	if copyOut {
		clip = clipboard.System{}
	}
	reg := action.NewRegistry(clip)
	builtin.Register(reg, builtin.Deps{
		// Nothing is on screen offline, so temporary styles are restored at once.
		After:   func(time.Duration, func()) {},
		Capture: capture.Options{Dir: cfg.Capture.Dir, MaxWidth: cfg.Capture.ThumbWidth},
	})
	if !reg.Has(actionKey) {
		return nil, fmt.Errorf("unknown action %q", actionKey)
	}
	return reg, nil
}

func printText(w io.Writer, doc dom.Document, st mode.QueryStatus, out queryOut) error {
	r := console.New(w)
	if _, err := fmt.Fprintln(w, r.Panel(view.QueryPanel(doc, st))); err != nil {
		return err
	}
	for _, m := range out.Matches {
		line := fmt.Sprintf("%3d  %s", m.Position, m.Path)
		if m.Result != nil {
			line += "\n     " + m.Result.Feedback
			if v := view.FormatValue(m.Result.Value); v != "" {
				line += ": " + strings.ReplaceAll(v, "\n", "\n     ")
			}
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	if st.Error {
		return fmt.Errorf("%s", st.Message)
	}
	return nil
}
