package dispatch

import (
	"fmt"
	"sort"
	"strings"

	"github.com/v0xg/pickr/internal/selection"
)

// Command is an interface command bound to keys.
type Command string

const (
	CmdPause    Command = "pause"
	CmdSidebar  Command = "sidebar"
	CmdLegend   Command = "legend"
	CmdHelp     Command = "help"
	CmdUp       Command = "up"
	CmdDown     Command = "down"
	CmdLeft     Command = "left"
	CmdRight    Command = "right"
	CmdPrevious Command = "previous"
	CmdNext     Command = "next"
	CmdCommit   Command = "commit"
)

// KeyEscape is handled by the unwind and cannot be rebound.
const KeyEscape = "escape"

var commandNames = map[Command]string{
	CmdPause:    "Pause / resume selection",
	CmdSidebar:  "Toggle sidebar",
	CmdLegend:   "Toggle legend",
	CmdHelp:     "Toggle full help",
	CmdUp:       "Move up",
	CmdDown:     "Move down",
	CmdLeft:     "Move left",
	CmdRight:    "Move right",
	CmdPrevious: "Previous element",
	CmdNext:     "Next element",
	CmdCommit:   "Select current element",
}

// commandOrder is the order commands appear in help.
var commandOrder = []Command{
	CmdUp, CmdDown, CmdLeft, CmdRight, CmdPrevious, CmdNext,
	CmdCommit, CmdPause, CmdSidebar, CmdLegend, CmdHelp,
}

// inputKeys take precedence over the keymap in input mode so the arrows
// walk the match list.
var inputKeys = map[string]Command{
	"arrowup":   CmdPrevious,
	"arrowdown": CmdNext,
}

// ownInputKeys are the only keys processed while pickr's selector input has
// focus.
var ownInputKeys = map[string]bool{
	"enter":     true,
	"arrowup":   true,
	"arrowdown": true,
}

// Keymap binds commands to lower-case key names as reported by
// KeyboardEvent.key.
type Keymap map[Command][]string

// DefaultKeymap returns bindings that do not collide with the built-in
// action keys.
func DefaultKeymap() Keymap {
	return Keymap{
		CmdPause:    {"p"},
		CmdSidebar:  {"b"},
		CmdLegend:   {"k"},
		CmdHelp:     {"?"},
		CmdUp:       {"w", "arrowup"},
		CmdDown:     {"x", "arrowdown"},
		CmdLeft:     {"arrowleft"},
		CmdRight:    {"d", "arrowright"},
		CmdPrevious: {"q"},
		CmdNext:     {"e"},
		CmdCommit:   {"enter"},
	}
}

// Merge returns a copy of k with the commands named in overrides rebound.
// Unknown command names and bindings of escape are errors.
func (k Keymap) Merge(overrides map[string][]string) (Keymap, error) {
	out := make(Keymap, len(k))
	for c, keys := range k {
		out[c] = append([]string(nil), keys...)
	}
	for name, keys := range overrides {
		c := Command(strings.ToLower(strings.TrimSpace(name)))
		if _, ok := commandNames[c]; !ok {
			return nil, fmt.Errorf("unknown command %q in keymap", name)
		}
		bound := make([]string, 0, len(keys))
		for _, key := range keys {
			key = NormalizeKey(key)
			if key == KeyEscape {
				return nil, fmt.Errorf("escape cannot be bound to %q", name)
			}
			if key != "" {
				bound = append(bound, key)
			}
		}
		out[c] = bound
	}
	return out, nil
}

// Lookup returns the command bound to key in mode m.
func (k Keymap) Lookup(key string, m selection.Mode) (Command, bool) {
	if m == selection.ModeInput {
		if c, ok := inputKeys[key]; ok {
			return c, true
		}
	}
	for _, c := range commandOrder {
		for _, bound := range k[c] {
			if bound == key {
				return c, true
			}
		}
	}
	return "", false
}

// Keys returns every bound key, sorted.
func (k Keymap) Keys() []string {
	seen := map[string]bool{}
	for _, keys := range k {
		for _, key := range keys {
			seen[key] = true
		}
	}
	for key := range inputKeys {
		seen[key] = true
	}
	out := make([]string, 0, len(seen))
	for key := range seen {
		out = append(out, key)
	}
	sort.Strings(out)
	return out
}

// NormalizeKey lower-cases a KeyboardEvent.key value and names the space
// bar.
func NormalizeKey(key string) string {
	if key == " " {
		return "space"
	}
	key = strings.ToLower(strings.TrimSpace(key))
	if key == "esc" {
		return KeyEscape
	}
	return key
}
