package action

import "strings"

// HelpEntry is one line of generated help.
type HelpEntry struct {
	Keys        string
	Name        string
	Description string
}

// HelpSection is the help for one category.
type HelpSection struct {
	Title   string
	Entries []HelpEntry
}

// HelpContent returns the full-help view: categories as titles, keys in
// lower case followed by their aliases.
func (r *Registry) HelpContent() []HelpSection {
	return r.sections(func(c string) string { return c }, func(k string) string { return k })
}

// LegendContent returns the legend view: upper-cased "{CATEGORY} ACTIONS"
// titles and upper-cased keys.
func (r *Registry) LegendContent() []HelpSection {
	return r.sections(
		func(c string) string { return strings.ToUpper(c) + " ACTIONS" },
		strings.ToUpper,
	)
}

func (r *Registry) sections(title, key func(string) string) []HelpSection {
	groups := r.Groups()
	out := make([]HelpSection, 0, len(groups))
	for _, g := range groups {
		sec := HelpSection{Title: title(g.Category)}
		for _, a := range g.Actions {
			keys := key(a.Key)
			if len(a.Aliases) > 0 {
				keys += " (" + strings.Join(a.Aliases, ", ") + ")"
			}
			sec.Entries = append(sec.Entries, HelpEntry{Keys: keys, Name: a.Name, Description: a.Description})
		}
		out = append(out, sec)
	}
	return out
}
