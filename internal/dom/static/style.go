package static

import "strings"

type declaration struct {
	prop  string
	value string
}

// declarations is an inline style attribute in source order.
type declarations []declaration

func parseStyle(s string) declarations {
	var out declarations
	for _, part := range strings.Split(s, ";") {
		prop, value, ok := strings.Cut(part, ":")
		if !ok {
			continue
		}
		prop = strings.ToLower(strings.TrimSpace(prop))
		value = strings.TrimSpace(value)
		if prop == "" {
			continue
		}
		out = out.set(prop, value)
	}
	return out
}

func (d declarations) get(prop string) (string, bool) {
	for _, decl := range d {
		if decl.prop == prop {
			return decl.value, true
		}
	}
	return "", false
}

// set replaces prop in place, appends it, or removes it when value is empty.
func (d declarations) set(prop, value string) declarations {
	for i, decl := range d {
		if decl.prop != prop {
			continue
		}
		if value == "" {
			return append(d[:i], d[i+1:]...)
		}
		d[i].value = value
		return d
	}
	if value == "" {
		return d
	}
	return append(d, declaration{prop: prop, value: value})
}

func (d declarations) String() string {
	parts := make([]string, 0, len(d))
	for _, decl := range d {
		parts = append(parts, decl.prop+": "+decl.value)
	}
	if len(parts) == 0 {
		return ""
	}
	return strings.Join(parts, "; ") + ";"
}
