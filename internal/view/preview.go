package view

import (
	"fmt"
	"strings"

	"github.com/v0xg/pickr/internal/dom"
)

// StyleProps are the computed properties the styles preview lists.
var StyleProps = []string{
	"display", "position", "width", "height", "margin", "padding",
	"background", "color", "font-size", "font-weight", "border",
	"opacity", "z-index", "overflow", "flex", "grid",
}

type previewFunc func(doc dom.Document, el dom.Element) (string, error)

var previews = []struct {
	title string
	kind  PreviewKind
	fn    previewFunc
}{
	{"Text Content", PreviewText, textPreview},
	{"HTML", PreviewHTML, htmlPreview},
	{"CSS Selector", PreviewCode, selectorPreview},
	{"Attributes", PreviewCode, attributesPreview},
	{"Computed Styles", PreviewCode, stylesPreview},
	{"Dimensions", PreviewText, dimensionsPreview},
	{"URL", PreviewText, urlPreview},
	{"Element Structure", PreviewText, structurePreview},
}

// BuildPreviews returns every preview of el. A preview that fails becomes
// an error entry instead of aborting the rest.
func BuildPreviews(doc dom.Document, el dom.Element) []Preview {
	if el == nil {
		return nil
	}
	out := make([]Preview, 0, len(previews))
	for _, p := range previews {
		content, err := p.fn(doc, el)
		if err != nil {
			out = append(out, Preview{Title: p.title, Content: "Error: " + err.Error(), Kind: PreviewError})
			continue
		}
		out = append(out, Preview{Title: p.title, Content: truncate(content, maxPreview), Kind: p.kind})
	}
	return out
}

func textPreview(_ dom.Document, el dom.Element) (string, error) {
	text, err := el.Text()
	if err != nil {
		return "", err
	}
	if text = strings.TrimSpace(text); text == "" {
		return "No text content", nil
	}
	return text, nil
}

func htmlPreview(_ dom.Document, el dom.Element) (string, error) {
	h, err := el.OuterHTML()
	if err != nil {
		return "", err
	}
	if h == "" {
		return "No HTML content", nil
	}
	return h, nil
}

func selectorPreview(doc dom.Document, el dom.Element) (string, error) {
	sel, err := dom.ShortSelector(doc, el)
	if err != nil {
		return "", err
	}
	if sel == "" {
		return "Could not generate selector", nil
	}
	return sel, nil
}

func attributesPreview(_ dom.Document, el dom.Element) (string, error) {
	attrs, err := el.Attributes()
	if err != nil {
		return "", err
	}
	if len(attrs) == 0 {
		return "No attributes", nil
	}
	lines := make([]string, 0, len(attrs))
	for _, a := range attrs {
		lines = append(lines, fmt.Sprintf("%s=%q", a.Name, a.Value))
	}
	return strings.Join(lines, "\n"), nil
}

func stylesPreview(_ dom.Document, el dom.Element) (string, error) {
	computed, err := el.ComputedStyle(StyleProps...)
	if err != nil {
		return "", err
	}
	lines := make([]string, 0, len(StyleProps))
	for _, p := range StyleProps {
		lines = append(lines, p+": "+computed[p])
	}
	return strings.Join(lines, "\n"), nil
}

func dimensionsPreview(_ dom.Document, el dom.Element) (string, error) {
	box, err := el.Box()
	if err != nil {
		return "", err
	}
	cs, err := el.ComputedStyle("width", "height", "margin", "padding")
	if err != nil {
		return "", err
	}
	r := box.Rect
	return fmt.Sprintf("Width: %gpx (%s)\nHeight: %gpx (%s)\nTop: %gpx\nLeft: %gpx\nMargin: %s\nPadding: %s",
		r.Width, cs["width"], r.Height, cs["height"], r.Top(), r.Left(), cs["margin"], cs["padding"]), nil
}

func urlPreview(_ dom.Document, el dom.Element) (string, error) {
	for _, prop := range []string{"href", "src", "data-url"} {
		v, err := el.Property(prop)
		if err != nil {
			return "", err
		}
		if v != "" {
			return v, nil
		}
	}
	return "No URL", nil
}

func structurePreview(_ dom.Document, el dom.Element) (string, error) {
	children, err := el.ChildCount()
	if err != nil {
		return "", err
	}
	text, err := el.Text()
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("<%s>\n  Children: %d\n  Text length: %d chars", dom.Describe(el), children, len([]rune(text))), nil
}
