package view

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/v0xg/pickr/internal/action"
	"github.com/v0xg/pickr/internal/dom"
	"github.com/v0xg/pickr/internal/mode"
)

// MaxSamples is how many matches the query panel details.
const MaxSamples = 3

const (
	maxPreview    = 2000
	maxSampleText = 120
)

// PanelKind selects what a sidebar panel shows.
type PanelKind string

const (
	PanelPreview PanelKind = "preview"
	PanelQuery   PanelKind = "query"
	PanelResult  PanelKind = "result"
	PanelError   PanelKind = "error"
)

// PreviewKind hints how preview content is formatted.
type PreviewKind string

const (
	PreviewText  PreviewKind = "text"
	PreviewHTML  PreviewKind = "html"
	PreviewCode  PreviewKind = "code"
	PreviewError PreviewKind = "error"
)

// Preview is one titled block of information about an element.
type Preview struct {
	Title   string      `json:"title" yaml:"title"`
	Content string      `json:"content" yaml:"content"`
	Kind    PreviewKind `json:"kind" yaml:"kind"`
}

// MatchSample is one detailed entry of a query panel.
type MatchSample struct {
	Position int    `json:"position"`
	Tag      string `json:"tag"`
	Selector string `json:"selector"`
	Text     string `json:"text"`
	Selected bool   `json:"selected"`
}

// MatchList summarises an input-mode query.
type MatchList struct {
	Selector string        `json:"selector"`
	Count    int           `json:"count"`
	Index    int           `json:"index"`
	Samples  []MatchSample `json:"samples"`
}

// ResultView is an action outcome formatted for display.
type ResultView struct {
	Feedback string `json:"feedback"`
	Value    string `json:"value,omitempty"`
	Failed   bool   `json:"failed"`
}

// Panel is the sidebar content.
type Panel struct {
	Kind     PanelKind   `json:"kind"`
	Title    string      `json:"title"`
	Message  string      `json:"message,omitempty"`
	Previews []Preview   `json:"previews,omitempty"`
	Matches  *MatchList  `json:"matches,omitempty"`
	Result   *ResultView `json:"result,omitempty"`
}

// PreviewPanel shows the previews of el.
func PreviewPanel(doc dom.Document, el dom.Element) *Panel {
	if el == nil {
		return &Panel{Kind: PanelPreview, Title: "Element Preview", Message: "Hover over an element to preview it"}
	}
	return &Panel{Kind: PanelPreview, Title: dom.Describe(el), Previews: BuildPreviews(doc, el)}
}

// QueryPanel shows the state of the selector input.
func QueryPanel(doc dom.Document, st mode.QueryStatus) *Panel {
	if st.Error {
		return ErrorPanel(st.Message)
	}
	p := &Panel{Kind: PanelQuery, Title: "Input Selector", Message: st.Message}
	if st.Result != nil {
		p.Matches = matchList(doc, st.Result)
	}
	return p
}

// ErrorPanel shows a failure message.
func ErrorPanel(msg string) *Panel {
	return &Panel{Kind: PanelError, Title: "Error", Message: msg}
}

// ResultPanel shows the outcome of an action.
func ResultPanel(res *action.Result) *Panel {
	if res == nil {
		return nil
	}
	title := "Result"
	if res.Failed {
		title = "Error"
	}
	return &Panel{Kind: PanelResult, Title: title, Result: &ResultView{
		Feedback: res.Feedback,
		Value:    FormatValue(res.Value),
		Failed:   res.Failed,
	}}
}

// FormatValue renders an action value: strings as is, anything else as
// indented JSON.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Sprint(v)
	}
	return string(b)
}

func matchList(doc dom.Document, r *mode.QueryResult) *MatchList {
	ml := &MatchList{Selector: r.Selector, Count: r.Len(), Index: r.Index}
	add := func(i int) {
		el := r.Elements[i]
		sel, _ := dom.ShortSelector(doc, el)
		text, _ := el.Text()
		ml.Samples = append(ml.Samples, MatchSample{
			Position: i + 1,
			Tag:      el.TagName(),
			Selector: sel,
			Text:     truncate(strings.TrimSpace(text), maxSampleText),
			Selected: i == r.Index,
		})
	}
	for i := 0; i < r.Len() && i < MaxSamples; i++ {
		add(i)
	}
	if r.Index >= MaxSamples {
		add(r.Index)
	}
	return ml
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "…"
}
