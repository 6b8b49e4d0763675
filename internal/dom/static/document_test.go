package static

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/v0xg/pickr/internal/dom"
)

const page = `<html><body>
<div id="a" class="card main">alpha</div>
<div id="b">beta <span>inner</span></div>
<a id="link" href="/docs">docs</a>
<div id="pickr-sidebar"><p id="side">side</p></div>
</body></html>`

func TestQueryAll_DocumentOrder(t *testing.T) {
	doc, err := ParseString(page)
	require.NoError(t, err)

	els, err := doc.QueryAll("div")
	require.NoError(t, err)
	require.Len(t, els, 3)
	assert.Equal(t, "a", els[0].ID())
	assert.Equal(t, "b", els[1].ID())
	assert.Equal(t, "pickr-sidebar", els[2].ID())
}

func TestQueryAll_InvalidSelector(t *testing.T) {
	doc, err := ParseString(page)
	require.NoError(t, err)

	_, err = doc.QueryAll("div[")
	require.Error(t, err)
	assert.True(t, errors.Is(err, dom.ErrInvalidSelector))
}

func TestElement_IdentityIsStable(t *testing.T) {
	doc, err := ParseString(page)
	require.NoError(t, err)

	first, err := doc.First("#a")
	require.NoError(t, err)
	again, err := doc.QueryAll(".card")
	require.NoError(t, err)
	assert.True(t, dom.Same(first, again[0]))
}

func TestElement_InOverlay(t *testing.T) {
	doc, err := ParseString(page)
	require.NoError(t, err)

	side, _ := doc.First("#side")
	a, _ := doc.First("#a")
	assert.True(t, side.InOverlay())
	assert.False(t, a.InOverlay())
}

func TestElementFromPoint_TopmostWins(t *testing.T) {
	doc, err := ParseString(page)
	require.NoError(t, err)

	b, _ := doc.First("#b")
	span, _ := doc.First("#b span")
	doc.SetBox(b, dom.Rect{X: 0, Y: 0, Width: 100, Height: 50})
	doc.SetBox(span, dom.Rect{X: 10, Y: 10, Width: 20, Height: 10})

	hit, err := doc.ElementFromPoint(15, 15)
	require.NoError(t, err)
	assert.True(t, dom.Same(span, hit))

	hit, err = doc.ElementFromPoint(80, 40)
	require.NoError(t, err)
	assert.True(t, dom.Same(b, hit))

	hit, err = doc.ElementFromPoint(500, 500)
	require.NoError(t, err)
	assert.Nil(t, hit)
}

func TestSetStyle_RoundTripsThroughAttribute(t *testing.T) {
	doc, err := ParseString(page)
	require.NoError(t, err)

	a, _ := doc.First("#a")
	require.NoError(t, a.SetStyle(dom.Styles{"outline": "2px solid red", "outline-offset": "2px"}))
	v, _ := a.Style("outline")
	assert.Equal(t, "2px solid red", v)

	html, _ := a.OuterHTML()
	assert.Contains(t, html, `style="outline: 2px solid red; outline-offset: 2px;"`)

	require.NoError(t, a.SetStyle(dom.Styles{"outline": "", "outline-offset": ""}))
	html, _ = a.OuterHTML()
	assert.NotContains(t, html, "style=")
}

func TestProperty_ResolvesAgainstBase(t *testing.T) {
	doc, err := ParseString(page)
	require.NoError(t, err)
	require.NoError(t, doc.SetBaseURL("https://example.com/guide/"))

	link, _ := doc.First("#link")
	href, err := link.Property("href")
	require.NoError(t, err)
	assert.Equal(t, "https://example.com/docs", href)
}

func TestBox_HiddenSubtree(t *testing.T) {
	doc, err := ParseString(`<div id="outer" style="display: none"><p id="inner">x</p></div>`)
	require.NoError(t, err)

	inner, _ := doc.First("#inner")
	doc.SetBox(inner, dom.Rect{Width: 10, Height: 10})
	box, err := inner.Box()
	require.NoError(t, err)
	assert.False(t, box.Rendered())
}
