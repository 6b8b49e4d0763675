package action

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/v0xg/pickr/internal/clipboard"
	"github.com/v0xg/pickr/internal/dom"
	"github.com/v0xg/pickr/internal/dom/static"
)

func noop(name string) Action {
	return Action{
		Key:  "k",
		Name: name,
		Execute: func(context.Context, dom.Element) (Result, error) {
			return Result{Feedback: name}, nil
		},
	}
}

func textAction(key string) Action {
	return Action{
		Key:  key,
		Name: "Text",
		Execute: func(_ context.Context, el dom.Element) (Result, error) {
			text, err := el.Text()
			return Result{Feedback: "ok", Value: text}, err
		},
	}
}

func element(t *testing.T, html, selector string) dom.Element {
	t.Helper()
	doc, err := static.ParseString(html)
	require.NoError(t, err)
	el, err := doc.First(selector)
	require.NoError(t, err)
	require.NotNil(t, el)
	return el
}

func TestRegister_FirstRegistrationWins(t *testing.T) {
	r := NewRegistry(nil)
	require.NoError(t, r.Register(noop("first")))
	err := r.Register(noop("second"))
	assert.True(t, errors.Is(err, ErrDuplicateKey))

	require.NotNil(t, r.Get("k"))
	assert.Equal(t, "first", r.Get("k").Name)
	assert.Len(t, r.All(), 1)
}

func TestRegister_RejectsInvalid(t *testing.T) {
	r := NewRegistry(nil)
	tests := []struct {
		name   string
		action Action
	}{
		{"missing key", Action{Name: "x", Execute: noop("x").Execute}},
		{"missing name", Action{Key: "x", Execute: noop("x").Execute}},
		{"missing execute", Action{Key: "x", Name: "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := r.Register(tt.action)
			assert.True(t, errors.Is(err, ErrInvalidAction))
		})
	}
	assert.Empty(t, r.All())
}

func TestRegister_DefaultsAndNormalization(t *testing.T) {
	r := NewRegistry(nil)
	a := noop("Thing")
	a.Key = "T"
	a.Aliases = []string{"Tee", " "}
	require.NoError(t, r.Register(a))

	got := r.Get("t")
	require.NotNil(t, got)
	assert.Equal(t, DefaultCategory, got.Category)
	assert.Equal(t, []string{"tee"}, got.Aliases)
	assert.Equal(t, "Thing", r.GetByAlias("TEE").Name)
}

func TestResolve_KeyBeforeAlias(t *testing.T) {
	r := NewRegistry(nil)
	owner := noop("owner")
	owner.Key = "o"
	owner.Aliases = []string{"x"}
	require.NoError(t, r.Register(owner))

	direct := noop("direct")
	direct.Key = "x"
	require.NoError(t, r.Register(direct))

	assert.Equal(t, "direct", r.Resolve("x").Name)
	assert.Equal(t, "owner", r.GetByAlias("x").Name)
	assert.Nil(t, r.Resolve("missing"))
}

func TestExecuteByKey_UnknownKeyIsNil(t *testing.T) {
	r := NewRegistry(&clipboard.Memory{})
	assert.NotPanics(t, func() {
		assert.Nil(t, r.ExecuteByKey(context.Background(), "nope", nil))
	})
}

func TestExecuteByKey_ErrorBecomesResult(t *testing.T) {
	r := NewRegistry(&clipboard.Memory{})
	require.NoError(t, r.Register(Action{
		Key:  "f",
		Name: "Fail",
		Execute: func(context.Context, dom.Element) (Result, error) {
			return Result{}, errors.New("x")
		},
	}))

	res := r.ExecuteByKey(context.Background(), "f", nil)
	require.NotNil(t, res)
	assert.Equal(t, Result{Feedback: "Error executing Fail: x", Value: nil, Failed: true}, *res)
}

func TestExecuteByKey_PanicBecomesResult(t *testing.T) {
	r := NewRegistry(&clipboard.Memory{})
	require.NoError(t, r.Register(Action{
		Key:  "p",
		Name: "Panicky",
		Execute: func(context.Context, dom.Element) (Result, error) {
			panic("boom")
		},
	}))

	res := r.ExecuteByKey(context.Background(), "p", nil)
	require.NotNil(t, res)
	assert.True(t, res.Failed)
	assert.Nil(t, res.Value)
	assert.Equal(t, "Error executing Panicky: boom", res.Feedback)
}

func TestExecuteByKey_CopiesStringResult(t *testing.T) {
	clip := &clipboard.Memory{}
	r := NewRegistry(clip)
	require.NoError(t, r.Register(textAction("t")))

	res := r.ExecuteByKey(context.Background(), "t", element(t, `<div>hi</div>`, "div"))
	require.NotNil(t, res)
	assert.Equal(t, Result{Feedback: "ok", Value: "hi"}, *res)

	last, ok := clip.Last()
	require.True(t, ok)
	assert.Equal(t, "hi", last)
}

func TestExecuteByKey_ClipboardFailureDowngrades(t *testing.T) {
	clip := &clipboard.Memory{Fail: errors.New("denied")}
	r := NewRegistry(clip)

	calls := 0
	a := textAction("t")
	inner := a.Execute
	a.Execute = func(ctx context.Context, el dom.Element) (Result, error) {
		calls++
		return inner(ctx, el)
	}
	require.NoError(t, r.Register(a))

	res := r.ExecuteByKey(context.Background(), "t", element(t, `<div>hi</div>`, "div"))
	require.NotNil(t, res)
	assert.Equal(t, Result{Feedback: ClipboardFailedFeedback, Failed: true}, *res)
	assert.Equal(t, 1, calls)
}

func TestExecuteByKey_CopyGate(t *testing.T) {
	clip := &clipboard.Memory{}
	r := NewRegistry(clip)
	r.SetCopyEnabled(func() bool { return false })
	require.NoError(t, r.Register(textAction("t")))

	res := r.ExecuteByKey(context.Background(), "t", element(t, `<div>hi</div>`, "div"))
	require.NotNil(t, res)
	assert.False(t, res.Failed)
	assert.Empty(t, clip.Writes())
}

func TestExecuteByKey_StructuredValueNotCopied(t *testing.T) {
	clip := &clipboard.Memory{}
	r := NewRegistry(clip)
	require.NoError(t, r.Register(Action{
		Key:  "m",
		Name: "Map",
		Execute: func(context.Context, dom.Element) (Result, error) {
			return Result{Feedback: "map", Value: map[string]string{"a": "b"}}, nil
		},
	}))

	res := r.ExecuteByKey(context.Background(), "m", nil)
	require.NotNil(t, res)
	assert.False(t, res.Failed)
	assert.Empty(t, clip.Writes())
}

func TestGroups_PreserveRegistrationOrder(t *testing.T) {
	r := NewRegistry(nil)
	reg := func(key, cat string) {
		a := noop(key)
		a.Key, a.Category = key, cat
		require.NoError(t, r.Register(a))
	}
	reg("y", "copy")
	reg("i", "Inspect")
	reg("h", "copy")

	groups := r.Groups()
	require.Len(t, groups, 2)
	assert.Equal(t, "copy", groups[0].Category)
	assert.Equal(t, []string{"y", "h"}, []string{groups[0].Actions[0].Key, groups[0].Actions[1].Key})
	assert.Equal(t, "Inspect", groups[1].Category)
	assert.Equal(t, []string{"copy", "Inspect"}, r.Categories())
	assert.NotContains(t, r.AvailableKeys(), "y")
	assert.Contains(t, r.AvailableKeys(), "b")
}

func TestHelpAndLegendContent(t *testing.T) {
	r := NewRegistry(nil)
	a := noop("Copy Text")
	a.Key, a.Category, a.Description, a.Aliases = "y", "copy", "Copy element text", []string{"yank"}
	require.NoError(t, r.Register(a))

	help := r.HelpContent()
	require.Len(t, help, 1)
	assert.Equal(t, "copy", help[0].Title)
	assert.Equal(t, HelpEntry{Keys: "y (yank)", Name: "Copy Text", Description: "Copy element text"}, help[0].Entries[0])

	legend := r.LegendContent()
	assert.Equal(t, "COPY ACTIONS", legend[0].Title)
	assert.Equal(t, "Y (yank)", legend[0].Entries[0].Keys)
}
