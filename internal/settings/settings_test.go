package settings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestApply_NotifiesOnChange(t *testing.T) {
	s := NewStore(Defaults())
	var got []Change
	s.Subscribe(func(c Change) { got = append(got, c) })

	assert.True(t, s.Apply(NewChange(ShowNotifications, false)))
	assert.False(t, s.Get().ShowNotifications)
	assert.Equal(t, []Change{NewChange(ShowNotifications, false)}, got)

	// same value again is not a change
	assert.False(t, s.Apply(NewChange(ShowNotifications, false)))
	assert.Len(t, got, 1)
}

func TestApply_IgnoresUnknown(t *testing.T) {
	s := NewStore(Defaults())
	assert.False(t, s.Apply(NewChange("darkMode", false)))
	assert.False(t, s.Apply(Change{Type: "ping", Setting: CopyClipboard, Value: false}))
	assert.Equal(t, Defaults(), s.Get())
}

func TestReplace_EmitsDiff(t *testing.T) {
	s := NewStore(Defaults())
	var got []Change
	s.Subscribe(func(c Change) { got = append(got, c) })

	next := Defaults()
	next.AutoSidebar = false
	next.CopyClipboard = false
	s.Replace(next)

	assert.Equal(t, []Change{
		NewChange(AutoSidebar, false),
		NewChange(CopyClipboard, false),
	}, got)
	assert.Equal(t, next, s.Get())
}

func TestWith(t *testing.T) {
	s := Defaults().With(NewChange(CopyClipboard, false)).With(NewChange("bogus", false))
	assert.False(t, s.CopyClipboard)
	assert.True(t, s.ShowHelp)
}
