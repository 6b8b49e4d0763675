package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/v0xg/pickr/internal/config"
	"github.com/v0xg/pickr/internal/settings"
)

func TestApplySets(t *testing.T) {
	t.Cleanup(func() { sets = nil })
	s := settings.NewStore(settings.Defaults())

	sets = []string{"showHelp=false", " copyClipboard = 0 ", "noSuchSetting=false"}
	require.NoError(t, applySets(s))
	got := s.Get()
	assert.False(t, got.ShowHelp)
	assert.False(t, got.CopyClipboard)
	assert.True(t, got.AutoSidebar)

	sets = []string{"showHelp"}
	assert.Error(t, applySets(s))
	sets = []string{"showHelp=maybe"}
	assert.Error(t, applySets(s))
}

func TestOverlaySets_SurvivesReload(t *testing.T) {
	t.Cleanup(func() { sets = nil })
	sets = []string{"showHelp=false"}
	s := settings.NewStore(settings.Defaults())
	require.NoError(t, applySets(s))
	var changes []settings.Change
	s.Subscribe(func(c settings.Change) { changes = append(changes, c) })

	file := settings.Defaults()
	file.AutoSidebar = false
	s.Replace(overlaySets(file))

	got := s.Get()
	assert.False(t, got.ShowHelp, "the override outlives the reload")
	assert.False(t, got.AutoSidebar)
	assert.Equal(t, []settings.Change{settings.NewChange(settings.AutoSidebar, false)}, changes)
}

func TestHelpSections(t *testing.T) {
	cfg := config.NewDefaultConfig()
	sections, err := helpSections(cfg)
	require.NoError(t, err)

	var titles []string
	for _, sec := range sections {
		titles = append(titles, sec.Title)
	}
	assert.Equal(t, []string{"General", "copy", "Inspect", "modify", "capture", "INTERFACE"}, titles)

	var buf bytes.Buffer
	require.NoError(t, printHelp(&buf, sections))
	assert.Contains(t, buf.String(), "Copy Inner Text")
	assert.Contains(t, buf.String(), "Close / go back one step")

	cfg.Keymap = map[string][]string{"no-such-command": {"f1"}}
	_, err = helpSections(cfg)
	assert.Error(t, err)
}
