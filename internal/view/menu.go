package view

import (
	"strings"

	"github.com/v0xg/pickr/internal/action"
	"github.com/v0xg/pickr/internal/dom"
)

// MenuItem is one action entry of the context menu.
type MenuItem struct {
	Key  string `json:"key"`
	Name string `json:"name"`
}

// MenuGroup is the items of one category.
type MenuGroup struct {
	Category string     `json:"category"`
	Items    []MenuItem `json:"items"`
}

// ContextMenu lists the actions available for the element it was opened on.
type ContextMenu struct {
	X      float64     `json:"x"`
	Y      float64     `json:"y"`
	Target string      `json:"target"`
	Groups []MenuGroup `json:"groups"`
}

// NewContextMenu builds a menu at (x, y) from the registry groups. The click
// action is left out since clicking is how the menu itself is used.
func NewContextMenu(el dom.Element, x, y float64, groups []action.Group) *ContextMenu {
	m := &ContextMenu{X: x, Y: y, Target: dom.Describe(el)}
	for _, g := range groups {
		mg := MenuGroup{Category: g.Category}
		for _, a := range g.Actions {
			if a.Key == action.ClickKey {
				continue
			}
			mg.Items = append(mg.Items, MenuItem{Key: strings.ToUpper(a.Key), Name: a.Name})
		}
		if len(mg.Items) > 0 {
			m.Groups = append(m.Groups, mg)
		}
	}
	return m
}
