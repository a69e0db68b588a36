package tui

import (
	"strings"

	"charm.land/bubbles/v2/key"

	"github.com/colonyops/sqcrop/internal/core/review"
)

const keyCtrlC = "ctrl+c"

var arrowGlyphs = map[string]string{
	"left":  "←",
	"right": "→",
	"up":    "↑",
	"down":  "↓",
}

// helpBindings builds the footer bindings from the review keymap. The
// bindings are display only; key handling is done by the review loop.
func helpBindings(km review.Keymap) []key.Binding {
	nudge := make([]string, 0, len(km.Left)+len(km.Right)+len(km.Up)+len(km.Down))
	nudge = append(nudge, km.Left...)
	nudge = append(nudge, km.Right...)
	nudge = append(nudge, km.Up...)
	nudge = append(nudge, km.Down...)

	return []key.Binding{
		binding(km.Save, "save"),
		binding(km.Delete, "delete"),
		binding(km.Skip, "skip"),
		key.NewBinding(key.WithKeys(nudge...), key.WithHelp(nudgeLabel(km), "nudge")),
		key.NewBinding(key.WithKeys(keyCtrlC), key.WithHelp(keyCtrlC, "quit")),
	}
}

func binding(keys []string, desc string) key.Binding {
	return key.NewBinding(key.WithKeys(keys...), key.WithHelp(label(keys), desc))
}

func label(keys []string) string {
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		if g, ok := arrowGlyphs[k]; ok {
			k = g
		}
		parts = append(parts, k)
	}
	return strings.Join(parts, "/")
}

// nudgeLabel shows the first key of each direction.
func nudgeLabel(km review.Keymap) string {
	var parts []string
	for _, keys := range [][]string{km.Left, km.Right, km.Up, km.Down} {
		if len(keys) > 0 {
			parts = append(parts, label(keys[:1]))
		}
	}
	return strings.Join(parts, "")
}
