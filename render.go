package main

import (
	"github.com/charmbracelet/glamour"
)

// Cached glamour renderer — avoids re-creating on every call.
// WithAutoStyle() performs OS I/O to detect dark/light theme; caching
// eliminates this from the hot path in interactive TUIs.
var (
	cachedRenderer      *glamour.TermRenderer
	cachedRendererWidth int
)

// renderPost renders a post as word-wrapped terminal text using glamour,
// which also handles :emoji: shortcodes. If rendering fails, the raw text
// is returned as a fallback.
func renderPost(s string, width int) string {
	if cachedRenderer == nil || cachedRendererWidth != width {
		r, err := glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(width),
			glamour.WithEmoji(),
		)
		if err != nil {
			return s
		}
		cachedRenderer = r
		cachedRendererWidth = width
	}

	rendered, err := cachedRenderer.Render(s)
	if err != nil {
		return s
	}

	return rendered
}
