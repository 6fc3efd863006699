package ui

import (
	"fmt"

	"github.com/charmbracelet/glamour"
)

// defaultWrap is the word wrap width of rendered markdown.
const defaultWrap = 80

// RenderMarkdown renders md for the terminal. Headless or colorless output
// uses the notty style, which keeps the text readable in logs.
func RenderMarkdown(theme *Theme, hm *HeadlessManager, md string) (string, error) {
	style := theme.Mode
	if theme.NoColor || (hm != nil && hm.IsHeadless()) {
		style = "notty"
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(style),
		glamour.WithWordWrap(defaultWrap),
	)
	if err != nil {
		return "", fmt.Errorf("markdown renderer: %w", err)
	}
	out, err := r.Render(md)
	if err != nil {
		return "", fmt.Errorf("render markdown: %w", err)
	}
	return out, nil
}
