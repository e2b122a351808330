package tui

import (
	"fmt"
	"strings"

	"github.com/aretw0/toria/pkg/domain"
	"github.com/charmbracelet/glamour"
)

// NewRenderer returns a function that renders markdown using glamour.
// If the renderer cannot be built, markdown is returned as is.
func NewRenderer() func(string) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(), // Automatically detect light/dark background
		glamour.WithWordWrap(100),
	)
	if err != nil {
		return PlainRenderer
	}

	return func(markdown string) (string, error) {
		return r.Render(markdown)
	}
}

// PlainRenderer leaves text untouched; used for pipes and headless runs.
func PlainRenderer(s string) (string, error) {
	return s, nil
}

// FormatResponse turns a chat reply into markdown: the message, the suggested
// actions as a list and, for degraded turns, the error note.
func FormatResponse(resp domain.ChatResponse) string {
	var sb strings.Builder
	sb.WriteString(strings.TrimSpace(resp.Message))
	sb.WriteString("\n")

	if len(resp.Actions) > 0 {
		sb.WriteString("\n**Suggestions**\n\n")
		for _, a := range resp.Actions {
			fmt.Fprintf(&sb, "- %s (`%s`)\n", a.Label, a.Type)
		}
	}
	if resp.Context.Error != "" {
		fmt.Fprintf(&sb, "\n> %s\n", resp.Context.Error)
	}
	return sb.String()
}
