package internal

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Theme holds the dark/light flag and the derived terminal styles read by
// every rendering command.
type Theme struct {
	Dark bool

	Title     lipgloss.Style
	UserLine  lipgloss.Style
	BotLine   lipgloss.Style
	Faint     lipgloss.Style
	ErrorText lipgloss.Style
}

// NewTheme builds the style set for the given mode.
func NewTheme(dark bool) *Theme {
	t := &Theme{Dark: dark}

	if dark {
		t.Title = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("255"))
		t.UserLine = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Bold(true)
		t.BotLine = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
		t.Faint = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))
	} else {
		t.Title = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0"))
		t.UserLine = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Bold(true)
		t.BotLine = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
		t.Faint = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	}
	t.ErrorText = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))

	return t
}

// RenderMessage formats one message line with the sender label and bold
// **…** spans in the text.
func (t *Theme) RenderMessage(msg Message) string {
	text := RenderBoldSpans(msg.Text)
	if msg.Sender == SenderUser {
		return t.UserLine.Render("You: ") + text
	}
	return t.BotLine.Render("Bot: ") + text
}

// RenderBoldSpans renders **…** spans in bold, leaving the rest of the
// text untouched.
func RenderBoldSpans(text string) string {
	bold := lipgloss.NewStyle().Bold(true)
	var out strings.Builder
	for {
		start := strings.Index(text, "**")
		if start < 0 {
			out.WriteString(text)
			break
		}
		end := strings.Index(text[start+2:], "**")
		if end < 0 {
			out.WriteString(text)
			break
		}
		out.WriteString(text[:start])
		out.WriteString(bold.Render(text[start+2 : start+2+end]))
		text = text[start+2+end+2:]
	}
	return out.String()
}
