package internal

import (
	"strings"
	"testing"
)

func TestRenderBoldSpans(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"no spans", "plain text"},
		{"one span", "this is **bold** text"},
		{"two spans", "**a** and **b**"},
		{"unterminated span kept literal", "broken ** span"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RenderBoldSpans(tt.text)
			// Marker pairs are consumed; the inner text stays.
			if tt.name != "unterminated span kept literal" && strings.Contains(got, "**") {
				t.Errorf("RenderBoldSpans(%q) = %q, still contains markers", tt.text, got)
			}
			for _, word := range []string{"bold", "plain", "a", "b", "broken"} {
				if strings.Contains(tt.text, word) && !strings.Contains(got, word) {
					t.Errorf("RenderBoldSpans(%q) = %q, lost %q", tt.text, got, word)
				}
			}
		})
	}
}

func TestTheme_RenderMessage(t *testing.T) {
	for _, dark := range []bool{false, true} {
		theme := NewTheme(dark)

		user := theme.RenderMessage(Message{Text: "hello", Sender: SenderUser})
		if !strings.Contains(user, "You:") || !strings.Contains(user, "hello") {
			t.Errorf("user line = %q", user)
		}
		bot := theme.RenderMessage(Message{Text: "hi", Sender: SenderBot})
		if !strings.Contains(bot, "Bot:") || !strings.Contains(bot, "hi") {
			t.Errorf("bot line = %q", bot)
		}
	}
}

func TestNewTheme_DarkFlag(t *testing.T) {
	if NewTheme(true).Dark != true {
		t.Error("dark theme lost its flag")
	}
	if NewTheme(false).Dark != false {
		t.Error("light theme lost its flag")
	}
}
