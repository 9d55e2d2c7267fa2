package export

import (
	"fmt"
	"io"

	"github.com/MacaquinhoPro/chatgpt2/internal"
)

// MarkdownExporter exports a conversation in Markdown format
type MarkdownExporter struct{}

// Export exports a conversation to Markdown format
func (e *MarkdownExporter) Export(conv *internal.Conversation, history []internal.Message, w io.Writer) error {
	_, _ = fmt.Fprintf(w, "# %s\n\n", conv.Title)
	_, _ = fmt.Fprintf(w, "**Conversation:** %s  \n", conv.ID)
	_, _ = fmt.Fprintf(w, "**Messages:** %d\n\n", len(history))
	_, _ = fmt.Fprintf(w, "---\n\n")

	for i, msg := range history {
		label := "Assistant"
		if msg.Sender == internal.SenderUser {
			label = "User"
		}
		_, _ = fmt.Fprintf(w, "**%s:**\n\n%s\n\n", label, msg.Text)
		if i < len(history)-1 {
			_, _ = fmt.Fprintf(w, "---\n\n")
		}
	}
	return nil
}

// Extension returns the file extension for this format
func (e *MarkdownExporter) Extension() string {
	return "md"
}
