package export

import (
	"encoding/json"
	"io"

	"github.com/MacaquinhoPro/chatgpt2/internal"
)

// JSONLExporter exports a conversation as one JSON object per message line
type JSONLExporter struct{}

type jsonlLine struct {
	ConversationID string          `json:"conversation_id"`
	Title          string          `json:"title"`
	MessageID      string          `json:"message_id"`
	Sender         internal.Sender `json:"sender"`
	Text           string          `json:"text"`
}

// Export exports a conversation to JSONL format
func (e *JSONLExporter) Export(conv *internal.Conversation, history []internal.Message, w io.Writer) error {
	enc := json.NewEncoder(w)
	for _, msg := range history {
		line := jsonlLine{
			ConversationID: conv.ID,
			Title:          conv.Title,
			MessageID:      msg.ID,
			Sender:         msg.Sender,
			Text:           msg.Text,
		}
		if err := enc.Encode(line); err != nil {
			return err
		}
	}
	return nil
}

// Extension returns the file extension for this format
func (e *JSONLExporter) Extension() string {
	return "jsonl"
}
