package export

import (
	"encoding/json"
	"io"

	"github.com/MacaquinhoPro/chatgpt2/internal"
)

// JSONExporter exports a conversation as one indented JSON document
type JSONExporter struct{}

type jsonDocument struct {
	Conversation internal.Conversation `json:"conversation"`
	Messages     []internal.Message    `json:"messages"`
}

// Export exports a conversation to JSON format
func (e *JSONExporter) Export(conv *internal.Conversation, history []internal.Message, w io.Writer) error {
	doc := jsonDocument{Conversation: *conv, Messages: history}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}

// Extension returns the file extension for this format
func (e *JSONExporter) Extension() string {
	return "json"
}
