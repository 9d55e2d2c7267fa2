package export

import (
	"bytes"
	"testing"

	"github.com/MacaquinhoPro/chatgpt2/internal"
	"gopkg.in/yaml.v3"
)

func TestYAMLExporter_Export(t *testing.T) {
	conv, history := sampleConversation()
	var buf bytes.Buffer

	if err := (&YAMLExporter{}).Export(conv, history, &buf); err != nil {
		t.Fatalf("Export() error = %v", err)
	}

	var doc struct {
		Conversation internal.Conversation `yaml:"conversation"`
		Messages     []internal.Message    `yaml:"messages"`
	}
	if err := yaml.Unmarshal(buf.Bytes(), &doc); err != nil {
		t.Fatalf("output is not valid YAML: %v", err)
	}
	if doc.Conversation.Title != "Hello" {
		t.Errorf("title = %q", doc.Conversation.Title)
	}
	if len(doc.Messages) != 2 || doc.Messages[0].Text != "Hello world" {
		t.Errorf("messages = %+v", doc.Messages)
	}
}
