package export

import (
	"io"

	"github.com/MacaquinhoPro/chatgpt2/internal"
	"gopkg.in/yaml.v3"
)

// YAMLExporter exports a conversation in YAML format
type YAMLExporter struct{}

type yamlDocument struct {
	Conversation internal.Conversation `yaml:"conversation"`
	Messages     []internal.Message    `yaml:"messages"`
}

// Export exports a conversation to YAML format
func (e *YAMLExporter) Export(conv *internal.Conversation, history []internal.Message, w io.Writer) error {
	doc := yamlDocument{Conversation: *conv, Messages: history}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(doc)
}

// Extension returns the file extension for this format
func (e *YAMLExporter) Extension() string {
	return "yaml"
}
