package cmd

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/MacaquinhoPro/chatgpt2/internal"
	"github.com/MacaquinhoPro/chatgpt2/internal/export"
	"github.com/spf13/cobra"
)

var (
	exportFormat  string
	exportOutput  string
	exportOffline bool
)

var exportCmd = &cobra.Command{
	Use:   "export <conversation-id>",
	Short: "Export a conversation to a file",
	Long: `Export a conversation in the given format (json, jsonl, md, yaml).
By default the history is reloaded from the remote store first; --offline
exports the locally cached copy instead.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		convID := args[0]
		session := app.Gate.Session()

		exporter, err := export.NewExporter(exportFormat)
		if err != nil {
			return err
		}

		var conv internal.Conversation
		var history []internal.Message
		if exportOffline {
			conv, history, err = loadExportFromCache(convID)
			if err != nil {
				return err
			}
		} else {
			if err := app.Rehydrator.LoadHistory(cmd.Context(), session, convID); err != nil {
				internal.LogError("failed to load history: %v", err)
				return fmt.Errorf("failed to load the conversation; please try again")
			}
			history = app.Store.History(convID)
			conv, _ = app.Store.GetConversation(convID)
			if conv.ID == "" {
				conv = internal.Conversation{ID: convID, Title: "Untitled"}
			}
		}

		outPath := exportOutput
		if outPath == "" {
			outPath = fmt.Sprintf("conversation_%s.%s", convID, exporter.Extension())
		}
		if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil && filepath.Dir(outPath) != "." {
			return fmt.Errorf("failed to create output directory: %w", err)
		}

		f, err := os.Create(outPath)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()

		if err := exporter.Export(&conv, history, f); err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		cmd.Printf("Exported %d messages to %s\n", len(history), outPath)
		return nil
	},
}

// loadExportFromCache reads one conversation and its history from the
// local mirror.
func loadExportFromCache(convID string) (internal.Conversation, []internal.Message, error) {
	cache, err := app.OpenCacheDB()
	if err != nil {
		return internal.Conversation{}, nil, fmt.Errorf("failed to open cache: %w", err)
	}
	defer cache.Close()

	convs, err := cache.LoadConversations()
	if err != nil {
		return internal.Conversation{}, nil, err
	}
	conv := internal.Conversation{ID: convID, Title: "Untitled"}
	found := false
	for _, c := range convs {
		if c.ID == convID {
			conv = c
			found = true
			break
		}
	}

	history, err := cache.LoadHistory(convID)
	if err != nil {
		return internal.Conversation{}, nil, err
	}
	if !found && len(history) == 0 {
		return internal.Conversation{}, nil, errors.New("conversation not found in cache")
	}
	return conv, history, nil
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "json", "Export format (json, jsonl, md, yaml)")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Output file path")
	exportCmd.Flags().BoolVar(&exportOffline, "offline", false, "Export the locally cached copy")
	rootCmd.AddCommand(exportCmd)
}
