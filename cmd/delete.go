package cmd

import (
	"github.com/MacaquinhoPro/chatgpt2/internal"
	"github.com/spf13/cobra"
)

var deleteCmd = &cobra.Command{
	Use:   "delete <conversation-id>",
	Short: "Delete a conversation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		convID := args[0]
		session := app.Gate.Session()

		app.Store.RemoveConversation(convID)

		// Remote and cache deletes are best-effort, same as every other
		// persistence call.
		if err := app.Docs.DeleteConversationDoc(cmd.Context(), session, convID); err != nil {
			internal.LogError("failed to delete remote conversation: %v", err)
		}
		if cache, err := app.OpenCacheDB(); err == nil {
			if err := cache.DeleteConversation(convID); err != nil {
				internal.LogWarn("failed to delete cached conversation: %v", err)
			}
			cache.Close()
		}

		cmd.Printf("Deleted conversation %s\n", convID)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(deleteCmd)
}
