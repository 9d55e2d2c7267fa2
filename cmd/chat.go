package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/MacaquinhoPro/chatgpt2/internal"
	"github.com/spf13/cobra"
)

var chatConversationID string

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start or resume an interactive conversation",
	Long: `Open an interactive chat. With --conversation the existing thread is
reloaded from the remote store; without it a new conversation is created
and titled after the first word of your first message.

Type your message and press enter. Use /quit to leave.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		session := app.Gate.Session()
		theme := app.Theme

		convID := chatConversationID
		if convID == "" {
			convID = app.Exchanger.EnsureConversation(ctx, session, "")
			cmd.Println(theme.Faint.Render("Started conversation " + convID))
		} else {
			// Reload the conversation list so the resumed thread's
			// metadata (title) is present locally.
			if _, err := app.Rehydrator.LoadConversations(ctx, session); err != nil {
				internal.LogWarn("failed to load conversation list: %v", err)
			}
			// Rehydrate the thread: full overwrite of local history from
			// the remote messages subcollection.
			if err := app.Rehydrator.LoadHistory(ctx, session, convID); err != nil {
				var qerr *internal.QueryError
				if errors.As(err, &qerr) && qerr.MissingIndex {
					return fmt.Errorf("this query requires an index; create it in the Firebase console using the link in the error details")
				}
				internal.LogError("failed to load history: %v", err)
				return fmt.Errorf("failed to load the conversation; please try again")
			}
			for _, msg := range app.Store.History(convID) {
				cmd.Println(theme.RenderMessage(msg))
			}
		}

		if conv, ok := app.Store.GetConversation(convID); ok {
			cmd.Println(theme.Title.Render(conv.Title))
		}

		scanner := bufio.NewScanner(os.Stdin)
		for {
			cmd.Print("> ")
			if !scanner.Scan() {
				break
			}
			line := strings.TrimSpace(scanner.Text())
			if line == "" {
				continue
			}
			if line == "/quit" || line == "/exit" {
				break
			}

			cmd.Println(theme.Faint.Render("..."))
			reply, err := app.Exchanger.Send(ctx, session, convID, line)
			if err != nil {
				cmd.Println(theme.ErrorText.Render(sendAlert(err)))
				continue
			}
			cmd.Println(theme.RenderMessage(reply))
		}

		saveChatCache(convID)
		return scanner.Err()
	},
}

// sendAlert maps the three distinguished completion-API failures to their
// distinct user-facing alerts.
func sendAlert(err error) string {
	var statusErr *internal.APIStatusError
	switch {
	case errors.As(err, &statusErr):
		return "API error: could not get a reply from the Gemini model."
	case errors.Is(err, internal.ErrInvalidReply):
		return "Invalid response: the Gemini API did not reply with a valid message."
	default:
		return "Connection error: could not reach the Gemini API."
	}
}

// saveChatCache mirrors the finished conversation to the local cache.
func saveChatCache(convID string) {
	cache, err := app.OpenCacheDB()
	if err != nil {
		internal.LogWarn("failed to open cache: %v", err)
		return
	}
	defer cache.Close()

	if err := cache.SaveConversations(app.Store.Conversations()); err != nil {
		internal.LogWarn("failed to cache conversations: %v", err)
	}
	if err := cache.SaveHistory(convID, app.Store.History(convID)); err != nil {
		internal.LogWarn("failed to cache history: %v", err)
	}
}

func init() {
	chatCmd.Flags().StringVarP(&chatConversationID, "conversation", "c", "", "Conversation ID to resume")
	rootCmd.AddCommand(chatCmd)
}
