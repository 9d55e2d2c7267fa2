package cmd

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/MacaquinhoPro/chatgpt2/internal"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var listOffline bool

var (
	headerStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("62")).
			Padding(0, 1)

	idStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("240")).
		Italic(true)

	countStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42")).
			Bold(true)
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List your conversations",
	Long:  `List your conversations, newest last, reloaded from the remote store.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		session := app.Gate.Session()

		var convs []internal.Conversation
		if listOffline {
			var err error
			convs, err = loadListFromCache()
			if err != nil {
				return err
			}
		} else {
			var err error
			convs, err = app.Rehydrator.LoadConversations(ctx, session)
			if err != nil {
				var qerr *internal.QueryError
				if errors.As(err, &qerr) && qerr.MissingIndex {
					return fmt.Errorf("this query requires an index; create it in the Firebase console using the link in the error details")
				}
				internal.LogError("failed to load conversations: %v", err)
				return fmt.Errorf("failed to load conversations; please try again")
			}
			refreshListCache(convs)
		}

		if len(convs) == 0 {
			cmd.Println("No conversations yet. Run 'chatgpt2 chat' to start one.")
			return nil
		}

		cmd.Println(headerStyle.Render(fmt.Sprintf("Your Conversations (%d)", len(convs))))
		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		for _, conv := range convs {
			count := len(app.Store.History(conv.ID))
			fmt.Fprintf(w, "%s\t%s\t%s\n",
				app.Theme.Title.Render(conv.Title),
				countStyle.Render(fmt.Sprintf("%d messages", count)),
				idStyle.Render(conv.ID),
			)
		}
		return w.Flush()
	},
}

// loadListFromCache serves the conversation list from the local mirror.
func loadListFromCache() ([]internal.Conversation, error) {
	cache, err := app.OpenCacheDB()
	if err != nil {
		return nil, fmt.Errorf("failed to open cache: %w", err)
	}
	defer cache.Close()

	convs, err := cache.LoadConversations()
	if err != nil {
		return nil, err
	}
	app.Store.SetConversations(convs)
	for _, conv := range convs {
		msgs, err := cache.LoadHistory(conv.ID)
		if err != nil {
			internal.LogWarn("failed to load cached history for %s: %v", conv.ID, err)
			continue
		}
		app.Store.UpdateConversationHistory(conv.ID, msgs)
	}
	return convs, nil
}

// refreshListCache mirrors a fresh rehydration to the local cache.
func refreshListCache(convs []internal.Conversation) {
	cache, err := app.OpenCacheDB()
	if err != nil {
		internal.LogWarn("failed to open cache: %v", err)
		return
	}
	defer cache.Close()

	if err := cache.SaveConversations(convs); err != nil {
		internal.LogWarn("failed to cache conversations: %v", err)
	}
	for _, conv := range convs {
		if err := cache.SaveHistory(conv.ID, app.Store.History(conv.ID)); err != nil {
			internal.LogWarn("failed to cache history for %s: %v", conv.ID, err)
		}
	}
}

func init() {
	listCmd.Flags().BoolVar(&listOffline, "offline", false, "Read from the local cache instead of the remote store")
	rootCmd.AddCommand(listCmd)
}
