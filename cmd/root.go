package cmd

import (
	"fmt"
	"os"

	"github.com/MacaquinhoPro/chatgpt2/internal"
	"github.com/spf13/cobra"
)

var (
	verbose   bool
	configDir string
	version   string = "dev"
	commit    string = "unknown"
	date      string = "unknown"

	app *internal.App
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "chatgpt2",
	Short: "Chat with Gemini from your terminal",
	Long: `A terminal chat client backed by Firebase and the Gemini API.

Conversations are stored in Firestore under your account and mirrored to a
local cache, so listing and exporting keep working offline. Replies come
from the Gemini generateContent endpoint.

Quick Start:
  chatgpt2 register              # Create an account
  chatgpt2 login                 # Sign in
  chatgpt2 chat                  # Start a new conversation
  chatgpt2 list                  # List your conversations
  chatgpt2 export <id> --format md

Run 'chatgpt2 settings --dark' to switch to the dark palette.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
}

func init() {
	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		internal.SetVerbose(verbose)

		dir := configDir
		if dir == "" {
			var err error
			dir, err = internal.DefaultConfigDir()
			if err != nil {
				return err
			}
		}

		var err error
		app, err = internal.NewApp(dir)
		if err != nil {
			return fmt.Errorf("failed to initialize: %w", err)
		}

		// Session gate: public commands pass through, everything else
		// needs a signed-in user. Bare invocation just prints help.
		if cmd == rootCmd || internal.PublicCommands[cmd.Name()] {
			return nil
		}
		if _, err := app.Gate.Require(cmd.Context()); err != nil {
			return err
		}
		return nil
	}
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config", "", "Custom config directory (default ~/.chatgpt2)")

	rootCmd.SetVersionTemplate(`{{printf "%s\n" .Version}}`)
}
