package cmd

import (
	"github.com/spf13/cobra"
)

var aboutCmd = &cobra.Command{
	Use:   "about",
	Short: "About this application",
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Println("chatgpt2 — a terminal chat client backed by Firebase and Gemini.")
		cmd.Println("Your conversations are stored under your account and mirrored")
		cmd.Println("to a local cache for offline listing and export.")
	},
}

func init() {
	rootCmd.AddCommand(aboutCmd)
}
