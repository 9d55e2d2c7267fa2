package cmd

import (
	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and drop the stored session",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.Gate.SignOut(); err != nil {
			return err
		}
		cmd.Println("Signed out.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
