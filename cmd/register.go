package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/MacaquinhoPro/chatgpt2/internal"
	"github.com/spf13/cobra"
)

var (
	registerName     string
	registerEmail    string
	registerPassword string
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new account",
	RunE: func(cmd *cobra.Command, args []string) error {
		name := strings.TrimSpace(registerName)
		email := strings.TrimSpace(registerEmail)
		password := registerPassword

		if name == "" || email == "" || password == "" {
			return fmt.Errorf("please fill in all fields (--name, --email, --password)")
		}
		if !internal.IsValidEmail(email) {
			return fmt.Errorf("the email address is not valid")
		}

		session, err := app.Identity.SignUp(cmd.Context(), email, password)
		if err != nil {
			var authErr *internal.AuthError
			if errors.As(err, &authErr) {
				return fmt.Errorf("%s", authErr.FriendlyMessage())
			}
			return err
		}

		if err := app.Identity.UpdateDisplayName(cmd.Context(), session, name); err != nil {
			internal.LogWarn("failed to set display name: %v", err)
		}

		cmd.Printf("Account created for %s. Run 'chatgpt2 login' to sign in.\n", email)
		return nil
	},
}

func init() {
	registerCmd.Flags().StringVar(&registerName, "name", "", "Display name")
	registerCmd.Flags().StringVar(&registerEmail, "email", "", "Account email")
	registerCmd.Flags().StringVar(&registerPassword, "password", "", "Account password")
	rootCmd.AddCommand(registerCmd)
}
