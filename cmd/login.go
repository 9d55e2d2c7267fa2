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

var (
	loginEmail    string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in with your email and password",
	RunE: func(cmd *cobra.Command, args []string) error {
		email := strings.TrimSpace(loginEmail)
		password := loginPassword
		if email == "" || password == "" {
			var err error
			email, password, err = promptCredentials(cmd)
			if err != nil {
				return err
			}
		}
		if email == "" || password == "" {
			return fmt.Errorf("please fill in all fields")
		}

		session, err := app.Identity.SignIn(cmd.Context(), email, password)
		if err != nil {
			var authErr *internal.AuthError
			if errors.As(err, &authErr) {
				return fmt.Errorf("%s", authErr.FriendlyMessage())
			}
			return err
		}
		if err := app.Gate.SignIn(session); err != nil {
			return fmt.Errorf("failed to store session: %w", err)
		}

		name := session.DisplayName
		if name == "" {
			name = session.Email
		}
		cmd.Printf("Signed in as %s\n", name)
		return nil
	},
}

// promptCredentials reads email and password interactively.
func promptCredentials(cmd *cobra.Command) (string, string, error) {
	reader := bufio.NewReader(os.Stdin)

	cmd.Print("Email: ")
	email, err := reader.ReadString('\n')
	if err != nil {
		return "", "", err
	}
	cmd.Print("Password: ")
	password, err := reader.ReadString('\n')
	if err != nil {
		return "", "", err
	}
	return strings.TrimSpace(email), strings.TrimSpace(password), nil
}

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "Account email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "Account password")
	rootCmd.AddCommand(loginCmd)
}
