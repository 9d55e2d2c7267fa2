package cmd

import (
	"github.com/MacaquinhoPro/chatgpt2/internal"
	"github.com/spf13/cobra"
)

var (
	settingsDark  bool
	settingsLight bool
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change preferences",
	RunE: func(cmd *cobra.Command, args []string) error {
		changed := false
		if settingsDark {
			app.Config.DarkMode = true
			changed = true
		}
		if settingsLight {
			app.Config.DarkMode = false
			changed = true
		}

		if changed {
			if err := internal.SaveConfig(internal.ConfigPath(app.ConfigDir), app.Config); err != nil {
				return err
			}
		}

		mode := "light"
		if app.Config.DarkMode {
			mode = "dark"
		}
		cmd.Printf("Theme: %s\n", mode)
		cmd.Printf("Model: %s\n", app.Config.Gemini.Model)
		return nil
	},
}

func init() {
	settingsCmd.Flags().BoolVar(&settingsDark, "dark", false, "Switch to the dark palette")
	settingsCmd.Flags().BoolVar(&settingsLight, "light", false, "Switch to the light palette")
	rootCmd.AddCommand(settingsCmd)
}
