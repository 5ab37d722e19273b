package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/balrog57/chireaders/pkg/data"
)

var (
	settingsDarkMode string
	settingsFontSize int
	settingsNotify   string
	settingsInterval time.Duration
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change app settings",
	Run: func(cmd *cobra.Command, args []string) {
		e, err := newEnv(cmd.Context())
		cobra.CheckErr(err)
		defer e.close()

		patch, changed, err := buildPatch(cmd, e.store.Settings())
		cobra.CheckErr(err)

		if changed {
			cobra.CheckErr(e.store.UpdateSettings(cmd.Context(), patch))
			e.autoBackup(cmd.Context())
			fmt.Println("✅ Settings updated")
		}

		s := e.store.Settings()
		fmt.Println("⚙️  Settings")
		fmt.Println("  dark mode:       ", onOff(s.DarkMode))
		fmt.Println("  font size:       ", s.FontSize)
		fmt.Println("  notifications:   ", onOff(s.Notifications.Enabled))
		fmt.Println("  check interval:  ", time.Duration(s.Notifications.CheckInterval)*time.Millisecond)
	},
}

func buildPatch(cmd *cobra.Command, current data.Settings) (data.SettingsPatch, bool, error) {
	var patch data.SettingsPatch
	changed := false

	if cmd.Flags().Changed("dark-mode") {
		v, err := parseOnOff(settingsDarkMode)
		if err != nil {
			return patch, false, err
		}
		patch.DarkMode = &v
		changed = true
	}
	if cmd.Flags().Changed("font-size") {
		if settingsFontSize < 1 {
			return patch, false, fmt.Errorf("font size must be positive")
		}
		v := settingsFontSize
		patch.FontSize = &v
		changed = true
	}
	if cmd.Flags().Changed("notify") || cmd.Flags().Changed("interval") {
		// notification settings replace as a unit, so start from current ones
		notifications := current.Notifications
		if cmd.Flags().Changed("notify") {
			v, err := parseOnOff(settingsNotify)
			if err != nil {
				return patch, false, err
			}
			notifications.Enabled = v
		}
		if cmd.Flags().Changed("interval") {
			if settingsInterval <= 0 {
				return patch, false, fmt.Errorf("check interval must be positive")
			}
			notifications.CheckInterval = settingsInterval.Milliseconds()
		}
		patch.Notifications = &notifications
		changed = true
	}

	return patch, changed, nil
}

func parseOnOff(value string) (bool, error) {
	switch value {
	case "on", "true", "yes":
		return true, nil
	case "off", "false", "no":
		return false, nil
	}
	return false, fmt.Errorf("expected on or off, got %q", value)
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func init() {
	settingsCmd.Flags().StringVar(&settingsDarkMode, "dark-mode", "", "turn dark mode on or off")
	settingsCmd.Flags().IntVar(&settingsFontSize, "font-size", 0, "reader font size")
	settingsCmd.Flags().StringVar(&settingsNotify, "notify", "", "turn new-chapter notifications on or off")
	settingsCmd.Flags().DurationVar(&settingsInterval, "interval", 0, "how often to check for new chapters")
}
