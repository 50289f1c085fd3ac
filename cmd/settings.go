package cmd

import (
	"fmt"
	"strconv"

	"github.com/DGeorgeA/go-friday-tmjuza/internal/config"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "List your settings",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := resolveConfigDir()
		if err != nil {
			return err
		}
		s, err := config.LoadSettings(dir)
		if err != nil {
			return err
		}

		on := color.New(color.FgGreen, color.Bold).SprintFunc()
		off := color.New(color.Faint).SprintFunc()
		printBoxedHeader("SETTINGS")
		for _, key := range s.Keys() {
			v, _ := s.Get(key)
			state := off("off")
			if v {
				state = on("on")
			}
			printMetric(key, state)
		}
		return nil
	},
}

var toggleSettingCmd = &cobra.Command{
	Use:   "toggle <setting>",
	Short: "Flip a setting on or off",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return updateSetting(args[0], func(s *config.Settings) (bool, error) {
			return s.Toggle(args[0])
		})
	},
}

var setSettingCmd = &cobra.Command{
	Use:   "set <setting> <true|false>",
	Short: "Set a setting",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		value, err := strconv.ParseBool(args[1])
		if err != nil {
			return fmt.Errorf("invalid value %q: want true or false", args[1])
		}
		return updateSetting(args[0], func(s *config.Settings) (bool, error) {
			return value, s.Set(args[0], value)
		})
	},
}

func updateSetting(key string, change func(*config.Settings) (bool, error)) error {
	dir, err := resolveConfigDir()
	if err != nil {
		return err
	}
	s, err := config.LoadSettings(dir)
	if err != nil {
		return err
	}
	value, err := change(&s)
	if err != nil {
		return err
	}
	if err := config.SaveSettings(dir, s); err != nil {
		return err
	}
	fmt.Printf("✅ %s is now %t\n", key, value)
	return nil
}

func init() {
	rootCmd.AddCommand(settingsCmd)
	settingsCmd.AddCommand(toggleSettingCmd)
	settingsCmd.AddCommand(setSettingCmd)
}
