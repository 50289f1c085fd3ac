package cmd

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var showSteps bool

var showHubCmd = &cobra.Command{
	Use:   "show-hub <hub>",
	Short: "Display the exercises of a hub (optionally with their steps)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := wireApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		hub, err := a.catalog.Hub(args[0])
		if err != nil {
			return err
		}
		ledger, err := a.service.Ledger(cmd.Context())
		if err != nil {
			return fmt.Errorf("Failed to load progress: %w", err)
		}
		done := make(map[int]bool)
		for _, r := range ledger.CompletedExercises {
			if r.HubName == hub.ID {
				done[r.ExerciseIndex] = true
			}
		}

		green := color.New(color.FgGreen).SprintFunc()
		cyan := color.New(color.FgCyan).SprintFunc()

		fmt.Printf("\n%s %s\n", hub.Icon, green(strings.ToUpper(hub.Name)))
		fmt.Printf("%s: %s\n", cyan("About"), hub.Description)
		fmt.Println(strings.Repeat("=", 60))

		for _, ex := range hub.Exercises {
			mark := "  "
			if done[ex.Index] {
				mark = "🌸"
			}
			fmt.Printf("%s %d. %s\n", mark, ex.Index+1, ex.Name)
			if ex.Credit != "" {
				fmt.Printf("     %s: %s\n", cyan("Credit"), ex.Credit)
			}
			if showSteps {
				for i, step := range ex.Steps {
					fmt.Printf("     %d) %s\n", i+1, step.Text)
				}
			}
		}
		fmt.Println()
		return nil
	},
}

func init() {
	rootCmd.AddCommand(showHubCmd)
	showHubCmd.Flags().BoolVarP(&showSteps, "steps", "s", false, "Also print every step")
}
