package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/DGeorgeA/go-friday-tmjuza/internal/catalog"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show blossoms, level, streak, badges and completions per hub",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := wireApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		streak, err := a.service.UpdateStreak(cmd.Context())
		if err != nil {
			return fmt.Errorf("Failed to load progress: %w", err)
		}
		ledger, err := a.service.Ledger(cmd.Context())
		if err != nil {
			return fmt.Errorf("Failed to load progress: %w", err)
		}
		if len(ledger.CompletedExercises) == 0 {
			streak = 0
		}

		current, next := catalog.LevelInfo(ledger.TotalBlossoms)

		printBoxedHeader("STATUS")
		printMetric("Blossoms", fmt.Sprintf("%d 🌸", ledger.TotalBlossoms))
		printMetric("Level", fmt.Sprintf("%d (%s)", current.Level, current.Name))
		if next != nil {
			printMetric("Next level", fmt.Sprintf("%s in %d blossoms", next.Name, next.Blossoms-ledger.TotalBlossoms))
		}
		printMetric("Streak", fmt.Sprintf("%d days (x%.1f)", streak, ledger.StreakMultiplier))
		printMetric("Exercises completed", len(ledger.CompletedExercises))
		printMetric("Badges", fmt.Sprintf("%d unlocked", len(ledger.BadgesUnlocked)))
		if ledger.LastSyncedAt != nil {
			printMetric("Last synced", ledger.LastSyncedAt.Local().Format("Mon, 02 Jan 2006 15:04"))
		} else {
			printMetric("Last synced", "never")
		}
		fmt.Println()

		header := color.New(color.FgGreen, color.Bold).Sprintf("Completions per hub:")
		fmt.Println(header)
		var hubs []string
		for h := range ledger.ExerciseCategories {
			hubs = append(hubs, h)
		}
		sort.Strings(hubs)
		for _, h := range hubs {
			mark := ""
			for _, done := range ledger.HubSequencesCompleted {
				if done == h {
					mark = " ✓"
				}
			}
			fmt.Printf("  • %s: %d%s\n", color.New(color.FgMagenta, color.Bold).Sprint(hubTitle(h)), ledger.ExerciseCategories[h], mark)
		}
		fmt.Println()

		return nil
	},
}

// printBoxedHeader prints the title in a Unicode box with a fixed width.
func printBoxedHeader(title string) {
	width := 40
	cyanBold := color.New(color.FgCyan, color.Bold).SprintFunc()
	border := strings.Repeat("═", width)
	fmt.Println(cyanBold("╔" + border + "╗"))
	fmt.Println(cyanBold("║" + padCenter(title, width) + "║"))
	fmt.Println(cyanBold("╚" + border + "╝"))
}

// padCenter centers s in width columns, padding both sides.
func padCenter(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return s
	}
	padding := (width - n) / 2
	return strings.Repeat(" ", padding) + s + strings.Repeat(" ", width-n-padding)
}

// printMetric prints a label and value using bold yellow for the label.
func printMetric(label string, value any) {
	yellowBold := color.New(color.FgYellow, color.Bold).SprintFunc()
	fmt.Printf("  %s: %v\n", yellowBold(label), value)
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
