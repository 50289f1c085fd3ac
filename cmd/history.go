package cmd

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/DGeorgeA/go-friday-tmjuza/internal/models"
	"github.com/DGeorgeA/go-friday-tmjuza/internal/utils"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	filterHub string
	filterDay string
)

// historyCmd shows completed exercises grouped by hub and day.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Display completed exercises, optionally filtered by hub and/or day",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := wireApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		ledger, err := a.service.Ledger(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to retrieve history: %w", err)
		}
		records := ledger.CompletedExercises

		// Case insensitive filtering by hub.
		if filterHub != "" {
			var filtered []models.ExerciseRecord
			for _, r := range records {
				if strings.EqualFold(r.HubName, filterHub) {
					filtered = append(filtered, r)
				}
			}
			records = filtered
		}

		if filterDay != "" {
			parsedDay, err := time.ParseInLocation(utils.DayLayout, filterDay, time.Local)
			if err != nil {
				parsedDay, err = time.ParseInLocation("02/01/06", filterDay, time.Local)
			}
			if err != nil {
				return fmt.Errorf("failed to parse day: %w", err)
			}

			var filtered []models.ExerciseRecord
			for _, r := range records {
				if utils.Day(r.CompletedAt, time.Local) == utils.Day(parsedDay, time.Local) {
					filtered = append(filtered, r)
				}
			}
			records = filtered
		}

		grouped := make(map[string]map[string][]models.ExerciseRecord)
		for _, r := range records {
			if _, ok := grouped[r.HubName]; !ok {
				grouped[r.HubName] = make(map[string][]models.ExerciseRecord)
			}
			day := utils.Day(r.CompletedAt, time.Local)
			grouped[r.HubName][day] = append(grouped[r.HubName][day], r)
		}

		var hubKeys []string
		for h := range grouped {
			hubKeys = append(hubKeys, h)
		}
		sort.Strings(hubKeys)

		boldGreen := color.New(color.FgGreen, color.Bold).SprintFunc()
		cyan := color.New(color.FgCyan).SprintFunc()
		yellow := color.New(color.FgYellow).SprintFunc()
		magenta := color.New(color.FgMagenta).SprintFunc()

		for _, hub := range hubKeys {
			fmt.Printf("%s %s\n", boldGreen("Hub:"), boldGreen(hubTitle(hub)))
			var days []string
			for d := range grouped[hub] {
				days = append(days, d)
			}
			sort.Strings(days)
			for _, d := range days {
				fmt.Printf("  Date: %s\n", cyan(d))
				list := grouped[hub][d]
				sort.Slice(list, func(i, j int) bool {
					return list[i].CompletedAt.Before(list[j].CompletedAt)
				})
				for _, r := range list {
					fmt.Printf("    #%d %s | At: %s | Rating: %s | %s 🌸\n",
						r.ExerciseIndex+1,
						r.ExerciseName,
						r.CompletedAt.In(time.Local).Format("15:04"),
						yellow(r.Rating),
						magenta(fmt.Sprintf("+%d", r.BlossomsEarned)),
					)
				}
			}
			fmt.Println()
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.Flags().StringVarP(&filterHub, "hub", "b", "", "Filter by hub id (case insensitive)")
	historyCmd.Flags().StringVarP(&filterDay, "day", "d", "", "Filter by day (e.g. 2026-03-06 or 06/03/26)")
}
