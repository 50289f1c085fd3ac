package cmd

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/DGeorgeA/go-friday-tmjuza/internal/models"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// details is a flag to enable per-day exercise details.
var details bool

// calendarCmd prints the calendar grid. Days with completions are colored after
// the hub of the first completion that day, and a legend is printed below.
var calendarCmd = &cobra.Command{
	Use:   "calendar [month] [year]",
	Short: "Display a calendar of practice days with a legend mapping colors to hubs",
	Args:  cobra.RangeArgs(0, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		now := time.Now()
		month := now.Month()
		year := now.Year()
		if len(args) >= 1 {
			m, err := strconv.Atoi(args[0])
			if err != nil || m < 1 || m > 12 {
				return fmt.Errorf("invalid month: %s", args[0])
			}
			month = time.Month(m)
		}
		if len(args) == 2 {
			y, err := strconv.Atoi(args[1])
			if err != nil || y < 1 {
				return fmt.Errorf("invalid year: %s", args[1])
			}
			year = y
		}

		firstOfMonth := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)
		lastOfMonth := firstOfMonth.AddDate(0, 1, -1)

		a, err := wireApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		ledger, err := a.service.Ledger(cmd.Context())
		if err != nil {
			return fmt.Errorf("failed to load progress: %w", err)
		}

		byDay := make(map[int][]models.ExerciseRecord)
		hubSet := make(map[string]bool)
		for _, r := range ledger.CompletedExercises {
			local := r.CompletedAt.In(time.Local)
			if local.Year() != year || local.Month() != month {
				continue
			}
			byDay[local.Day()] = append(byDay[local.Day()], r)
			hubSet[r.HubName] = true
		}
		for _, list := range byDay {
			sort.Slice(list, func(i, j int) bool { return list[i].CompletedAt.Before(list[j].CompletedAt) })
		}

		colorPalette := []color.Attribute{
			color.FgRed, color.FgGreen, color.FgYellow,
			color.FgBlue, color.FgMagenta, color.FgCyan,
		}
		var hubs []string
		for h := range hubSet {
			hubs = append(hubs, h)
		}
		sort.Strings(hubs)
		hubColors := make(map[string]func(a ...any) string)
		for i, h := range hubs {
			hubColors[h] = color.New(colorPalette[i%len(colorPalette)]).SprintFunc()
		}

		header := fmt.Sprintf("%s %d", month.String(), year)
		fmt.Println(centerText(header, 20))
		fmt.Println("Su Mo Tu We Th Fr Sa")

		weekday := int(firstOfMonth.Weekday())
		for i := 0; i < weekday; i++ {
			fmt.Print("   ")
		}

		for day := 1; day <= lastOfMonth.Day(); day++ {
			dayStr := fmt.Sprintf("%2d", day)
			if list, ok := byDay[day]; ok {
				dayStr = hubColors[list[0].HubName](dayStr + "*")
			}
			fmt.Printf("%s ", dayStr)
			weekday++
			if weekday%7 == 0 {
				fmt.Println()
			}
		}
		fmt.Print("\n\n")

		fmt.Println("Legend:")
		for _, h := range hubs {
			fmt.Printf("  %s: %s\n", hubColors[h]("██"), hubTitle(h))
		}

		if details {
			fmt.Println("\nDetails:")
			var days []int
			for d := range byDay {
				days = append(days, d)
			}
			sort.Ints(days)
			for _, day := range days {
				dayDate := time.Date(year, month, day, 0, 0, 0, 0, time.Local)
				fmt.Printf("\n%s:\n", dayDate.Format("Mon, 02 Jan 2006"))
				for _, r := range byDay[day] {
					fmt.Printf("  %s %s (%s) rated %d\n",
						r.CompletedAt.In(time.Local).Format("15:04"), r.ExerciseName, r.HubName, r.Rating)
				}
			}
		}

		return nil
	},
}

// centerText centers the given string in a field of the specified width.
func centerText(s string, width int) string {
	if len(s) >= width {
		return s
	}
	padding := (width - len(s)) / 2
	return strings.Repeat(" ", padding) + s
}

func init() {
	rootCmd.AddCommand(calendarCmd)
	calendarCmd.Flags().BoolVarP(&details, "details", "d", false, "Print the exercises done each day")
}
