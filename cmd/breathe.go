package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/DGeorgeA/go-friday-tmjuza/internal/catalog"
	"github.com/DGeorgeA/go-friday-tmjuza/internal/models"
	"github.com/DGeorgeA/go-friday-tmjuza/internal/player"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// breatheCmd plays a breathing pattern. Breathing earns no blossoms.
var breatheCmd = &cobra.Command{
	Use:   "breathe [pattern]",
	Short: "Follow a breathing pattern, or list the patterns",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := wireApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		if len(args) == 0 {
			printBoxedHeader("BREATHING")
			for _, p := range a.catalog.BreathingPatterns() {
				fmt.Printf("  • %s  %s\n", color.New(color.FgCyan, color.Bold).Sprint(p.ID), p.Name)
				fmt.Printf("      %s\n", p.Description)
			}
			return nil
		}

		pattern, err := a.catalog.BreathingPattern(args[0])
		if err != nil {
			return err
		}

		hub := models.Hub{ID: "breathing", Name: "Breathing", Icon: "🌬"}
		exercise := models.Exercise{Name: pattern.Name, Steps: catalog.PatternSteps(pattern)}
		summary, _, err := runPlayer(ctx, a, hub, exercise, player.Speed1x)
		if err != nil {
			return err
		}
		if summary != nil && summary.Completed {
			fmt.Printf("✅ %d breaths in %ds\n", pattern.Cycles, summary.DurationSeconds)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(breatheCmd)
	breatheCmd.Flags().BoolVar(&playPlain, "plain", false, "Print steps instead of opening the player")
}
