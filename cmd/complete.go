package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var completeRating int

// completeCmd records an exercise done away from the player.
var completeCmd = &cobra.Command{
	Use:   "complete <hub> <exercise>",
	Short: "Record a completed exercise without playing it",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := wireApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		hub, err := a.catalog.Hub(args[0])
		if err != nil {
			return err
		}
		exercise, err := exerciseArg(a, hub.ID, args[1])
		if err != nil {
			return err
		}

		award, err := a.service.RecordCompletion(ctx, hub.ID, exercise.Name, exercise.Index, completeRating)
		if err != nil {
			return fmt.Errorf("Failed to record completion: %w", err)
		}
		printAward(award)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(completeCmd)
	completeCmd.Flags().IntVarP(&completeRating, "rating", "r", 0, "Rating 1-5")
	completeCmd.MarkFlagRequired("rating")
}
