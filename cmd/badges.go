package cmd

import (
	"fmt"
	"slices"

	"github.com/DGeorgeA/go-friday-tmjuza/internal/models"
	"github.com/DGeorgeA/go-friday-tmjuza/internal/progress"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var badgesCmd = &cobra.Command{
	Use:   "badges",
	Short: "List every badge and which ones you unlocked",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := wireApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		ledger, err := a.service.Ledger(cmd.Context())
		if err != nil {
			return fmt.Errorf("Failed to load progress: %w", err)
		}

		unlocked := color.New(color.FgHiMagenta, color.Bold).SprintFunc()
		locked := color.New(color.Faint).SprintFunc()

		printBoxedHeader("BADGES")
		for _, kind := range []string{models.BadgeKindImpulse, models.BadgeKindGlobal} {
			fmt.Println(color.New(color.FgGreen, color.Bold).Sprintf("%s badges:", hubTitle(kind)))
			for _, b := range progress.Badges() {
				if b.Kind != kind {
					continue
				}
				if slices.Contains(ledger.BadgesUnlocked, b.ID) {
					fmt.Printf("  ✓ %s  %s\n", unlocked(b.Name), b.Description)
				} else {
					fmt.Printf("  · %s  %s\n", locked(b.Name), locked(b.Description))
				}
			}
			fmt.Println()
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(badgesCmd)
}
