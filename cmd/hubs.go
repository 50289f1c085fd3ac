package cmd

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var hubsCmd = &cobra.Command{
	Use:   "hubs",
	Short: "List the impulse hubs and your progress in each",
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

		name := color.New(color.FgCyan, color.Bold).SprintFunc()
		faint := color.New(color.Faint).SprintFunc()
		for _, h := range a.catalog.Hubs() {
			fmt.Printf("%s %s %s\n", h.Icon, name(h.Name), faint("("+h.ID+")"))
			fmt.Printf("    %s\n", h.Description)
			fmt.Printf("    %d completions\n", ledger.ExerciseCategories[h.ID])
		}
		return nil
	},
}

// hubTitle turns a hub id like "return-calm" into "Return Calm".
func hubTitle(id string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(id, "-", " "))
}

func init() {
	rootCmd.AddCommand(hubsCmd)
}
