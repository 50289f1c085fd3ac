package cmd

import (
	"errors"
	"fmt"

	"github.com/DGeorgeA/go-friday-tmjuza/internal/progress"
	"github.com/DGeorgeA/go-friday-tmjuza/internal/storage"
	"github.com/spf13/cobra"
)

var (
	pushOnly bool
	pullOnly bool
)

var syncCmd = &cobra.Command{
	Use:   "sync",
	Short: "Push local progress to the remote profile and adopt the remote state",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		a, err := wireApp(ctx)
		if err != nil {
			return err
		}
		defer a.Close()

		var res progress.SyncResult
		switch {
		case pushOnly && pullOnly:
			return fmt.Errorf("--push and --pull are mutually exclusive")
		case pushOnly:
			res, err = a.service.SyncToRemote(ctx)
		case pullOnly:
			res, err = a.service.MergeFromRemote(ctx)
		default:
			res, err = a.service.Reconcile(ctx)
		}
		if errors.Is(err, progress.ErrUnsyncedProgress) {
			return fmt.Errorf("Failed to sync: %w (run 'gofriday sync' or 'gofriday sync --push' first)", err)
		}
		if err != nil {
			return fmt.Errorf("Failed to sync: %w", err)
		}

		if res.Status == progress.SyncSkipped {
			fmt.Println("Not signed in or no remote configured, nothing to sync.")
			return nil
		}
		fmt.Printf("✅ Synced: %d pushed, %d pulled\n", res.Pushed, res.Pulled)
		if res.ProfileCreated {
			fmt.Println("   Created your remote profile.")
		}
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export [output-file]",
	Short: "Export your progress to a TOML or YAML file",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := wireApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		outputFile := ""
		if len(args) == 1 {
			outputFile = args[0]
		} else if outputFile, err = storage.GetExportPath(a.cfg.DataDir); err != nil {
			return err
		}

		ledger, err := a.service.Ledger(cmd.Context())
		if err != nil {
			return fmt.Errorf("Failed to load progress: %w", err)
		}
		if err := storage.ExportLedger(ledger, outputFile); err != nil {
			return fmt.Errorf("error exporting progress: %w", err)
		}

		fmt.Printf("✅ Progress exported successfully to %s\n", outputFile)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <dump-file>",
	Short: "Replace your local progress with the given TOML or YAML dump",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ledger, err := storage.ImportLedger(args[0])
		if err != nil {
			return fmt.Errorf("Failed to read dump: %w", err)
		}

		a, err := wireApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.local.Save(cmd.Context(), ledger); err != nil {
			return fmt.Errorf("Failed to import progress: %w", err)
		}
		fmt.Printf("✅ Imported %d exercises and %d blossoms.\n", len(ledger.CompletedExercises), ledger.TotalBlossoms)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(syncCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
	syncCmd.Flags().BoolVar(&pushOnly, "push", false, "Only push local records")
	syncCmd.Flags().BoolVar(&pullOnly, "pull", false, "Only adopt the remote state")
}
