package cmd

import (
	"fmt"
	"time"

	"github.com/DGeorgeA/go-friday-tmjuza/internal/config"
	"github.com/DGeorgeA/go-friday-tmjuza/internal/progress"
	"github.com/DGeorgeA/go-friday-tmjuza/internal/utils"
	"github.com/spf13/cobra"
)

var loginCmd = &cobra.Command{
	Use:   "login <user-id>",
	Short: "Sign in and reconcile local progress with your remote profile",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := resolveConfigDir()
		if err != nil {
			return err
		}
		if err := config.SaveSession(dir, config.Session{UserID: args[0], SignedInAt: time.Now().UTC()}); err != nil {
			return err
		}

		a, err := wireApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		fmt.Printf("✅ Signed in as %s\n", args[0])
		res, err := a.service.Reconcile(cmd.Context())
		if err != nil {
			a.logger.Warn("reconcile after sign-in failed", "err", err)
			fmt.Println("   Could not reach your profile, will sync later.")
			return nil
		}
		if res.Status == progress.SyncDone {
			fmt.Printf("   Synced: %d pushed, %d pulled\n", res.Pushed, res.Pulled)
		}
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and clear progress stored on this device",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := wireApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close()

		// Push what we can first; local records are gone after this.
		if _, err := a.service.SyncToRemote(cmd.Context()); err != nil {
			a.logger.Warn("final sync before sign-out failed", "err", err)
		}
		if err := a.service.Clear(cmd.Context()); err != nil {
			return fmt.Errorf("Failed to clear progress: %w", err)
		}
		if err := config.ClearSession(a.dir); err != nil {
			return fmt.Errorf("Failed to clear session: %w", err)
		}
		if err := utils.ClearPlayerState(a.dir); err != nil {
			return fmt.Errorf("Failed to clear player state: %w", err)
		}

		fmt.Println("✅ Signed out")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
}
