package cmd

import (
	"errors"
	"fmt"
	"os"

	"github.com/DGeorgeA/go-friday-tmjuza/internal/config"
	"github.com/spf13/cobra"
)

const configTemplate = `# gofriday configuration. Every key can also be set as GOFRIDAY_<KEY>,
# e.g. GOFRIDAY_REMOTE_URL. TURSO_DATABASE_URL and TURSO_AUTH_TOKEN are read
# from the environment or a .env file when remote.url is empty.
log_level = "info"
# data_dir = ""
# catalog_path = ""

[remote]
# url = "libsql://your-db.turso.io"
# auth_token = ""
`

var initSetupCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the config directory, config file, settings and local database",
	RunE: func(cmd *cobra.Command, args []string) error {
		dir, err := resolveConfigDir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("Failed to create %s: %w", dir, err)
		}

		path := config.ConfigPath(dir)
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
				return fmt.Errorf("Failed to write config: %w", err)
			}
		}

		// Opening the app creates the database schema.
		a, err := wireApp(cmd.Context())
		if err != nil {
			return fmt.Errorf("Failed to initialize database: %w", err)
		}
		defer a.Close()

		if err := config.SaveSettings(dir, a.settings); err != nil {
			return err
		}

		fmt.Printf("✅ Initialized %s\n", dir)
		printMetric("Config", path)
		printMetric("Database", a.cfg.LocalDBPath())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(initSetupCmd)
}
