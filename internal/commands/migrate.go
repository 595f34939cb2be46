package commands

import (
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"ococalli/internal/infra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := infra.Migrate(current.db.WithContext(cmd.Context())); err != nil {
			return err
		}
		color.Green("schema is up to date (%s)\n", current.cfg.Database.Driver)
		return nil
	},
}
