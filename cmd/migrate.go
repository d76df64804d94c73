package cmd

import (
	"movie-theater/pkg/database"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap()
		if err != nil {
			return err
		}
		defer rt.close()

		if err := database.Migrate(contextOrBackground(cmd.Context()), rt.db); err != nil {
			return err
		}
		rt.logger.Info("Schema is up to date")
		return nil
	},
}
