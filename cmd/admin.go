package cmd

import (
	"fmt"

	"movie-theater/internal/usecase"
	"movie-theater/pkg/database"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	adminUsername string
	adminEmail    string
	adminPassword string
)

var createAdminCmd = &cobra.Command{
	Use:   "create-admin",
	Short: "Create the admin account if it does not exist",
	Long:  `Creates an admin account from ADMIN_USERNAME, ADMIN_EMAIL and ADMIN_PASSWORD, or the matching flags. Existing accounts are left untouched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rt, err := bootstrap()
		if err != nil {
			return err
		}
		defer rt.close()

		ctx := contextOrBackground(cmd.Context())
		if err := database.Migrate(ctx, rt.db); err != nil {
			return err
		}

		username := firstNonEmpty(adminUsername, rt.config.Admin.Username)
		email := firstNonEmpty(adminEmail, rt.config.Admin.Email)
		password := firstNonEmpty(adminPassword, rt.config.Admin.Password)

		service := usecase.NewService(rt.repo, rt.config, rt.cache, rt.metrics, rt.logger)
		created, err := service.Account.EnsureAdmin(ctx, username, email, password)
		if err != nil {
			return fmt.Errorf("create admin: %w", err)
		}

		if created {
			rt.logger.Info("Admin account created", zap.String("username", username))
			fmt.Fprintf(cmd.OutOrStdout(), "admin %q created\n", username)
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "admin %q already exists\n", username)
		}
		return nil
	},
}

func init() {
	createAdminCmd.Flags().StringVar(&adminUsername, "username", "", "admin username (default ADMIN_USERNAME)")
	createAdminCmd.Flags().StringVar(&adminEmail, "email", "", "admin email (default ADMIN_EMAIL)")
	createAdminCmd.Flags().StringVar(&adminPassword, "password", "", "admin password (default ADMIN_PASSWORD)")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
