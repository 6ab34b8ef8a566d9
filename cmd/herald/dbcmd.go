package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pbittencourt/herald/internal/db"
)

func newDBCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "db",
		Short: "Database maintenance",
	}
	cmd.AddCommand(newDBMigrateCmd())
	return cmd
}

func newDBMigrateCmd() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the herald tables",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			gdb, err := db.Open(cfg.Database.Path)
			if err != nil {
				return err
			}
			if err := db.AutoMigrate(gdb); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Migrated %s\n", cfg.Database.Path)
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "herald.yaml", "path to herald config file")
	return cmd
}
