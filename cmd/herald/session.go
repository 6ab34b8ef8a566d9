package main

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pbittencourt/herald/internal/gateway/bridge"
)

func newSessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Manage the messaging session",
	}
	cmd.AddCommand(newSessionResetCmd())
	return cmd
}

func newSessionResetCmd() *cobra.Command {
	var (
		configPath string
		yes        bool
	)

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Wipe stored session credentials to force a fresh pairing",
		Long:  "Deletes the bridge credentials directory. The next serve run will present a new pairing code.",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			if !yes {
				fmt.Fprintf(cmd.OutOrStdout(), "This wipes the messaging session in %s. Continue? [y/N] ", cfg.Bridge.CredentialsDir)
				reader := bufio.NewReader(cmd.InOrStdin())
				line, _ := reader.ReadString('\n')
				if answer := strings.ToLower(strings.TrimSpace(line)); answer != "y" && answer != "yes" {
					fmt.Fprintln(cmd.OutOrStdout(), "Aborted.")
					return nil
				}
			}
			if err := bridge.Reset(cfg.Bridge.CredentialsDir); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Session credentials wiped. Re-pair on next serve.")
			return nil
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "herald.yaml", "path to herald config file")
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}
