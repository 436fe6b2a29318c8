package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newInitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file",
		Long:  "Create the configuration directory and a default config.yaml unless one exists.",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, written, err := writeConfigIfMissing(a.configDir)
			if err != nil {
				return err
			}
			if !written {
				fmt.Fprintf(cmd.OutOrStdout(), "config exists: %s\n", path)
				return nil
			}
			a.logger.Debug("config written", "path", path)
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", path)
			return nil
		},
	}
}
