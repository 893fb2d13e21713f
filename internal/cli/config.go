package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/piwi3910/PlateMap/internal/config"
)

func newConfigCmd(configPath *string, verbose *bool) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the configuration file",
		// Replaces the root hook so a broken config file can still be rewritten.
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := log.InfoLevel
			if *verbose {
				level = log.DebugLevel
			}
			cmd.SetContext(withLogger(cmd.Context(), newLogger(cmd.ErrOrStderr(), level)))
			return nil
		},
	}

	var force bool
	initCmd := &cobra.Command{
		Use:   "init",
		Short: "Write the default configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := *configPath
			if path == "" {
				path = config.DefaultConfigPath()
			}
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			} else if err != nil && !errors.Is(err, os.ErrNotExist) {
				return err
			}
			if err := config.Save(path, config.Default()); err != nil {
				return err
			}
			loggerFromContext(cmd.Context()).Info("Wrote configuration", "path", path)
			return nil
		},
	}
	initCmd.Flags().BoolVar(&force, "force", false, "overwrite an existing file")

	cmd.AddCommand(initCmd)
	return cmd
}
