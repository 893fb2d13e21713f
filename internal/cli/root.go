// Package cli implements the platemap command-line interface.
//
// Every command works on a plate file: a CSV document holding one or more
// plates. Commands load the file, change or inspect it, and write it back.
//
// # Commands
//
//   - new: append an empty plate
//   - add: place the samples of a sample list onto a plate
//   - remove: clear a project or a single well
//   - show: print plates, projects and well occupancy
//   - render: draw the plate maps to PDF or PNG
//   - labels: print QR-coded sample labels
//   - config: write the default configuration file
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging. The logger and
// the loaded configuration are passed to commands through context.Context.
package cli

import (
	"fmt"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/piwi3910/PlateMap/internal/config"
)

const appName = "platemap"

var (
	version = "dev"
	commit  string
	date    string
)

// SetVersion sets the version information displayed by --version.
func SetVersion(v, c, d string) {
	version = v
	commit = c
	date = d
}

// NewRootCommand builds the platemap command tree.
func NewRootCommand() *cobra.Command {
	var (
		verbose    bool
		configPath string
	)

	root := &cobra.Command{
		Use:           appName,
		Short:         "PlateMap places project samples on well plates and draws plate maps",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			level, err := log.ParseLevel(cfg.Logging.Level)
			if err != nil {
				return err
			}
			if verbose {
				level = log.DebugLevel
			}
			logger := newLogger(cmd.ErrOrStderr(), level)
			logger.Debug("configuration loaded", "page", cfg.Page.Size, "rows", cfg.Plate.Rows, "columns", cfg.Plate.Columns)
			cmd.SetContext(withConfig(withLogger(cmd.Context(), logger), cfg))
			return nil
		},
	}

	root.SetVersionTemplate(fmt.Sprintf("%s {{.Version}}\ncommit: %s\nbuilt: %s\n", appName, commit, date))
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.platemap/config.toml)")

	root.AddCommand(newNewCmd())
	root.AddCommand(newAddCmd())
	root.AddCommand(newRemoveCmd())
	root.AddCommand(newShowCmd())
	root.AddCommand(newRenderCmd())
	root.AddCommand(newLabelsCmd())
	root.AddCommand(newConfigCmd(&configPath, &verbose))

	return root
}
