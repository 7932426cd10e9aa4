package cmd

import (
	"pulse-node/internal/config"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type rootOptions struct {
	configDir  string
	gatewayURL string
	verbose    bool
}

// NewRootCmd builds the command tree. Defaults come from the same environment
// the node reads.
func NewRootCmd(cfg *config.Config) *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:   "pulsectl",
		Short: "Manage a local Pulse node",
		Long: `pulsectl works against the same settings file and MT5 gateway as the node.

It provides tools for:
  - Reading and updating the local settings document
  - Checking MT5 credentials without starting the node`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			log.SetOutput(cmd.ErrOrStderr())
			log.SetLevel(log.WarnLevel)
			if opts.verbose {
				log.SetLevel(log.DebugLevel)
			}
		},
	}

	root.PersistentFlags().StringVar(&opts.configDir, "config-dir", cfg.SettingsDir, "settings directory (default is the per-user Pulse directory)")
	root.PersistentFlags().StringVar(&opts.gatewayURL, "gateway", cfg.MT5GatewayURL, "MT5 gateway base URL")
	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log debug output to stderr")

	root.AddCommand(newConfigCmd(opts), newMT5Cmd(opts))
	return root
}

// Execute runs the command tree against the process arguments.
func Execute() error {
	return NewRootCmd(config.Load()).Execute()
}
