package cmd

import (
	"encoding/json"
	"fmt"

	"pulse-node/internal/settings"

	"github.com/spf13/cobra"
)

func newConfigCmd(opts *rootOptions) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Read or change the local settings file",
	}

	configCmd.AddCommand(
		&cobra.Command{
			Use:   "path",
			Short: "Print the settings file location",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), settings.NewStore(opts.configDir).Path())
				return err
			},
		},
		&cobra.Command{
			Use:   "show",
			Short: "Print stored settings with API keys masked",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return printJSON(cmd, settings.NewStore(opts.configDir).Masked())
			},
		},
		&cobra.Command{
			Use:     "set KEY VALUE",
			Short:   "Store one setting",
			Example: "  pulsectl config set OPENAI_API_KEY sk-...",
			Args:    cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				store := settings.NewStore(opts.configDir)
				if _, err := store.Save(map[string]any{args[0]: args[1]}); err != nil {
					return fmt.Errorf("save %s: %w", args[0], err)
				}
				_, err := fmt.Fprintf(cmd.OutOrStdout(), "saved %s to %s\n", args[0], store.Path())
				return err
			},
		},
	)
	return configCmd
}

func printJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
