package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kobocore/supplemental/internal/registry"
)

// NewValidateConfigCommand creates the validate-config command.
func NewValidateConfigCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate-config <config-file>",
		Short: "Validate an advanced-features configuration document",
		Long: `Validate a YAML or JSON advanced-features document against the
composed schema: _version pin, question xpath shape, registered action
identifiers, and per-action params.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := LoadDocument(args[0])
			if err != nil {
				return err
			}
			if err := registry.New().ValidateConfig(config); err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s: valid\n", args[0])
			return nil
		},
	}

	return cmd
}
