package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/kobocore/supplemental/internal/action"
	"github.com/kobocore/supplemental/internal/registry"
)

// NewSchemaCommand creates the schema command.
//
// The three per-action schemas and the composed advanced-features schema
// are the wire contract clients author against; this command is how they
// are published.
func NewSchemaCommand(rootOpts *RootOptions) *cobra.Command {
	var languages []string

	cmd := &cobra.Command{
		Use:   "schema [action-id]",
		Short: "Print the advanced-features schema, or one action's schemas",
		Long: `Print JSON Schemas as indented JSON.

With no argument, prints the composed schema that an asset's
advanced-features configuration document must satisfy.

With an action id, prints that action's params schema. Pass --languages
to additionally derive and print the data and result schemas for a
question configured with those languages.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := registry.New()
			if len(args) == 0 {
				return printJSON(cmd, reg.AdvancedFeaturesSchema())
			}
			return runActionSchema(cmd, reg, args[0], languages)
		},
	}

	cmd.Flags().StringSliceVar(&languages, "languages", nil, "derive data/result schemas for these configured languages (e.g. fr,en)")

	return cmd
}

func runActionSchema(cmd *cobra.Command, reg *registry.Registry, actionID string, languages []string) error {
	def, ok := reg.Lookup(actionID)
	if !ok {
		return fmt.Errorf("unknown action %q (registered: %s)", actionID, strings.Join(reg.IDs(), ", "))
	}

	out := map[string]any{
		"params": map[string]any(def.ParamsSchema()),
	}
	if len(languages) > 0 {
		params := make([]map[string]any, len(languages))
		for i, l := range languages {
			params[i] = map[string]any{"language": l}
		}
		act, err := def.New("question", params, action.SystemClock{})
		if err != nil {
			return err
		}
		out["data"] = map[string]any(act.DataSchema())
		out["result"] = map[string]any(act.ResultSchema())
	}
	return printJSON(cmd, out)
}

func printJSON(cmd *cobra.Command, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(raw))
	return nil
}
