// Package cli implements the supplemental command-line interface.
//
// The CLI is the operational surface of the action pipeline: it publishes
// the JSON Schemas clients author against, validates advanced-features
// configuration documents, and applies edit payloads to a local SQLite
// store. In production the router is invoked from an HTTP view instead;
// the commands here exercise the same code paths.
package cli

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
}

// NewRootCommand creates the root command for the supplemental CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "supplemental",
		Short: "Supplemental-data action pipeline",
		Long:  "Attach, validate, and revise post-hoc enrichment data (transcripts, translations) for survey submissions.",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if opts.Verbose {
				level = slog.LevelDebug
			}
			// Logs go to stderr so JSON output stays clean on stdout.
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")

	cmd.AddCommand(NewSchemaCommand(opts))
	cmd.AddCommand(NewValidateConfigCommand(opts))
	cmd.AddCommand(NewApplyCommand(opts))
	cmd.AddCommand(NewShowCommand(opts))

	return cmd
}
