package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/kobocore/supplemental/internal/action"
	"github.com/kobocore/supplemental/internal/registry"
	"github.com/kobocore/supplemental/internal/router"
	"github.com/kobocore/supplemental/internal/store"
)

// NewApplyCommand creates the apply command.
func NewApplyCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		dbPath     string
		assetUID   string
		configPath string
	)

	cmd := &cobra.Command{
		Use:   "apply <payload-file>",
		Short: "Apply an edit payload to the supplemental-data store",
		Long: `Apply a YAML or JSON edit payload to the local store.

The payload names a _version, a _submission UUID, and one entry per
question xpath being edited. Every (question, action) pair must be
configured in the asset's advanced-features document; the whole payload
is applied as one write, or not at all.`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			reg := registry.New()

			asset, err := loadAsset(reg, assetUID, configPath)
			if err != nil {
				return err
			}
			payload, err := LoadDocument(args[0])
			if err != nil {
				return err
			}

			st, err := store.Open(dbPath)
			if err != nil {
				return err
			}
			defer st.Close()

			r := router.New(reg, st, action.SystemClock{})
			doc, err := r.Apply(cmd.Context(), asset, payload)
			if err != nil {
				return err
			}
			slog.Debug("payload applied", "asset", assetUID, "questions", len(doc))
			return printJSON(cmd, doc)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "supplemental.db", "path to the SQLite database")
	cmd.Flags().StringVar(&assetUID, "asset", "", "asset UID owning the submission")
	cmd.Flags().StringVar(&configPath, "config", "", "advanced-features configuration file")
	cmd.MarkFlagRequired("asset")
	cmd.MarkFlagRequired("config")

	return cmd
}
