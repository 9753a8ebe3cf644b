package cli

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kobocore/supplemental/internal/store"
)

// NewShowCommand creates the show command.
func NewShowCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		dbPath   string
		assetUID string
	)

	cmd := &cobra.Command{
		Use:   "show [submission-uuid]",
		Short: "Print stored supplemental data",
		Long: `Print the supplemental-data document for a submission, or list the
submissions with supplemental data when no UUID is given.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			st, err := store.Open(dbPath)
			if err != nil {
				return err
			}
			defer st.Close()

			if len(args) == 0 {
				submissions, err := st.List(cmd.Context(), assetUID)
				if err != nil {
					return err
				}
				for _, s := range submissions {
					fmt.Fprintln(cmd.OutOrStdout(), s)
				}
				return nil
			}

			rec, err := st.Get(cmd.Context(), assetUID, args[0])
			if errors.Is(err, sql.ErrNoRows) {
				return fmt.Errorf("no supplemental data for %s/%s", assetUID, args[0])
			}
			if err != nil {
				return err
			}
			return printJSON(cmd, rec.Content)
		},
	}

	cmd.Flags().StringVar(&dbPath, "db", "supplemental.db", "path to the SQLite database")
	cmd.Flags().StringVar(&assetUID, "asset", "", "asset UID")
	cmd.MarkFlagRequired("asset")

	return cmd
}
