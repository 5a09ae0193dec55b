package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/recall/internal/access"
)

func newGrantCommand() *cobra.Command {
	var learnerID, moduleID int64

	cmd := &cobra.Command{
		Use:   "grant",
		Short: "Give a learner access to a private module",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			_, db, err := openDatabase()
			if err != nil {
				return err
			}
			defer func() {
				_ = db.Close()
			}()

			if err := access.NewDBChecker(db).Grant(cmd.Context(), learnerID, moduleID); err != nil {
				return fmt.Errorf("Grant(learner=%d, module=%d) > %w", learnerID, moduleID, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Learner %d can now study module %d\n", learnerID, moduleID)
			return nil
		},
	}
	cmd.Flags().Int64Var(&learnerID, "learner", 0, "Learner ID")
	cmd.Flags().Int64Var(&moduleID, "module", 0, "Module ID")
	_ = cmd.MarkFlagRequired("learner")
	_ = cmd.MarkFlagRequired("module")
	return cmd
}
