package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/at-ishikawa/recall/internal/cli"
	"github.com/at-ishikawa/recall/internal/session"
)

func newStudyCommand() *cobra.Command {
	var learnerID, moduleID int64
	mode := session.ModeNormal

	cmd := &cobra.Command{
		Use:   "study",
		Short: "Study a module interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, db, err := openDatabase()
			if err != nil {
				return err
			}
			defer func() {
				_ = db.Close()
			}()
			assembler, err := newAssembler(cfg, db)
			if err != nil {
				return err
			}

			studyCLI := cli.NewStudyCLI(assembler, learnerID, cfg.Scheduler.PassingQuality, cmd.InOrStdin(), cmd.OutOrStdout())
			if _, err := studyCLI.Run(cmd.Context(), moduleID, mode); err != nil {
				return fmt.Errorf("studyCLI.Run() > %w", err)
			}
			return nil
		},
	}
	cmd.Flags().Int64Var(&learnerID, "learner", 0, "Learner ID")
	cmd.Flags().Int64Var(&moduleID, "module", 0, "Module ID")
	cmd.Flags().Var(&mode, "mode", "Session mode: normal, wrong-only, sm2, or review")
	_ = cmd.MarkFlagRequired("learner")
	_ = cmd.MarkFlagRequired("module")
	return cmd
}
