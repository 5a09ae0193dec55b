package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/at-ishikawa/recall/internal/statistics"
)

func newStatsCommand() *cobra.Command {
	var learnerID, moduleID int64

	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show a learner's progress through a module",
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

			summary, err := assembler.ModuleSummary(cmd.Context(), learnerID, moduleID)
			if err != nil {
				return fmt.Errorf("assembler.ModuleSummary(learner=%d, module=%d) > %w", learnerID, moduleID, err)
			}
			return printSummary(cmd.OutOrStdout(), summary)
		},
	}
	cmd.Flags().Int64Var(&learnerID, "learner", 0, "Learner ID")
	cmd.Flags().Int64Var(&moduleID, "module", 0, "Module ID")
	_ = cmd.MarkFlagRequired("learner")
	_ = cmd.MarkFlagRequired("module")
	return cmd
}

func printSummary(w io.Writer, s statistics.Summary) error {
	if _, err := color.New(color.Bold).Fprintf(w, "Module %d\n", s.ModuleID); err != nil {
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "Items\t%d\n", s.TotalItems)
	fmt.Fprintf(tw, "Studied\t%d\n", s.StudiedItems)
	fmt.Fprintf(tw, "Due\t%d\n", s.DueItems)
	fmt.Fprintf(tw, "Retired\t%d\n", s.RetiredItems)
	fmt.Fprintf(tw, "Changed since studied\t%d\n", s.StaleItems)
	fmt.Fprintf(tw, "Answers\t%d correct, %d wrong (%.0f%%)\n", s.CorrectAnswers, s.WrongAnswers, s.Accuracy*100)
	for i, n := range s.Boxes {
		fmt.Fprintf(tw, "Box %d\t%d\n", i+1, n)
	}
	return tw.Flush()
}
