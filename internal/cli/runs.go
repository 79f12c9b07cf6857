package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/freyjadaisy/EPQ/internal/db"
	"github.com/freyjadaisy/EPQ/internal/workspace"
)

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "List analysis runs recorded with --store",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		l, err := workspace.EnsureAt(layout.Root)
		if err != nil {
			return err
		}
		runs, err := db.ListRuns(storePath(l))
		if err != nil {
			return err
		}
		if len(runs) == 0 {
			cmd.Println("No stored runs.")
			return nil
		}
		for _, r := range runs {
			baseline := r.BaselineSource
			if r.BaselineID != "" {
				baseline += ":" + r.BaselineID
			}
			cmd.Printf("%s  %s  %d corpora  baseline %s (%.3f%%)\n",
				r.ID, r.CreatedAt.Local().Format(time.DateTime), r.Corpora, baseline, r.BaselineRatio*100)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(runsCmd)
}
