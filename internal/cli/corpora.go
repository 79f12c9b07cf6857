package cli

import (
	"github.com/spf13/cobra"

	"github.com/freyjadaisy/EPQ/internal/workspace"
)

var corporaCmd = &cobra.Command{
	Use:   "corpora",
	Short: "List the corpora found in the workspace",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		l, err := workspace.EnsureAt(layout.Root)
		if err != nil {
			return err
		}
		ids, err := workspace.DiscoverCorpora(l.Corpora)
		if err != nil {
			return err
		}
		if len(ids) == 0 {
			cmd.Printf("No corpora in %s\n", l.Corpora)
			return nil
		}
		for _, id := range ids {
			cmd.Println(id)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(corporaCmd)
}
