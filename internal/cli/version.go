package cli

import (
	"github.com/spf13/cobra"
)

var version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	// version works without a readable config
	PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
	Run: func(cmd *cobra.Command, _ []string) {
		cmd.Printf("epq version %s\n", version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
