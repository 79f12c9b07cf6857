package cli

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/freyjadaisy/EPQ/internal/config"
	"github.com/freyjadaisy/EPQ/internal/workspace"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the workspace directories and a default config file",
	RunE:  runInit,
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite an existing config file")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, _ []string) error {
	l, err := workspace.EnsureAt(layout.Root)
	if err != nil {
		return err
	}
	path := l.ConfigPath()
	if _, err := os.Stat(path); err == nil && !initForce {
		cmd.Printf("Config already exists at %s\n", path)
		return nil
	} else if err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	if err := config.Save(path, config.Defaults()); err != nil {
		return err
	}
	cmd.Printf("Workspace ready at %s\n", l.Root)
	cmd.Printf("Config written to %s\n", path)
	return nil
}
