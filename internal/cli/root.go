// Package cli implements the epq command line.
package cli

import (
	"context"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/freyjadaisy/EPQ/internal/config"
	"github.com/freyjadaisy/EPQ/internal/logger"
	"github.com/freyjadaisy/EPQ/internal/workspace"
)

var (
	cfgFile      string
	workspaceDir string
	verbose      bool

	settings config.Config
	layout   workspace.Layout
)

var rootCmd = &cobra.Command{
	Use:   "epq",
	Short: "Measure marker-word prevalence across text corpora",
	Long: `epq counts how often the words of a marker lexicon occur in each corpus of a
workspace and tests whether that rate differs from a baseline corpus.`,
	SilenceUsage:      true,
	PersistentPreRunE: setup,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default <workspace>/configs/epq.toml)")
	rootCmd.PersistentFlags().StringVarP(&workspaceDir, "workspace", "w", "", "workspace directory (default ~/EPQ)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command until it finishes or the process is interrupted.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}

func setup(_ *cobra.Command, _ []string) error {
	base := workspaceDir
	if base == "" {
		base = os.Getenv("EPQ_WORKSPACE")
	}
	if base == "" {
		root, err := workspace.DefaultRoot()
		if err != nil {
			return err
		}
		base = root
	}

	path, optional := cfgFile, false
	if path == "" {
		path, optional = workspace.At(base).ConfigPath(), true
	}
	cfg, err := config.Load(path, optional)
	if err != nil {
		return err
	}
	if workspaceDir == "" && cfg.Workspace != "" {
		base = cfg.Workspace
	}

	level, _ := logger.ParseLevel(cfg.Log.Level)
	logger.SetLevel(level)
	if verbose {
		logger.SetVerbose(true)
	}

	settings = cfg
	layout = workspace.At(base)
	logger.Debug("workspace %s, config %s", layout.Root, path)
	return nil
}
