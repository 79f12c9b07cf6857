package cli

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/freyjadaisy/EPQ/internal/baseline"
	"github.com/freyjadaisy/EPQ/internal/corpus"
	"github.com/freyjadaisy/EPQ/internal/db"
	"github.com/freyjadaisy/EPQ/internal/lexicon"
	"github.com/freyjadaisy/EPQ/internal/logger"
	"github.com/freyjadaisy/EPQ/internal/report"
	"github.com/freyjadaisy/EPQ/internal/significance"
	"github.com/freyjadaisy/EPQ/internal/workspace"
)

const defaultReportName = "marker_analysis_results"

var errNoCorpora = errors.New("no corpora found")

var (
	analyzeBaseline string
	analyzeWorkers  int
	analyzeTopN     int
	analyzeOut      string
	analyzeJSON     bool
	analyzeStore    bool
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [corpus...]",
	Short: "Analyze corpora against a baseline",
	Long: `Counts marker words in each corpus and tests every corpus against the baseline.
Without arguments every corpus in the workspace is analyzed. The baseline is the
corpus named by --baseline (or analysis.baseline); when it is missing the default
ratio is used instead.`,
	RunE: runAnalyze,
}

func init() {
	f := analyzeCmd.Flags()
	f.StringVarP(&analyzeBaseline, "baseline", "b", "", "corpus to use as the baseline")
	f.IntVar(&analyzeWorkers, "workers", 0, "corpora analyzed concurrently")
	f.IntVar(&analyzeTopN, "top", 0, "word frequency rows per corpus in the CSV report")
	f.StringVarP(&analyzeOut, "out", "o", defaultReportName, "report file name without extension")
	f.BoolVar(&analyzeJSON, "json", false, "also write a JSON report")
	f.BoolVar(&analyzeStore, "store", false, "record the run in the workspace database")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	l, err := workspace.EnsureAt(layout.Root)
	if err != nil {
		return err
	}

	ids := args
	if len(ids) == 0 {
		if ids, err = workspace.DiscoverCorpora(l.Corpora); err != nil {
			return err
		}
		if len(ids) == 0 {
			return fmt.Errorf("%w in %s", errNoCorpora, l.Corpora)
		}
	}

	lex, err := loadLexicon()
	if err != nil {
		return err
	}

	engine := settings.Stats.Engine
	if engine && !significance.EngineAvailable() {
		logger.Warn("%v, significance tests disabled", significance.ErrEngineUnavailable)
		engine = false
	}

	tester := significance.NewTester(engine, settings.Stats.Alpha)
	if !tester.Engine() {
		logger.Info("significance tests disabled, reporting counts only")
	} else {
		logger.Debug("significance level %.3f", tester.Alpha())
	}

	analyzer := corpus.NewAnalyzer(corpus.DirSource{Root: l.Corpora}, lexicon.NewMatcher(lex))
	coord := baseline.NewCoordinator(
		analyzer,
		tester,
		baseline.WithWorkers(pick(analyzeWorkers, settings.Analysis.Workers)),
		baseline.WithDefaultRatio(settings.Analysis.DefaultRatio),
	)

	designated := analyzeBaseline
	if designated == "" {
		designated = settings.Analysis.Baseline
	}
	res, err := coord.Run(cmd.Context(), ids, designated)
	if err != nil {
		return fmt.Errorf("analysis interrupted: %w", err)
	}
	if len(res.Records) == 0 {
		return fmt.Errorf("%w: none of %d requested corpora could be read", errNoCorpora, len(ids))
	}

	topN := pick(analyzeTopN, settings.Analysis.TopN)
	csvPath := l.ReportPath(analyzeOut, ".csv")
	if err := workspace.WriteAtomic(csvPath, func(w io.Writer) error {
		return report.WriteCSV(w, res, topN)
	}); err != nil {
		return fmt.Errorf("write csv report: %w", err)
	}

	out := cmd.OutOrStdout()
	if err := report.WriteSummary(out, res); err != nil {
		return err
	}
	for _, id := range res.FailedIDs() {
		cmd.Printf("Skipped %s: %v\n", id, res.Failed[id])
	}
	cmd.Printf("Results written to %s\n", csvPath)

	if analyzeJSON {
		jsonPath := l.ReportPath(analyzeOut, ".json")
		if err := workspace.WriteAtomic(jsonPath, func(w io.Writer) error {
			return report.WriteJSON(w, res)
		}); err != nil {
			return fmt.Errorf("write json report: %w", err)
		}
		cmd.Printf("JSON report written to %s\n", jsonPath)
	}

	if analyzeStore || settings.Store.Enabled {
		runID, err := db.PersistResults(storePath(l), res, time.Now())
		if err != nil {
			return fmt.Errorf("store run: %w", err)
		}
		cmd.Printf("Stored run %s\n", runID)
	}
	return nil
}

func storePath(l workspace.Layout) string {
	if settings.Store.Path != "" {
		return settings.Store.Path
	}
	return l.DatabasePath()
}

// pick returns flag when it was set to a positive value, otherwise the configured value.
func pick(flag, configured int) int {
	if flag > 0 {
		return flag
	}
	return configured
}
