package db

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/freyjadaisy/EPQ/internal/baseline"
	"github.com/freyjadaisy/EPQ/internal/corpus"
	"github.com/freyjadaisy/EPQ/internal/lexicon"
	"github.com/freyjadaisy/EPQ/internal/significance"
)

func analysisResults(t *testing.T) baseline.Results {
	t.Helper()
	src := corpus.MemorySource{
		"control": {{Body: "panic " + strings.Repeat("garden ", 199)}},
		"anxiety": {{Body: strings.Repeat("panic worry ", 10) + strings.Repeat("garden ", 180)}},
	}
	analyzer := corpus.NewAnalyzer(src, lexicon.NewMatcher(lexicon.Default()))
	res, err := baseline.NewCoordinator(analyzer, significance.NewTester(true, 0)).
		Run(context.Background(), []string{"anxiety", "control"}, "control")
	require.NoError(t, err)
	return res
}

func TestPersistResults(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "analysis.db")
	res := analysisResults(t)

	runID, err := PersistResults(dbPath, res, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.NotEmpty(t, runID)

	runs, err := CountRows(dbPath, "runs")
	require.NoError(t, err)
	assert.Equal(t, 1, runs)

	results, err := CountRows(dbPath, "corpus_results")
	require.NoError(t, err)
	assert.Equal(t, 2, results)

	// control has {panic}, anxiety has {panic, worry}
	markers, err := CountRows(dbPath, "marker_counts")
	require.NoError(t, err)
	assert.Equal(t, 3, markers)
}

func TestListRunsNewestFirst(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "analysis.db")
	res := analysisResults(t)

	first, err := PersistResults(dbPath, res, time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	second, err := PersistResults(dbPath, res, time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)

	runs, err := ListRuns(dbPath)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, second, runs[0].ID)
	assert.Equal(t, first, runs[1].ID)
	assert.Equal(t, "control", runs[0].BaselineID)
	assert.Equal(t, "designated", runs[0].BaselineSource)
	assert.InDelta(t, 0.005, runs[0].BaselineRatio, 1e-12)
	assert.Equal(t, 2, runs[0].Corpora)
}
