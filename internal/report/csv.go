package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/freyjadaisy/EPQ/internal/baseline"
	"github.com/freyjadaisy/EPQ/internal/lexicon"
	"github.com/freyjadaisy/EPQ/internal/significance"
)

// DefaultTopN is how many general word-frequency rows are written per corpus.
const DefaultTopN = 50

var summaryHeader = []string{
	"Corpus", "Total Words", "Unique Words", "Marker Words Count", "Unique Marker Words",
	"Marker Word %", "Marker List Coverage %", "Baseline", "Chi-Square", "P-Value",
	"Significant", "Expected Marker Count", "Observed/Expected",
}

// WriteCSV renders results as a summary table followed by per-corpus frequency tables.
// Only the first topN general word frequencies are written (topN <= 0 selects DefaultTopN);
// marker frequencies are written in full.
func WriteCSV(w io.Writer, res baseline.Results, topN int) error {
	if topN <= 0 {
		topN = DefaultTopN
	}
	cw := csv.NewWriter(w)
	ids := res.IDs()

	rows := [][]string{summaryHeader}
	for _, id := range ids {
		rows = append(rows, summaryRow(id, res.Records[id]))
	}
	rows = append(rows,
		[]string{},
		[]string{"Baseline", res.Baseline.Summary()},
		[]string{},
		[]string{"Detailed Word Frequency Analysis"},
		[]string{},
	)
	for _, id := range ids {
		rec := res.Records[id]
		rows = append(rows, []string{fmt.Sprintf("Word frequencies for %s:", id)}, []string{"Word", "Count"})
		rows = appendCounts(rows, rec.WordFrequency, topN)
		rows = append(rows, []string{}, []string{fmt.Sprintf("Marker word frequencies for %s:", id)}, []string{"Word", "Count"})
		rows = appendCounts(rows, rec.MarkerFrequency, len(rec.MarkerFrequency))
		rows = append(rows, []string{})
	}
	if failed := res.FailedIDs(); len(failed) > 0 {
		rows = append(rows, []string{"Skipped corpora"}, []string{"Corpus", "Reason"})
		for _, id := range failed {
			rows = append(rows, []string{id, res.Failed[id].Error()})
		}
	}

	for _, row := range rows {
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

func summaryRow(id string, rec baseline.Record) []string {
	row := []string{
		id,
		strconv.Itoa(rec.TotalWords),
		strconv.Itoa(rec.UniqueWords),
		strconv.Itoa(rec.MarkerCount),
		strconv.Itoa(rec.UniqueMarkers),
		fmt.Sprintf("%.2f%%", rec.MarkerPercentage),
		fmt.Sprintf("%.2f%%", rec.Coverage),
		baselineLabel(rec),
	}
	return append(row, significanceCells(rec.Significance)...)
}

func baselineLabel(rec baseline.Record) string {
	if rec.IsBaseline {
		return "baseline"
	}
	return string(rec.BaselineSource)
}

func significanceCells(s *significance.Result) []string {
	if s == nil {
		return []string{"", "", "", "", ""}
	}
	return []string{
		formatFloat(s.Statistic, "%.4f"),
		formatFloat(s.PValue, "%.6f"),
		formatBool(s.Significant),
		formatFloat(s.ExpectedCount, "%.2f"),
		formatRatio(s.ObservedExpected),
	}
}

func appendCounts(rows [][]string, counts []lexicon.Count, limit int) [][]string {
	for i, c := range counts {
		if i >= limit {
			break
		}
		rows = append(rows, []string{c.Word, strconv.Itoa(c.Count)})
	}
	return rows
}

func formatFloat(v *float64, format string) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf(format, *v)
}

func formatBool(v *bool) string {
	if v == nil {
		return ""
	}
	if *v {
		return "yes"
	}
	return "no"
}

func formatRatio(r *significance.Ratio) string {
	if r == nil {
		return ""
	}
	if math.IsInf(float64(*r), 1) {
		return "inf"
	}
	return fmt.Sprintf("%.3f", float64(*r))
}
