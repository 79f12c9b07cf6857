package report

import (
	"fmt"
	"io"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/freyjadaisy/EPQ/internal/baseline"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
var cellStyle = lipgloss.NewStyle().Padding(0, 1)

// WriteSummary prints a terminal table with one row per corpus and the baseline line.
func WriteSummary(w io.Writer, res baseline.Results) error {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Corpus", "Words", "Markers", "Marker %", "Coverage %", "Chi-Square", "P-Value", "Significant").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	for _, id := range res.IDs() {
		rec := res.Records[id]
		cells := significanceCells(rec.Significance)
		sig := cells[2]
		if rec.IsBaseline {
			sig = "baseline"
		}
		t.Row(
			id,
			strconv.Itoa(rec.TotalWords),
			strconv.Itoa(rec.MarkerCount),
			fmt.Sprintf("%.2f", rec.MarkerPercentage),
			fmt.Sprintf("%.2f", rec.Coverage),
			cells[0],
			cells[1],
			sig,
		)
	}
	if _, err := fmt.Fprintln(w, t.Render()); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "Baseline: %s\n", res.Baseline.Summary())
	return err
}
