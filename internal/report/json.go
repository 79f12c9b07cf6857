package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/freyjadaisy/EPQ/internal/baseline"
)

// Document is the JSON form of an analysis run. It holds no timestamps so identical inputs
// produce identical bytes.
type Document struct {
	Baseline        baseline.Baseline          `json:"baseline"`
	BaselineSummary string                     `json:"baseline_summary"`
	Corpora         map[string]baseline.Record `json:"corpora"`
	Skipped         map[string]string          `json:"skipped,omitempty"`
}

func NewDocument(res baseline.Results) Document {
	doc := Document{
		Baseline:        res.Baseline,
		BaselineSummary: res.Baseline.Summary(),
		Corpora:         res.Records,
	}
	if doc.Corpora == nil {
		doc.Corpora = map[string]baseline.Record{}
	}
	if len(res.Failed) > 0 {
		doc.Skipped = make(map[string]string, len(res.Failed))
		for id, err := range res.Failed {
			doc.Skipped[id] = err.Error()
		}
	}
	return doc
}

func WriteJSON(w io.Writer, res baseline.Results) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewDocument(res)); err != nil {
		return fmt.Errorf("encode json report: %w", err)
	}
	return nil
}
