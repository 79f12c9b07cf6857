package corpus

import (
	"context"
	"fmt"

	"github.com/freyjadaisy/EPQ/internal/lexicon"
	"github.com/freyjadaisy/EPQ/internal/logger"
	"github.com/freyjadaisy/EPQ/internal/tokenize"
)

// Statistics summarizes one corpus. Percentages are on a 0-100 scale and are 0 for an empty
// corpus. WordFrequency keeps only words seen at least twice.
type Statistics struct {
	Documents        int             `json:"documents"`
	TotalWords       int             `json:"total_words"`
	UniqueWords      int             `json:"unique_words"`
	MarkerCount      int             `json:"marker_count"`
	UniqueMarkers    int             `json:"unique_markers"`
	MarkerPercentage float64         `json:"marker_percentage"`
	Coverage         float64         `json:"marker_coverage"`
	WordFrequency    []lexicon.Count `json:"word_frequency"`
	MarkerFrequency  []lexicon.Count `json:"marker_frequency"`
}

// MarkerRatio is the fraction of tokens that are markers.
func (s Statistics) MarkerRatio() float64 {
	if s.TotalWords == 0 {
		return 0
	}
	return float64(s.MarkerCount) / float64(s.TotalWords)
}

type Analyzer struct {
	source  Source
	matcher *lexicon.Matcher
}

func NewAnalyzer(source Source, matcher *lexicon.Matcher) *Analyzer {
	return &Analyzer{source: source, matcher: matcher}
}

// Analyze loads corpus id from the source and summarizes it. Load failures wrap
// ErrSourceUnavailable or ErrInvalidFormat.
func (a *Analyzer) Analyze(ctx context.Context, id string) (Statistics, error) {
	docs, err := a.source.Load(ctx, id)
	if err != nil {
		return Statistics{}, fmt.Errorf("load corpus %s: %w", id, err)
	}
	stats := a.AnalyzeDocuments(docs)
	logger.Debug("corpus %s: documents=%d words=%d markers=%d", id, stats.Documents, stats.TotalWords, stats.MarkerCount)
	return stats, nil
}

func (a *Analyzer) AnalyzeDocuments(docs []Document) Statistics {
	tokens := tokenize.Tokenize(Text(docs))
	all := lexicon.Tally(tokens, nil)
	match := a.matcher.Match(tokens)

	repeated := make([]lexicon.Count, 0, len(all))
	for _, c := range all {
		if c.Count < 2 {
			break
		}
		repeated = append(repeated, c)
	}
	markers := match.Counts
	if markers == nil {
		markers = []lexicon.Count{}
	}

	return Statistics{
		Documents:        len(docs),
		TotalWords:       len(tokens),
		UniqueWords:      len(all),
		MarkerCount:      match.Total,
		UniqueMarkers:    match.Unique,
		MarkerPercentage: match.Ratio * 100,
		Coverage:         match.CoverageRatio * 100,
		WordFrequency:    repeated,
		MarkerFrequency:  markers,
	}
}
