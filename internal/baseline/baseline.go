// Package baseline designates one corpus as the reference, derives its marker ratio, and tests
// every other corpus against it.
package baseline

import (
	"context"
	"fmt"
	"slices"
	"sort"

	"github.com/freyjadaisy/EPQ/internal/corpus"
	"github.com/freyjadaisy/EPQ/internal/logger"
	"github.com/freyjadaisy/EPQ/internal/pipeline"
	"github.com/freyjadaisy/EPQ/internal/significance"
)

// DefaultRatio is the expected marker fraction when no baseline corpus is available.
const DefaultRatio = 0.005

type Source string

const (
	SourceDesignated Source = "designated"
	SourceDefault    Source = "default"
)

type Baseline struct {
	ID     string  `json:"id,omitempty"`
	Ratio  float64 `json:"ratio"`
	Source Source  `json:"source"`
}

// Summary renders the baseline for reports, e.g. "designated (0.823%)".
func (b Baseline) Summary() string {
	return fmt.Sprintf("%s (%.3f%%)", b.Source, b.Ratio*100)
}

// Record is the analysis of one corpus. The baseline corpus's own record has IsBaseline set
// and carries no significance test.
type Record struct {
	corpus.Statistics
	IsBaseline     bool                 `json:"is_baseline,omitempty"`
	BaselineSource Source               `json:"baseline_source,omitempty"`
	Significance   *significance.Result `json:"significance,omitempty"`
}

type Results struct {
	Records  map[string]Record `json:"records"`
	Baseline Baseline          `json:"baseline"`
	// Failed holds the corpora that could not be analyzed. They are absent from Records.
	Failed map[string]error `json:"-"`
}

// IDs returns the analyzed corpus IDs in sorted order.
func (r Results) IDs() []string {
	ids := make([]string, 0, len(r.Records))
	for id := range r.Records {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// FailedIDs returns the corpus IDs that were requested but could not be analyzed.
func (r Results) FailedIDs() []string {
	ids := make([]string, 0, len(r.Failed))
	for id := range r.Failed {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

type Coordinator struct {
	analyzer     *corpus.Analyzer
	tester       *significance.Tester
	workers      int
	defaultRatio float64
}

type Option func(*Coordinator)

// WithWorkers bounds the number of corpora analyzed concurrently. n <= 0 uses one per CPU.
func WithWorkers(n int) Option {
	return func(c *Coordinator) {
		c.workers = n
	}
}

// WithDefaultRatio replaces DefaultRatio as the fallback baseline.
func WithDefaultRatio(r float64) Option {
	return func(c *Coordinator) {
		if r >= 0 && r <= 1 {
			c.defaultRatio = r
		}
	}
}

func NewCoordinator(analyzer *corpus.Analyzer, tester *significance.Tester, opts ...Option) *Coordinator {
	c := &Coordinator{
		analyzer:     analyzer,
		tester:       tester,
		workers:      1,
		defaultRatio: DefaultRatio,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Run analyzes every corpus in ids. When designated is one of ids it is analyzed first and
// its marker ratio becomes the expectation for all other corpora; otherwise the default ratio
// is used. Corpora that fail to load are logged, left out of Records and listed in Failed.
// The returned error is only ever ctx.Err().
func (c *Coordinator) Run(ctx context.Context, ids []string, designated string) (Results, error) {
	ids = dedup(ids)
	res := Results{
		Records:  make(map[string]Record, len(ids)),
		Baseline: Baseline{Ratio: c.defaultRatio, Source: SourceDefault},
		Failed:   map[string]error{},
	}

	logger.Section("Baseline")
	if designated != "" && slices.Contains(ids, designated) {
		stats, err := c.analyzer.Analyze(ctx, designated)
		if err != nil {
			logger.Warn("baseline corpus %s unavailable, using default ratio: %v", designated, err)
			res.Failed[designated] = err
		} else {
			res.Baseline = Baseline{ID: designated, Ratio: stats.MarkerRatio(), Source: SourceDesignated}
			res.Records[designated] = Record{Statistics: stats, IsBaseline: true}
		}
	} else if designated != "" {
		logger.Warn("baseline corpus %s not among requested corpora, using default ratio", designated)
	}
	logger.Info("baseline: %s", res.Baseline.Summary())

	others := make([]string, 0, len(ids))
	for _, id := range ids {
		if id != designated {
			others = append(others, id)
		}
	}

	logger.Section("Corpora")
	baseline := res.Baseline
	outcomes := pipeline.Map(ctx, others, c.workers, func(ctx context.Context, id string) (Record, error) {
		stats, err := c.analyzer.Analyze(ctx, id)
		if err != nil {
			return Record{}, err
		}
		result := c.tester.Test(stats.TotalWords, stats.MarkerCount, baseline.Ratio)
		return Record{
			Statistics:     stats,
			BaselineSource: baseline.Source,
			Significance:   &result,
		}, nil
	})

	for _, o := range outcomes {
		if o.Err != nil {
			logger.Warn("skipping corpus %s: %v", o.ID, o.Err)
			res.Failed[o.ID] = o.Err
			continue
		}
		res.Records[o.ID] = o.Value
		logger.Info("analyzed %s: %d words, %.2f%% markers", o.ID, o.Value.TotalWords, o.Value.MarkerPercentage)
	}
	return res, ctx.Err()
}

func dedup(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
