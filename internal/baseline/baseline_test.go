package baseline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/freyjadaisy/EPQ/internal/corpus"
	"github.com/freyjadaisy/EPQ/internal/lexicon"
	"github.com/freyjadaisy/EPQ/internal/significance"
)

// docsWithRatio builds a corpus of total tokens of which markers are "panic".
func docsWithRatio(markers, total int) []corpus.Document {
	body := strings.Repeat("panic ", markers) + strings.Repeat("garden ", total-markers)
	return []corpus.Document{{Title: "", Body: body}}
}

func newCoordinator(src corpus.Source, opts ...Option) *Coordinator {
	analyzer := corpus.NewAnalyzer(src, lexicon.NewMatcher(lexicon.Default()))
	return NewCoordinator(analyzer, significance.NewTester(true, 0), opts...)
}

func TestRunDesignatedBaseline(t *testing.T) {
	src := corpus.MemorySource{
		"control":   docsWithRatio(8, 1000),
		"anxiety":   docsWithRatio(60, 1000),
		"gardening": docsWithRatio(2, 500),
	}
	res, err := newCoordinator(src, WithWorkers(2)).Run(context.Background(), []string{"anxiety", "control", "gardening"}, "control")
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	if res.Baseline.Source != SourceDesignated || res.Baseline.ID != "control" || res.Baseline.Ratio != 0.008 {
		t.Fatalf("unexpected baseline %+v", res.Baseline)
	}
	if res.Baseline.Summary() != "designated (0.800%)" {
		t.Fatalf("unexpected summary %q", res.Baseline.Summary())
	}
	if len(res.Records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(res.Records))
	}

	own := res.Records["control"]
	if !own.IsBaseline || own.Significance != nil || own.BaselineSource != "" {
		t.Fatalf("baseline record must not carry a self-comparison: %+v", own)
	}
	if own.TotalWords != 1000 || own.MarkerCount != 8 {
		t.Fatalf("baseline statistics missing: %+v", own.Statistics)
	}

	for _, id := range []string{"anxiety", "gardening"} {
		rec := res.Records[id]
		if rec.Significance == nil {
			t.Fatalf("%s: expected significance result", id)
		}
		if r := rec.Significance.ExpectedRatio; r == nil || *r != 0.008 {
			t.Fatalf("%s: expected ratio 0.008, got %v", id, r)
		}
		if rec.BaselineSource != SourceDesignated {
			t.Fatalf("%s: expected designated source, got %q", id, rec.BaselineSource)
		}
	}
	if !*res.Records["anxiety"].Significance.Significant {
		t.Fatal("expected anxiety corpus to differ significantly from the baseline")
	}
}

func TestRunDefaultBaseline(t *testing.T) {
	src := corpus.MemorySource{"anxiety": docsWithRatio(10, 100)}
	res, err := newCoordinator(src).Run(context.Background(), []string{"anxiety"}, "")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Baseline.Source != SourceDefault || res.Baseline.Ratio != DefaultRatio {
		t.Fatalf("unexpected baseline %+v", res.Baseline)
	}
	if res.Baseline.Summary() != "default (0.500%)" {
		t.Fatalf("unexpected summary %q", res.Baseline.Summary())
	}
	rec := res.Records["anxiety"]
	if rec.BaselineSource != SourceDefault || *rec.Significance.ExpectedRatio != DefaultRatio {
		t.Fatalf("unexpected record %+v", rec)
	}
}

func TestRunDesignatedNotRequested(t *testing.T) {
	src := corpus.MemorySource{"anxiety": docsWithRatio(1, 10), "control": docsWithRatio(1, 10)}
	res, err := newCoordinator(src, WithDefaultRatio(0.01)).Run(context.Background(), []string{"anxiety"}, "control")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if res.Baseline.Source != SourceDefault || res.Baseline.Ratio != 0.01 {
		t.Fatalf("expected configured default baseline, got %+v", res.Baseline)
	}
	if _, ok := res.Records["control"]; ok {
		t.Fatal("unrequested baseline must not be reported")
	}
}

func TestRunSkipsFailedCorpora(t *testing.T) {
	src := corpus.MemorySource{
		"anxiety": docsWithRatio(5, 50),
		"broken":  nil,
	}
	res, err := newCoordinator(src).Run(context.Background(), []string{"anxiety", "broken", "missing", "anxiety"}, "missing")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(res.Records) != 1 {
		t.Fatalf("expected only the readable corpus, got %v", res.IDs())
	}
	if res.Baseline.Source != SourceDefault {
		t.Fatalf("unreadable baseline must fall back to default, got %+v", res.Baseline)
	}
	if got := res.FailedIDs(); len(got) != 2 || got[0] != "broken" || got[1] != "missing" {
		t.Fatalf("unexpected failed ids %v", got)
	}
	if !errors.Is(res.Failed["broken"], corpus.ErrInvalidFormat) {
		t.Fatalf("expected invalid format, got %v", res.Failed["broken"])
	}
	if !errors.Is(res.Failed["missing"], corpus.ErrSourceUnavailable) {
		t.Fatalf("expected source unavailable, got %v", res.Failed["missing"])
	}
}

func TestRunEmptyCorpus(t *testing.T) {
	src := corpus.MemorySource{"empty": {}}
	res, err := newCoordinator(src).Run(context.Background(), []string{"empty"}, "")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	rec := res.Records["empty"]
	if rec.MarkerPercentage != 0 || rec.Coverage != 0 {
		t.Fatalf("expected zero percentages, got %+v", rec.Statistics)
	}
	if rec.Significance == nil || rec.Significance.Computable || rec.Significance.ExpectedRatio != nil {
		t.Fatalf("expected a non-computable test with no numeric fields, got %+v", rec.Significance)
	}
}

func TestRunIsDeterministic(t *testing.T) {
	src := corpus.MemorySource{
		"control": docsWithRatio(8, 1000),
		"a":       {{Title: "Panic and fear", Body: "my heart is racing", CommentText: "try breathing, try sleep"}},
		"b":       docsWithRatio(3, 40),
	}
	ids := []string{"a", "b", "control"}

	var outputs [][]byte
	for range 2 {
		res, err := newCoordinator(src, WithWorkers(3)).Run(context.Background(), ids, "control")
		if err != nil {
			t.Fatalf("run: %v", err)
		}
		raw, err := json.Marshal(res)
		if err != nil {
			t.Fatalf("marshal: %v", err)
		}
		outputs = append(outputs, raw)
	}
	if !bytes.Equal(outputs[0], outputs[1]) {
		t.Fatalf("expected identical output:\n%s\n%s", outputs[0], outputs[1])
	}
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	src := corpus.MemorySource{"a": docsWithRatio(1, 10)}
	res, err := newCoordinator(src).Run(ctx, []string{"a"}, "")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(res.Records) != 0 {
		t.Fatalf("expected no records, got %v", res.IDs())
	}
}
