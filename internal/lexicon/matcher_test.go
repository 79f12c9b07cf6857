package lexicon

import (
	"reflect"
	"testing"
)

func TestMatchAnxietyTokens(t *testing.T) {
	lex, err := New([]string{"anxiety"})
	if err != nil {
		t.Fatalf("new lexicon: %v", err)
	}
	tokens := []string{"anxiety", "anxiety", "dog", "dog", "cat"}
	stats := NewMatcher(lex).Match(tokens)

	if stats.Total != 2 || stats.Unique != 1 {
		t.Fatalf("expected total=2 unique=1, got total=%d unique=%d", stats.Total, stats.Unique)
	}
	if stats.Ratio != 0.4 {
		t.Fatalf("expected ratio 0.4, got %v", stats.Ratio)
	}
	if stats.CoverageRatio != 1 {
		t.Fatalf("expected full coverage, got %v", stats.CoverageRatio)
	}
	want := []Count{{Word: "anxiety", Count: 2}}
	if !reflect.DeepEqual(stats.Counts, want) {
		t.Fatalf("expected %v, got %v", want, stats.Counts)
	}
	if len(tokens) != 5 || tokens[0] != "anxiety" {
		t.Fatal("match must not mutate its input")
	}
}

func TestMatchTieOrderIsFirstMatch(t *testing.T) {
	lex, err := New([]string{"panic", "fear", "worry"})
	if err != nil {
		t.Fatalf("new lexicon: %v", err)
	}
	stats := NewMatcher(lex).Match([]string{"worry", "fear", "panic", "fear", "panic", "worry", "panic"})
	want := []Count{{"panic", 3}, {"worry", 2}, {"fear", 2}}
	if !reflect.DeepEqual(stats.Counts, want) {
		t.Fatalf("expected %v, got %v", want, stats.Counts)
	}
}

func TestMatchEmptyTokens(t *testing.T) {
	stats := NewMatcher(Default()).Match(nil)
	if stats.Total != 0 || stats.Unique != 0 || stats.Ratio != 0 || stats.CoverageRatio != 0 {
		t.Fatalf("expected zero stats, got %+v", stats)
	}
}

func TestMatchInvariants(t *testing.T) {
	tokens := []string{"i", "had", "a", "panic", "attack", "and", "my", "heart", "was", "racing",
		"panic", "again", "sleep", "self", "care", "side", "effects", "heart"}
	distinct := map[string]struct{}{}
	for _, tok := range tokens {
		distinct[tok] = struct{}{}
	}

	lex := Default()
	stats := NewMatcher(lex).Match(tokens)

	sum := 0
	for _, c := range stats.Counts {
		sum += c.Count
	}
	if sum != stats.Total {
		t.Fatalf("sum of counts %d != total %d", sum, stats.Total)
	}
	if stats.Unique > lex.Size() || stats.Unique > len(distinct) {
		t.Fatalf("unique markers %d exceeds bounds", stats.Unique)
	}
	if stats.Ratio < 0 || stats.Ratio > 1 || stats.CoverageRatio < 0 || stats.CoverageRatio > 1 {
		t.Fatalf("ratios out of range: %+v", stats)
	}
	if stats.Total != 7 {
		t.Fatalf("expected 7 marker hits, got %d (%v)", stats.Total, stats.Counts)
	}
}

func TestTallyAll(t *testing.T) {
	got := Tally([]string{"b", "a", "b", "c", "a", "d"}, nil)
	want := []Count{{"b", 2}, {"a", 2}, {"c", 1}, {"d", 1}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}
