package lexicon

import "slices"

// Count is one row of a frequency table.
type Count struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

type MatchStats struct {
	Counts        []Count
	Total         int
	Unique        int
	Ratio         float64
	CoverageRatio float64
}

type Matcher struct {
	lex *Lexicon
}

func NewMatcher(lex *Lexicon) *Matcher {
	return &Matcher{lex: lex}
}

// Match counts lexicon hits in tokens. Counts only lists markers that occurred, ordered by
// count descending with ties kept in first-match order.
func (m *Matcher) Match(tokens []string) MatchStats {
	counts := Tally(tokens, m.lex.Contains)
	total := 0
	for _, c := range counts {
		total += c.Count
	}

	stats := MatchStats{
		Counts: counts,
		Total:  total,
		Unique: len(counts),
	}
	if len(tokens) > 0 {
		stats.Ratio = float64(total) / float64(len(tokens))
	}
	if m.lex.Size() > 0 {
		stats.CoverageRatio = float64(len(counts)) / float64(m.lex.Size())
	}
	return stats
}

// Tally counts the tokens accepted by include (all tokens when include is nil) and returns
// them sorted by count descending. Equal counts keep the order of first occurrence.
func Tally(tokens []string, include func(string) bool) []Count {
	index := map[string]int{}
	var out []Count
	for _, tok := range tokens {
		if include != nil && !include(tok) {
			continue
		}
		if i, ok := index[tok]; ok {
			out[i].Count++
			continue
		}
		index[tok] = len(out)
		out = append(out, Count{Word: tok, Count: 1})
	}
	slices.SortStableFunc(out, func(a, b Count) int {
		return b.Count - a.Count
	})
	return out
}
