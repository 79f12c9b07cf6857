package lexicon

import (
	"bufio"
	"bytes"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
)

//go:embed markers.json
var markersJSON []byte

var ErrEmpty = errors.New("lexicon has no entries")

// Lexicon is an immutable, ordered set of lowercase marker words.
type Lexicon struct {
	words []string
	set   map[string]struct{}
}

var defaultLexicon = mustParseJSON(markersJSON)

// Default returns the built-in anxiety marker list. Entries containing hyphens
// ("side-effects", "self-care") can never equal a token and always count zero; they stay in
// the list so coverage figures remain comparable across runs.
func Default() *Lexicon {
	return defaultLexicon
}

// New builds a lexicon from words, lower-casing and trimming each entry and dropping blanks and
// duplicates while keeping first-seen order.
func New(words []string) (*Lexicon, error) {
	l := &Lexicon{
		words: make([]string, 0, len(words)),
		set:   make(map[string]struct{}, len(words)),
	}
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if w == "" {
			continue
		}
		if _, ok := l.set[w]; ok {
			continue
		}
		l.set[w] = struct{}{}
		l.words = append(l.words, w)
	}
	if len(l.words) == 0 {
		return nil, ErrEmpty
	}
	return l, nil
}

// Load reads a lexicon file: a JSON array of strings, or plain text with one word per line
// ('#' starts a comment line).
func Load(path string) (*Lexicon, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lexicon: %w", err)
	}
	trimmed := bytes.TrimSpace(raw)
	if bytes.HasPrefix(trimmed, []byte("[")) {
		var words []string
		if err := json.Unmarshal(trimmed, &words); err != nil {
			return nil, fmt.Errorf("decode lexicon %s: %w", path, err)
		}
		return New(words)
	}

	var words []string
	sc := bufio.NewScanner(bytes.NewReader(raw))
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		words = append(words, line)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("scan lexicon %s: %w", path, err)
	}
	return New(words)
}

func mustParseJSON(raw []byte) *Lexicon {
	var words []string
	if err := json.Unmarshal(raw, &words); err != nil {
		panic(fmt.Sprintf("decode embedded markers: %v", err))
	}
	l, err := New(words)
	if err != nil {
		panic(fmt.Sprintf("build embedded markers: %v", err))
	}
	return l
}

func (l *Lexicon) Size() int {
	return len(l.words)
}

func (l *Lexicon) Contains(word string) bool {
	_, ok := l.set[word]
	return ok
}

// Words returns a copy of the entries in their original order.
func (l *Lexicon) Words() []string {
	out := make([]string, len(l.words))
	copy(out, l.words)
	return out
}
