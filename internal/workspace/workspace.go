package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/freyjadaisy/EPQ/internal/corpus"
)

const BaseDirName = "EPQ"

// Layout is the directory structure of a workspace.
type Layout struct {
	Root    string
	Configs string
	Corpora string
	Reports string
	Data    string
}

func At(base string) Layout {
	return Layout{
		Root:    base,
		Configs: filepath.Join(base, "configs"),
		Corpora: filepath.Join(base, "corpora"),
		Reports: filepath.Join(base, "reports"),
		Data:    filepath.Join(base, "data"),
	}
}

// DefaultRoot is ~/EPQ.
func DefaultRoot() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home: %w", err)
	}
	return filepath.Join(home, BaseDirName), nil
}

func EnsureAt(base string) (Layout, error) {
	l := At(base)
	for _, p := range []string{l.Configs, l.Corpora, l.Reports, l.Data} {
		if err := os.MkdirAll(p, 0o755); err != nil {
			return Layout{}, fmt.Errorf("mkdir %s: %w", p, err)
		}
	}
	return l, nil
}

func (l Layout) ConfigPath() string {
	return filepath.Join(l.Configs, "epq.toml")
}

func (l Layout) DatabasePath() string {
	return filepath.Join(l.Data, "analysis.db")
}

// PostsPath is the record file the acquisition step writes for a group.
func (l Layout) PostsPath(group string) string {
	return filepath.Join(l.Corpora, sanitizeName(group)+corpus.PostsSuffix)
}

// ReportPath returns reports/<name><ext>.
func (l Layout) ReportPath(name, ext string) string {
	return filepath.Join(l.Reports, sanitizeName(name)+ext)
}

// DiscoverCorpora lists the corpus IDs in dir: one per "<id>_posts.json" file and one per
// sub-directory, sorted and de-duplicated. Hidden entries are skipped.
func DiscoverCorpora(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read corpora dir: %w", err)
	}
	seen := map[string]struct{}{}
	for _, e := range entries {
		name := e.Name()
		if strings.HasPrefix(name, ".") {
			continue
		}
		id := ""
		switch {
		case e.IsDir():
			id = name
		case strings.HasSuffix(name, corpus.PostsSuffix):
			id = strings.TrimSuffix(name, corpus.PostsSuffix)
		}
		if id != "" {
			seen[id] = struct{}{}
		}
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids, nil
}

func sanitizeName(name string) string {
	base := filepath.Base(strings.TrimSpace(name))
	if base == "" || base == "." || base == string(filepath.Separator) {
		return "unnamed"
	}
	return strings.ReplaceAll(base, "..", "")
}
