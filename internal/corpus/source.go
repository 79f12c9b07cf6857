package corpus

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/freyjadaisy/EPQ/internal/ingest"
	"github.com/freyjadaisy/EPQ/internal/logger"
)

// PostsSuffix names record files in a corpora directory: "<id>_posts.json".
const PostsSuffix = "_posts.json"

// Source loads the documents of one corpus.
type Source interface {
	Load(ctx context.Context, id string) ([]Document, error)
}

// DirSource reads corpora from a directory. A corpus is either a "<id>_posts.json" record
// file or a "<id>/" folder of .txt, .md, .docx and .pdf documents. The record file wins when
// both exist.
type DirSource struct {
	Root string
}

var _ Source = DirSource{}

func (s DirSource) Load(ctx context.Context, id string) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !validID(id) {
		return nil, fmt.Errorf("%w: invalid corpus id %q", ErrSourceUnavailable, id)
	}

	postsPath := filepath.Join(s.Root, id+PostsSuffix)
	raw, err := os.ReadFile(postsPath)
	if err == nil {
		docs, decodeErr := DecodeDocuments(raw)
		if decodeErr != nil {
			return nil, fmt.Errorf("%s: %w", postsPath, decodeErr)
		}
		return docs, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}

	dir := filepath.Join(s.Root, id)
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: no %s or %s/", ErrSourceUnavailable, postsPath, dir)
	}
	return loadFolder(ctx, dir)
}

func loadFolder(ctx context.Context, dir string) ([]Document, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceUnavailable, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !ingest.Supported(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	docs := make([]Document, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		parsed, err := ingest.ParseFile(filepath.Join(dir, name))
		if errors.Is(err, ingest.ErrNoText) {
			logger.Warn("skipping %s: %v", name, err)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
		}
		docs = append(docs, Document{Title: parsed.Title, Body: parsed.Text})
	}
	return docs, nil
}

func validID(id string) bool {
	if strings.TrimSpace(id) == "" || id == "." || id == ".." {
		return false
	}
	return !strings.ContainsAny(id, `/\`)
}

// MemorySource serves corpora held in memory. A nil entry is reported as malformed.
type MemorySource map[string][]Document

var _ Source = MemorySource{}

func (m MemorySource) Load(ctx context.Context, id string) ([]Document, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	docs, ok := m[id]
	if !ok {
		return nil, fmt.Errorf("%w: unknown corpus %q", ErrSourceUnavailable, id)
	}
	if docs == nil {
		return nil, fmt.Errorf("%w: corpus %q has no record list", ErrInvalidFormat, id)
	}
	return docs, nil
}
