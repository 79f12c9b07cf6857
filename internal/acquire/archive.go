package acquire

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/freyjadaisy/EPQ/internal/logger"
	"github.com/freyjadaisy/EPQ/internal/workspace"
)

// Archive is the on-disk record list of one group, keyed by permalink for resuming.
type Archive struct {
	path    string
	records []Record
	seen    map[string]struct{}
}

// OpenArchive loads the archive at path. A missing file yields an empty archive. An unreadable
// one is moved aside to "<path>.corrupt" and the archive starts empty.
func OpenArchive(path string) (*Archive, error) {
	a := &Archive{path: path, records: []Record{}, seen: map[string]struct{}{}}
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return a, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read archive: %w", err)
	}

	var records []Record
	if err := json.Unmarshal(raw, &records); err != nil {
		logger.Warn("archive %s is unreadable (%v), starting fresh", path, err)
		if err := os.Rename(path, path+".corrupt"); err != nil {
			return nil, fmt.Errorf("move corrupt archive: %w", err)
		}
		return a, nil
	}
	for _, r := range records {
		a.Add(r)
	}
	logger.Info("resuming %s with %d posts already archived", path, len(a.records))
	return a, nil
}

func (a *Archive) Path() string {
	return a.path
}

func (a *Archive) Len() int {
	return len(a.records)
}

func (a *Archive) Has(permalink string) bool {
	_, ok := a.seen[permalink]
	return ok
}

func (a *Archive) Add(r Record) {
	a.records = append(a.records, r)
	a.seen[r.Permalink] = struct{}{}
}

// Save replaces the file at Path with the current records.
func (a *Archive) Save() error {
	if err := workspace.SaveJSON(a.path, a.records); err != nil {
		return fmt.Errorf("save archive: %w", err)
	}
	return nil
}
