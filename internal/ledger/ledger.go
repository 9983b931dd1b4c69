// Package ledger persists the set of normalized opportunity URLs that have
// already been reported, so repeated runs never re-send the same listing.
package ledger

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// Ledger is an in-memory set of normalized URLs. It is an explicit value:
// the pipeline loads it, mutates it, and persists it. There is no shared
// global state.
type Ledger struct {
	urls map[string]struct{}
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{urls: make(map[string]struct{})}
}

// Load reads the ledger file at path. A missing or malformed file yields an
// empty ledger together with a non-nil error the caller may log; the run
// must continue either way.
func Load(path string) (*Ledger, error) {
	led := New()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return led, nil
		}
		return led, fmt.Errorf("read ledger %s: %w", path, err)
	}

	var urls []string
	if err := json.Unmarshal(data, &urls); err != nil {
		return led, fmt.Errorf("parse ledger %s: %w", path, err)
	}
	for _, u := range urls {
		led.urls[u] = struct{}{}
	}
	return led, nil
}

// Contains reports whether the normalized URL has been recorded.
func (l *Ledger) Contains(normURL string) bool {
	_, ok := l.urls[normURL]
	return ok
}

// Add records a normalized URL. Adding an existing entry is a no-op.
func (l *Ledger) Add(normURL string) {
	if normURL == "" {
		return
	}
	l.urls[normURL] = struct{}{}
}

// Len returns the number of recorded URLs.
func (l *Ledger) Len() int {
	return len(l.urls)
}

// URLs returns the recorded URLs sorted ascending.
func (l *Ledger) URLs() []string {
	out := make([]string, 0, len(l.urls))
	for u := range l.urls {
		out = append(out, u)
	}
	sort.Strings(out)
	return out
}

// Save writes the ledger to path as a sorted JSON string array. The write
// goes through a temp file in the same directory followed by a rename, so a
// crash mid-write never corrupts the previous ledger.
func (l *Ledger) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create ledger directory %s: %w", dir, err)
	}

	data, err := json.MarshalIndent(l.URLs(), "", "  ")
	if err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create ledger temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write ledger temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close ledger temp file: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace ledger %s: %w", path, err)
	}
	return nil
}
