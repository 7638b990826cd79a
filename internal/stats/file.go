package stats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/jaminalder/tictactoe-ai/internal/domain"
)

// fileFormat is the on-disk layout: {"statistics": {"Easy": {"Wins": 0, ...}, ...}}.
type fileFormat struct {
	Statistics Statistics `json:"statistics"`
}

// File is a Store backed by a JSON file. Every change is written through.
type File struct {
	path string

	mu   sync.Mutex
	data Statistics
}

// OpenFile loads the statistics at path. A missing file starts from zero.
func OpenFile(path string) (*File, error) {
	f := &File{path: path, data: New()}
	b, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return f, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read statistics: %w", err)
	}
	var ff fileFormat
	if err := json.Unmarshal(b, &ff); err != nil {
		return nil, fmt.Errorf("decode statistics %s: %w", path, err)
	}
	for t, r := range ff.Statistics {
		f.data[t] = r
	}
	return f, nil
}

// Path returns the backing file location.
func (f *File) Path() string { return f.path }

func (f *File) Add(ctx context.Context, tier domain.Tier, kind Kind) error {
	if err := checkAdd(tier, kind); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	next := f.data.clone()
	r := next[tier]
	r.add(kind)
	next[tier] = r
	if err := f.save(next); err != nil {
		return err
	}
	f.data = next
	return nil
}

func (f *File) Snapshot(ctx context.Context) (Statistics, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.data.clone(), nil
}

func (f *File) Reset(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	next := New()
	if err := f.save(next); err != nil {
		return err
	}
	f.data = next
	return nil
}

// save writes s to a temp file next to path and renames it into place.
func (f *File) save(s Statistics) error {
	dir := filepath.Dir(f.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create statistics dir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("write statistics: %w", err)
	}
	defer os.Remove(tmp.Name())

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	if err := enc.Encode(fileFormat{Statistics: s}); err != nil {
		tmp.Close()
		return fmt.Errorf("encode statistics: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write statistics: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		return fmt.Errorf("write statistics: %w", err)
	}
	return nil
}
