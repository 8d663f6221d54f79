// Package history keeps a bounded journal of saves so users can see which
// run last wrote a file.
package history

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/unkn0wn-root/gencode/internal/errdef"
	"github.com/unkn0wn-root/gencode/internal/generator"
)

const (
	FileName          = "history.json"
	DefaultMaxEntries = 200
)

type Entry struct {
	ID       string       `json:"id"`
	SavedAt  time.Time    `json:"savedAt"`
	Manifest string       `json:"manifest"`
	Files    []FileRecord `json:"files"`
}

type FileRecord struct {
	ID     string           `json:"id"`
	Path   string           `json:"path"`
	Status generator.Status `json:"status"`
	Error  string           `json:"error,omitempty"`
}

// Written counts the files the save actually wrote.
func (e Entry) Written() int {
	n := 0
	for _, f := range e.Files {
		if f.Status == generator.StatusGenerated || f.Status == generator.StatusOverwrote {
			n++
		}
	}
	return n
}

// FromReport turns a save report into a journal entry.
func FromReport(manifest string, rep generator.Report, now time.Time) Entry {
	e := Entry{
		ID:       strconv.FormatInt(now.UnixNano(), 10),
		SavedAt:  now,
		Manifest: manifest,
		Files:    make([]FileRecord, 0, len(rep.Results)),
	}
	for _, r := range rep.Results {
		rec := FileRecord{
			ID:     r.File.ID(),
			Path:   r.File.Path(),
			Status: r.Status,
		}
		if r.Err != nil {
			rec.Error = r.Err.Error()
		}
		e.Files = append(e.Files, rec)
	}
	return e
}

type Store struct {
	path       string
	maxEntries int
	entries    []Entry
	mu         sync.RWMutex
	loaded     bool
}

// NewStore creates a file backed history store with a bounded entry list.
func NewStore(path string, maxEntries int) *Store {
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &Store{path: path, maxEntries: maxEntries}
}

func (s *Store) Path() string { return s.path }

// Load reads the persisted history file, tolerating missing files and ensuring
// the entries are sorted newest first.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadLocked()
}

func (s *Store) loadLocked() error {
	if s.loaded {
		return nil
	}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.entries = []Entry{}
			s.loaded = true
			return nil
		}
		return errdef.Wrap(errdef.CodeHistory, err, "read history")
	}

	if len(data) == 0 {
		s.entries = []Entry{}
		s.loaded = true
		return nil
	}

	if err := json.Unmarshal(data, &s.entries); err != nil {
		return errdef.Wrap(errdef.CodeHistory, err, "parse history")
	}

	s.sortEntriesLocked()
	s.loaded = true
	return nil
}

// Append records a new history entry, enforcing the max entry limit and
// persisting to disk.
func (s *Store) Append(entry Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(); err != nil {
		return err
	}

	s.entries = append([]Entry{entry}, s.entries...)
	s.sortEntriesLocked()
	if len(s.entries) > s.maxEntries {
		s.entries = s.entries[:s.maxEntries]
	}
	return s.persist()
}

// Entries returns a copy of all entries so callers cannot mutate internal
// slices.
func (s *Store) Entries() []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	copies := make([]Entry, len(s.entries))
	copy(copies, s.entries)
	return copies
}

// Delete removes an entry by id and reports whether a record was removed.
func (s *Store) Delete(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.loadLocked(); err != nil {
		return false, err
	}

	idx := -1
	for i, entry := range s.entries {
		if entry.ID == id {
			idx = i
			break
		}
	}
	if idx == -1 {
		return false, nil
	}

	copy(s.entries[idx:], s.entries[idx+1:])
	s.entries = s.entries[:len(s.entries)-1]
	if err := s.persist(); err != nil {
		return false, err
	}
	return true, nil
}

// ByFile returns the entries that touched a file, matched by code file ID or
// absolute path, newest first.
func (s *Store) ByFile(key string) []Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if key == "" {
		copies := make([]Entry, len(s.entries))
		copy(copies, s.entries)
		return copies
	}

	var matched []Entry
	for _, entry := range s.entries {
		for _, f := range entry.Files {
			if f.ID == key || f.Path == key {
				matched = append(matched, entry)
				break
			}
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return newerFirst(matched[i], matched[j])
	})
	return matched
}

// persist atomically writes the history file by first writing to a temp file
// and renaming it into place.
func (s *Store) persist() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return errdef.Wrap(errdef.CodeFilesystem, err, "create history dir")
	}

	data, err := json.MarshalIndent(s.entries, "", "  ")
	if err != nil {
		return errdef.Wrap(errdef.CodeHistory, err, "encode history")
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errdef.Wrap(errdef.CodeFilesystem, err, "write history tmp")
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return errdef.Wrap(errdef.CodeFilesystem, err, "replace history file")
	}
	return nil
}

// sortEntriesLocked orders entries newest first. Caller must hold the lock.
func (s *Store) sortEntriesLocked() {
	if len(s.entries) < 2 {
		return
	}
	sort.SliceStable(s.entries, func(i, j int) bool {
		return newerFirst(s.entries[i], s.entries[j])
	})
}

// newerFirst compares two entries prioritizing save timestamps and falling
// back to ids for deterministic ordering.
func newerFirst(a, b Entry) bool {
	ai := a.SavedAt
	bi := b.SavedAt
	switch {
	case ai.IsZero() && bi.IsZero():
		return compareIDsDesc(a.ID, b.ID)
	case ai.IsZero():
		return false
	case bi.IsZero():
		return true
	case ai.Equal(bi):
		return compareIDsDesc(a.ID, b.ID)
	default:
		return ai.After(bi)
	}
}

// compareIDsDesc compares ids numerically when possible, falling back to
// lexicographical order.
func compareIDsDesc(a, b string) bool {
	ai, errA := strconv.ParseInt(a, 10, 64)
	bi, errB := strconv.ParseInt(b, 10, 64)
	if errA == nil && errB == nil {
		return ai > bi
	}
	return a > b
}
