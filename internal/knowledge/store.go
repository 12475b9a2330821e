// Package knowledge holds the categorized collection of processed regulatory
// documents, its persisted JSON form and the lookups served from it.
package knowledge

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"jce-assistant/internal/model"
)

var (
	ErrUnsupportedFormat = errors.New("unsupported knowledge file format")
	ErrUnknownCategory   = errors.New("unknown category")
)

// Item is one (category, title, entry) triple returned by All.
type Item struct {
	Category model.Category
	Title    string
	Entry    model.Entry
}

// Store maps category -> title -> entry. Titles are unique per category only.
type Store struct {
	mu        sync.RWMutex
	path      string
	entries   map[model.Category]map[string]model.Entry
	updatedAt time.Time
	now       func() time.Time
}

// NewStore creates an empty store persisted at path. Call Load to read it.
func NewStore(path string) *Store {
	return &Store{
		path:    path,
		entries: emptyEntries(),
		now:     time.Now,
	}
}

func emptyEntries() map[model.Category]map[string]model.Entry {
	out := make(map[model.Category]map[string]model.Entry, len(model.Categories))
	for _, c := range model.Categories {
		out[c] = make(map[string]model.Entry)
	}
	return out
}

func (s *Store) Path() string {
	return s.path
}

// Put stores entry under (category, title), replacing any previous entry.
func (s *Store) Put(category model.Category, title string, entry model.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	bucket, ok := s.entries[category]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
	entry.Title = title
	entry.Category = category
	bucket[title] = entry
	return nil
}

func (s *Store) Get(category model.Category, title string) (model.Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[category][title]
	return entry, ok
}

// All returns every entry ordered by model.Categories, then by title.
func (s *Store) All() []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var items []Item
	for _, c := range model.Categories {
		bucket := s.entries[c]
		titles := make([]string, 0, len(bucket))
		for title := range bucket {
			titles = append(titles, title)
		}
		sort.Strings(titles)
		for _, title := range titles {
			items = append(items, Item{Category: c, Title: title, Entry: bucket[title]})
		}
	}
	return items
}

// Count returns the number of entries per category.
func (s *Store) Count() map[model.Category]int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[model.Category]int, len(s.entries))
	for c, bucket := range s.entries {
		out[c] = len(bucket)
	}
	return out
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, bucket := range s.entries {
		n += len(bucket)
	}
	return n
}

// UpdatedAt is the timestamp of the last load or save.
func (s *Store) UpdatedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updatedAt
}

// Load replaces the in-memory contents with the persisted file. A missing file
// leaves the store empty.
func (s *Store) Load() error {
	raw, err := os.ReadFile(s.path)
	if errors.Is(err, os.ErrNotExist) {
		s.mu.Lock()
		s.entries = emptyEntries()
		s.updatedAt = time.Time{}
		s.mu.Unlock()
		return nil
	}
	if err != nil {
		return fmt.Errorf("read knowledge file failed: %w", err)
	}

	decoded, err := decode(raw)
	if err != nil {
		return fmt.Errorf("decode knowledge file failed: %w", err)
	}

	s.mu.Lock()
	s.entries = decoded.entries
	s.updatedAt = decoded.updatedAt
	s.mu.Unlock()
	return nil
}

// Save stamps a fresh update time and rewrites the whole file.
func (s *Store) Save() error {
	s.mu.Lock()
	s.updatedAt = s.now()
	payload, err := encode(s.entries, s.updatedAt)
	s.mu.Unlock()
	if err != nil {
		return fmt.Errorf("encode knowledge file failed: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create knowledge dir failed: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".knowledge-*.json")
	if err != nil {
		return fmt.Errorf("create temp knowledge file failed: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(payload); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write knowledge file failed: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close knowledge file failed: %w", err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("replace knowledge file failed: %w", err)
	}
	return nil
}
