// Package memstore keeps entries in process memory. It backs the server when
// STORAGE_BACKEND=memory and is handy in tests that need a real EntryStore.
//
// # Usage
//
//	store := memstore.New()
//	svc := services.NewEntryService(store)
package memstore

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/mrlokans/commlog/internal/entities"
	"github.com/mrlokans/commlog/internal/services"
)

// Store is a mutex-guarded map of entries. IDs are assigned sequentially from 1.
type Store struct {
	mu      sync.RWMutex
	entries map[uint]entities.Entry
	nextID  uint
}

// New creates an empty store.
func New() *Store {
	s := &Store{}
	s.Reset()
	return s
}

var _ services.EntryStore = (*Store)(nil)

// Reset drops every entry and restarts ID assignment.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = make(map[uint]entities.Entry)
	s.nextID = 1
}

func (s *Store) CreateEntry(ctx context.Context, entry *entities.Entry) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	if entry.UpdatedAt.IsZero() {
		entry.UpdatedAt = now
	}

	entry.ID = s.nextID
	s.nextID++
	s.entries[entry.ID] = clone(*entry)
	return nil
}

func (s *Store) GetEntry(ctx context.Context, userID, id uint) (*entities.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	e, ok := s.entries[id]
	if !ok || e.UserID != userID {
		return nil, fmt.Errorf("entry %d: %w", id, services.ErrNotFound)
	}
	out := clone(e)
	return &out, nil
}

func (s *Store) UpdateEntry(ctx context.Context, entry *entities.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.entries[entry.ID]
	if !ok || existing.UserID != entry.UserID {
		return fmt.Errorf("entry %d: %w", entry.ID, services.ErrNotFound)
	}
	if entry.UpdatedAt.IsZero() {
		entry.UpdatedAt = time.Now()
	}
	entry.CreatedAt = existing.CreatedAt
	s.entries[entry.ID] = clone(*entry)
	return nil
}

func (s *Store) ListEntries(ctx context.Context, filter entities.EntryFilter) ([]entities.Entry, int64, error) {
	filter = filter.Normalize()

	s.mu.RLock()
	matches := make([]entities.Entry, 0)
	for _, e := range s.entries {
		if filter.Matches(e) {
			matches = append(matches, e)
		}
	}
	s.mu.RUnlock()

	sort.Slice(matches, func(i, j int) bool {
		return entities.EntryLess(matches[i], matches[j])
	})

	total := int64(len(matches))
	if filter.Offset >= len(matches) {
		return []entities.Entry{}, total, nil
	}
	end := filter.Offset + filter.Limit
	if end > len(matches) {
		end = len(matches)
	}

	page := make([]entities.Entry, 0, end-filter.Offset)
	for _, e := range matches[filter.Offset:end] {
		page = append(page, clone(e))
	}
	return page, total, nil
}

func (s *Store) DeleteEntries(ctx context.Context, userID uint, ids []uint) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	for _, id := range ids {
		e, ok := s.entries[id]
		if !ok || e.UserID != userID {
			continue
		}
		delete(s.entries, id)
		deleted++
	}
	return deleted, nil
}

func (s *Store) ListTags(ctx context.Context, userID uint) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]bool)
	tags := []string{}
	for _, e := range s.entries {
		if e.UserID != userID {
			continue
		}
		for _, tag := range e.Tags {
			if !seen[tag] {
				seen[tag] = true
				tags = append(tags, tag)
			}
		}
	}
	sort.Strings(tags)
	return tags, nil
}

// clone copies the slices so callers never share memory with the store.
func clone(e entities.Entry) entities.Entry {
	e.Tags = append([]string{}, e.Tags...)
	e.Attachments = append([]entities.Attachment{}, e.Attachments...)
	return e
}
