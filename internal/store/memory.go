package store

import (
	"context"
	"sort"
	"sync"

	"github.com/itsmezubair/assistant/internal/model/chat"
)

// MemoryStore implements Store with in-process maps, suitable for a
// single-instance server or tests.
type MemoryStore struct {
	mu      sync.RWMutex
	records map[string]chat.SessionRecord
	order   []string
}

// NewMemoryStore returns an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{records: make(map[string]chat.SessionRecord)}
}

// List returns summaries ordered most-recent-first, ties broken by most
// recent insertion.
func (s *MemoryStore) List(_ context.Context) ([]chat.SessionSummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	summaries := make([]chat.SessionSummary, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0; i-- {
		summaries = append(summaries, s.records[s.order[i]].Summary())
	}
	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
	})
	return summaries, nil
}

// Get retrieves a record by id.
func (s *MemoryStore) Get(_ context.Context, id string) (chat.SessionRecord, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.records[id]
	if !ok {
		return chat.SessionRecord{}, false, nil
	}
	return copyRecord(record), true, nil
}

// Put inserts or fully replaces the record with the same id.
func (s *MemoryStore) Put(_ context.Context, record chat.SessionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[record.ID]; !ok {
		s.order = append(s.order, record.ID)
	}
	s.records[record.ID] = copyRecord(record)
	return nil
}

// Delete removes a record; unknown ids are a no-op.
func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.records[id]; !ok {
		return nil
	}
	delete(s.records, id)
	for i, existing := range s.order {
		if existing == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return nil
}

func copyRecord(record chat.SessionRecord) chat.SessionRecord {
	record.Messages = append([]chat.Turn(nil), record.Messages...)
	return record
}
