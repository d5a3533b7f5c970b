package store

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/itsmezubair/assistant/internal/model/chat"
)

// LocalStore persists the whole session collection as one JSON document at a
// well-known path. A missing or unparsable file reads as an empty store, so a
// corrupted collection degrades to "no sessions" instead of wedging the
// caller.
type LocalStore struct {
	mu   sync.Mutex
	path string
}

// NewLocalStore returns a store backed by the file at path. The file and its
// parent directory are created lazily on the first Put.
func NewLocalStore(path string) *LocalStore {
	return &LocalStore{path: path}
}

// DefaultLocalPath places the collection under the user config directory,
// falling back to the working directory when none is available.
func DefaultLocalPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "sessions.json"
	}
	return filepath.Join(dir, "assistant", "sessions.json")
}

// List returns summaries ordered most-recent-first.
func (s *LocalStore) List(_ context.Context) ([]chat.SessionSummary, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.load()
	summaries := make([]chat.SessionSummary, 0, len(records))
	for i := len(records) - 1; i >= 0; i-- {
		summaries = append(summaries, records[i].Summary())
	}
	sort.SliceStable(summaries, func(i, j int) bool {
		return summaries[i].CreatedAt.After(summaries[j].CreatedAt)
	})
	return summaries, nil
}

// Get retrieves a record by id.
func (s *LocalStore) Get(_ context.Context, id string) (chat.SessionRecord, bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, record := range s.load() {
		if record.ID == id {
			return copyRecord(record), true, nil
		}
	}
	return chat.SessionRecord{}, false, nil
}

// Put inserts or fully replaces the record with the same id.
func (s *LocalStore) Put(_ context.Context, record chat.SessionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.load()
	replaced := false
	for i, existing := range records {
		if existing.ID == record.ID {
			records[i] = record
			replaced = true
			break
		}
	}
	if !replaced {
		records = append(records, record)
	}
	return s.save(records)
}

// Delete removes a record; unknown ids are a no-op.
func (s *LocalStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	records := s.load()
	kept := records[:0]
	for _, record := range records {
		if record.ID != id {
			kept = append(kept, record)
		}
	}
	if len(kept) == len(records) {
		return nil
	}
	return s.save(kept)
}

// load reads the collection. Missing or malformed files yield an empty
// collection rather than an error.
func (s *LocalStore) load() []chat.SessionRecord {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("[store] unreadable session file %s: %v", s.path, err)
		}
		return nil
	}

	var records []chat.SessionRecord
	if err := json.Unmarshal(data, &records); err != nil {
		log.Printf("[store] malformed session file %s, treating as empty: %v", s.path, err)
		return nil
	}
	return records
}

// save writes the collection atomically via a temp file and rename, so
// readers never observe a partial write.
func (s *LocalStore) save(records []chat.SessionRecord) error {
	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encode session collection: %w", err)
	}

	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create session dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".sessions-*")
	if err != nil {
		return fmt.Errorf("create temp session file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("write session collection: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("close temp session file: %w", err)
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replace session file: %w", err)
	}
	return nil
}
