package memory

import (
	"context"
	"sync"

	"github.com/aretw0/deckcal/pkg/domain"
)

// Journal implements ports.Journal in memory.
type Journal struct {
	mu      sync.RWMutex
	entries map[string][]domain.JournalEntry
}

// NewJournal creates an empty in-memory journal.
func NewJournal() *Journal {
	return &Journal{entries: make(map[string][]domain.JournalEntry)}
}

// Append adds an entry to the session's journal.
func (j *Journal) Append(ctx context.Context, entry domain.JournalEntry) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries[entry.SessionID] = append(j.entries[entry.SessionID], entry)
	return nil
}

// List returns a copy of the session's entries.
func (j *Journal) List(ctx context.Context, sessionID string) ([]domain.JournalEntry, error) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return append([]domain.JournalEntry{}, j.entries[sessionID]...), nil
}
