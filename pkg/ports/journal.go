package ports

import (
	"context"

	"github.com/aretw0/deckcal/pkg/domain"
)

// Journal records every command submitted to a session, including the ones
// the workflow rejected.
type Journal interface {
	// Append adds an entry at the end of the session's journal.
	Append(ctx context.Context, entry domain.JournalEntry) error

	// List returns the session's entries in append order. An unknown
	// session yields an empty slice.
	List(ctx context.Context, sessionID string) ([]domain.JournalEntry, error)
}
