package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/aretw0/deckcal/pkg/adapters/sqlite"
	"github.com/aretw0/deckcal/pkg/domain"
	"github.com/aretw0/deckcal/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSQLiteJournal_Contract(t *testing.T) {
	j, err := sqlite.Open(filepath.Join(t.TempDir(), "journal.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = j.Close() })

	ports.RunJournalContract(t, j)
}

func TestSQLiteJournal_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "journal.db")
	ctx := context.Background()

	j, err := sqlite.Open(path)
	require.NoError(t, err)
	require.NoError(t, j.Append(ctx, domain.JournalEntry{SessionID: "s1", Command: "exit", From: "sessionStarted", To: "sessionExited", Accepted: true}))
	require.NoError(t, j.Close())

	j, err = sqlite.Open(path)
	require.NoError(t, err)
	defer j.Close()

	entries, err := j.List(ctx, "s1")
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.True(t, entries[0].Accepted)
	assert.WithinDuration(t, time.Now(), entries[0].Timestamp, time.Minute)
}
