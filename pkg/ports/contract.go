package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/deckcal/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contractSession(id string) *domain.Session {
	now := time.Now().UTC().Truncate(time.Second)
	return &domain.Session{
		ID:        id,
		Workflow:  "pipetteOffset",
		State:     "sessionStarted",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// RunSessionStoreContract runs a suite of tests to verify that a SessionStore
// implementation adheres to the interface contract.
func RunSessionStoreContract(t *testing.T, store SessionStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		s := contractSession(sessionID)
		s.State = "labwareLoaded"
		s.History = []domain.HistoryEntry{
			{Command: "load_labware", From: "sessionStarted", To: "labwareLoaded", At: s.UpdatedAt},
		}

		require.NoError(t, store.Save(ctx, s), "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, s.ID, loaded.ID)
		assert.Equal(t, s.Workflow, loaded.Workflow)
		assert.Equal(t, "labwareLoaded", loaded.State)
		require.Len(t, loaded.History, 1)
		assert.Equal(t, "load_labware", loaded.History[0].Command)
		assert.True(t, s.CreatedAt.Equal(loaded.CreatedAt))
	})

	t.Run("Loaded Copy Is Isolated", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, contractSession(sessionID)))

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		loaded.State = "tampered"

		again, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, "sessionStarted", again.State)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, contractSession(sessionID)))

		require.NoError(t, store.Delete(ctx, sessionID), "Delete should not return error")

		_, err := store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")

		assert.NoError(t, store.Delete(ctx, sessionID), "Deleting twice is not an error")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		require.NoError(t, store.Save(ctx, contractSession(id1)))
		require.NoError(t, store.Save(ctx, contractSession(id2)))

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}

// RunJournalContract verifies that a Journal implementation keeps entries
// per session and in append order.
func RunJournalContract(t *testing.T, journal Journal) {
	ctx := context.Background()
	sessionID := "contract-test-journal-" + time.Now().Format("20060102150405")
	at := time.Now().UTC().Truncate(time.Second)

	entries := []domain.JournalEntry{
		{SessionID: sessionID, Workflow: "pipetteOffset", Command: "load_labware", From: "sessionStarted", To: "labwareLoaded", Accepted: true, Timestamp: at},
		{SessionID: sessionID, Workflow: "pipetteOffset", Command: "jog", From: "labwareLoaded", Error: "cannot jog from state labwareLoaded", Timestamp: at.Add(time.Second)},
		{SessionID: sessionID, Workflow: "pipetteOffset", Command: "move_to_tip_rack", From: "labwareLoaded", To: "preparingPipette", Accepted: true, Timestamp: at.Add(2 * time.Second)},
	}

	t.Run("Append and List", func(t *testing.T) {
		for _, e := range entries {
			require.NoError(t, journal.Append(ctx, e))
		}
		require.NoError(t, journal.Append(ctx, domain.JournalEntry{
			SessionID: sessionID + "-other", Command: "exit", From: "sessionStarted", To: "sessionExited", Accepted: true, Timestamp: at,
		}))

		got, err := journal.List(ctx, sessionID)
		require.NoError(t, err)
		require.Len(t, got, len(entries))
		for i, e := range entries {
			assert.Equal(t, e.Command, got[i].Command)
			assert.Equal(t, e.From, got[i].From)
			assert.Equal(t, e.To, got[i].To)
			assert.Equal(t, e.Accepted, got[i].Accepted)
			assert.Equal(t, e.Error, got[i].Error)
			assert.True(t, e.Timestamp.Equal(got[i].Timestamp), "timestamp of entry %d", i)
		}
	})

	t.Run("Unknown Session", func(t *testing.T) {
		got, err := journal.List(ctx, "non-existent-"+sessionID)
		require.NoError(t, err)
		assert.Empty(t, got)
	})
}
