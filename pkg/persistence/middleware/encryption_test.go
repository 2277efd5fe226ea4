package middleware_test

import (
	"context"
	"crypto/rand"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/deckcal/pkg/adapters/memory"
	"github.com/aretw0/deckcal/pkg/domain"
	"github.com/aretw0/deckcal/pkg/persistence/middleware"
	"github.com/aretw0/deckcal/pkg/ports"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generateKey(t *testing.T) []byte {
	k := make([]byte, 32)
	if _, err := io.ReadFull(rand.Reader, k); err != nil {
		t.Fatal(err)
	}
	return k
}

func newSession(id string) *domain.Session {
	now := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return &domain.Session{
		ID:       id,
		Workflow: "pipetteOffset",
		State:    "preparingPipette",
		History: []domain.HistoryEntry{
			{Command: "load_labware", From: "sessionStarted", To: "labwareLoaded", At: now},
			{Command: "move_to_tip_rack", From: "labwareLoaded", To: "preparingPipette", At: now},
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestEncryptionMiddleware_Contract(t *testing.T) {
	mw := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	ports.RunSessionStoreContract(t, mw(memory.NewStore()))
}

func TestEncryptionMiddleware_Roundtrip(t *testing.T) {
	underlyingStore := memory.NewStore()
	mw := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})
	secureStore := mw(underlyingStore)

	ctx := context.Background()
	original := newSession("test-session")
	require.NoError(t, secureStore.Save(ctx, original))

	// The underlying store only sees the envelope.
	stored, err := underlyingStore.Load(ctx, "test-session")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(stored.State, "sealed:"))
	assert.Empty(t, stored.History)
	assert.Equal(t, "pipetteOffset", stored.Workflow)

	loaded, err := secureStore.Load(ctx, "test-session")
	require.NoError(t, err)
	assert.Equal(t, original, loaded)
}

func TestEncryptionMiddleware_KeyRotation(t *testing.T) {
	underlyingStore := memory.NewStore()
	oldKey := generateKey(t)
	newKey := generateKey(t)

	secureStoreOld := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: oldKey})(underlyingStore)

	ctx := context.Background()
	if err := secureStoreOld.Save(ctx, newSession("rotation-session")); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	secureStoreNew := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{
		ActiveKey:    newKey,
		FallbackKeys: [][]byte{oldKey},
	})(underlyingStore)

	loaded, err := secureStoreNew.Load(ctx, "rotation-session")
	if err != nil {
		t.Fatalf("Load with rotated key failed: %v", err)
	}

	// Saving again re-seals with the new key.
	loaded.State = "inspectingTip"
	if err := secureStoreNew.Save(ctx, loaded); err != nil {
		t.Fatalf("Save with new key failed: %v", err)
	}

	if _, err := secureStoreOld.Load(ctx, "rotation-session"); err == nil {
		t.Error("Expected failure when loading new-key encryption with old-key middleware")
	}
}

func TestEncryptionMiddleware_PlainSession(t *testing.T) {
	underlyingStore := memory.NewStore()
	require.NoError(t, underlyingStore.Save(context.Background(), newSession("plain")))

	secureStore := middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: generateKey(t)})(underlyingStore)
	_, err := secureStore.Load(context.Background(), "plain")
	assert.ErrorIs(t, err, middleware.ErrNotSealed)
}

func TestEncryptionMiddleware_InvalidKey(t *testing.T) {
	assert.Panics(t, func() {
		middleware.NewEncryptionMiddleware(middleware.EncryptionConfig{ActiveKey: []byte("short-key")})
	})
}

func TestChain_Order(t *testing.T) {
	var calls []string
	tag := func(name string) middleware.Middleware {
		return func(next ports.SessionStore) ports.SessionStore {
			return recordingStore{SessionStore: next, name: name, calls: &calls}
		}
	}

	store := middleware.Chain(memory.NewStore(), tag("outer"), tag("inner"))
	require.NoError(t, store.Save(context.Background(), newSession("chain")))
	assert.Equal(t, []string{"outer", "inner"}, calls)
}

type recordingStore struct {
	ports.SessionStore
	name  string
	calls *[]string
}

func (s recordingStore) Save(ctx context.Context, session *domain.Session) error {
	*s.calls = append(*s.calls, s.name)
	return s.SessionStore.Save(ctx, session)
}
