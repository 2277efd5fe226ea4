package session_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/deckcal/pkg/adapters/memory"
	"github.com/aretw0/deckcal/pkg/adapters/redis"
	"github.com/aretw0/deckcal/pkg/calibration"
	"github.com/aretw0/deckcal/pkg/domain"
	"github.com/aretw0/deckcal/pkg/session"
	backend "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// SlowStore simulates latency to provoke lost updates if locking is missing.
type SlowStore struct {
	*memory.Store
}

func (s SlowStore) Save(ctx context.Context, sess *domain.Session) error {
	time.Sleep(5 * time.Millisecond)
	return s.Store.Save(ctx, sess)
}

func (s SlowStore) Load(ctx context.Context, id string) (*domain.Session, error) {
	time.Sleep(5 * time.Millisecond)
	return s.Store.Load(ctx, id)
}

// FailingStore fails every Save after the first.
type FailingStore struct {
	*memory.Store
	saves int
}

func (s *FailingStore) Save(ctx context.Context, sess *domain.Session) error {
	s.saves++
	if s.saves > 1 {
		return errors.New("disk full")
	}
	return s.Store.Save(ctx, sess)
}

func drive(t *testing.T, m *session.Manager, id string, cmds ...calibration.Command) *session.Session {
	t.Helper()
	var s *session.Session
	for _, c := range cmds {
		var err error
		s, err = m.Dispatch(context.Background(), id, c)
		require.NoError(t, err, "command %s", c)
	}
	return s
}

func TestManager_Scenario(t *testing.T) {
	ctx := context.Background()
	m := session.NewManager(memory.NewStore())

	s, err := m.Start(ctx, calibration.WorkflowPipetteOffset)
	require.NoError(t, err)
	assert.NotEmpty(t, s.ID)
	assert.Equal(t, string(calibration.StateSessionStarted), s.State)

	s = drive(t, m, s.ID,
		calibration.CommandLoadLabware,
		calibration.CommandMoveToTipRack,
		calibration.CommandJog,
		calibration.CommandPickUpTip,
		calibration.CommandMoveToDeck,
		calibration.CommandSaveOffset,
		calibration.CommandMoveToPointOne,
		calibration.CommandSaveOffset,
	)
	assert.Equal(t, string(calibration.StateCalibrationComplete), s.State)
	require.Len(t, s.History, 8)
	assert.Equal(t, "move_to_point_one", s.History[6].Command)
	assert.Equal(t, string(calibration.StateSavingPointOne), s.History[6].To)

	loaded, err := m.Load(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, s.State, loaded.State)
}

func TestManager_RejectedCommandLeavesState(t *testing.T) {
	ctx := context.Background()
	journal := memory.NewJournal()
	m := session.NewManager(memory.NewStore(), session.WithJournal(journal))

	s, err := m.StartWithID(ctx, "s1", calibration.WorkflowPipetteOffset)
	require.NoError(t, err)

	_, err = m.Dispatch(ctx, s.ID, calibration.CommandJog)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrIllegalTransition))
	assert.Equal(t, "cannot jog from state sessionStarted", err.Error())

	var transitionErr *calibration.StateTransitionError
	require.True(t, errors.As(err, &transitionErr))
	assert.Equal(t, calibration.StateSessionStarted, transitionErr.From)

	loaded, err := m.Load(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, string(calibration.StateSessionStarted), loaded.State)
	assert.Empty(t, loaded.History)

	entries, err := m.Journal(ctx, s.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.False(t, entries[0].Accepted)
	assert.Equal(t, "cannot jog from state sessionStarted", entries[0].Error)
}

func TestManager_ExitFromAnyState(t *testing.T) {
	ctx := context.Background()
	m := session.NewManager(memory.NewStore())

	s, err := m.Start(ctx, calibration.WorkflowPipetteOffsetWithTipLength)
	require.NoError(t, err)
	s = drive(t, m, s.ID,
		calibration.CommandSetHasCalibrationBlock,
		calibration.CommandLoadLabware,
		calibration.CommandMoveToReferencePoint,
		calibration.CommandExit,
	)
	assert.Equal(t, string(calibration.StateSessionExited), s.State)
}

func TestManager_StartErrors(t *testing.T) {
	ctx := context.Background()
	m := session.NewManager(memory.NewStore())

	_, err := m.StartWithID(ctx, "dup", calibration.WorkflowPipetteOffset)
	require.NoError(t, err)
	_, err = m.StartWithID(ctx, "dup", calibration.WorkflowPipetteOffset)
	assert.ErrorIs(t, err, domain.ErrSessionExists)

	_, err = m.Start(ctx, "deckCalibration")
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = m.StartWithID(ctx, "", calibration.WorkflowPipetteOffset)
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)

	_, err = m.Dispatch(ctx, "missing", calibration.CommandExit)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestManager_SaveFailureEmitsNothing(t *testing.T) {
	ctx := context.Background()
	var transitions int
	m := session.NewManager(&FailingStore{Store: memory.NewStore()}, session.WithHooks(domain.LifecycleHooks{
		OnTransition: func(context.Context, *domain.TransitionEvent) { transitions++ },
	}))

	s, err := m.Start(ctx, calibration.WorkflowPipetteOffset)
	require.NoError(t, err)

	_, err = m.Dispatch(ctx, s.ID, calibration.CommandLoadLabware)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "disk full")
	assert.Zero(t, transitions)

	loaded, err := m.Load(ctx, s.ID)
	require.NoError(t, err)
	assert.Equal(t, string(calibration.StateSessionStarted), loaded.State)
}

func TestManager_Hooks(t *testing.T) {
	ctx := context.Background()
	var (
		mu     sync.Mutex
		events []string
	)
	record := func(s string) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, s)
	}
	hooks := domain.LifecycleHooks{
		OnSessionStart: func(_ context.Context, e *domain.SessionEvent) { record("start:" + e.State) },
		OnSessionEnd:   func(_ context.Context, e *domain.SessionEvent) { record("end:" + e.State) },
		OnTransition:   func(_ context.Context, e *domain.TransitionEvent) { record("transition:" + e.From + ">" + e.To) },
		OnRejected:     func(_ context.Context, e *domain.TransitionEvent) { record("rejected:" + e.Command) },
	}
	m := session.NewManager(memory.NewStore(), session.WithHooks(hooks))

	a, err := m.StartWithID(ctx, "a", calibration.WorkflowPipetteOffset)
	require.NoError(t, err)
	drive(t, m, a.ID, calibration.CommandLoadLabware)
	_, _ = m.Dispatch(ctx, a.ID, calibration.CommandPickUpTip)
	drive(t, m, a.ID, calibration.CommandExit)

	b, err := m.StartWithID(ctx, "b", calibration.WorkflowPipetteOffset)
	require.NoError(t, err)
	require.NoError(t, m.Delete(ctx, b.ID))
	// Deleting an exited session does not end it twice.
	require.NoError(t, m.Delete(ctx, a.ID))
	// Deleting a missing session is a no-op.
	require.NoError(t, m.Delete(ctx, "ghost"))

	assert.Equal(t, []string{
		"start:sessionStarted",
		"transition:sessionStarted>labwareLoaded",
		"rejected:pick_up_tip",
		"transition:labwareLoaded>sessionExited",
		"end:sessionExited",
		"start:sessionStarted",
		"end:sessionStarted",
	}, events)

	ids, err := m.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}

func TestManager_RepeatedExitEndsOnce(t *testing.T) {
	ctx := context.Background()
	var ends int
	hooks := domain.LifecycleHooks{
		OnSessionEnd: func(_ context.Context, _ *domain.SessionEvent) { ends++ },
	}
	m := session.NewManager(memory.NewStore(), session.WithHooks(hooks))

	s, err := m.Start(ctx, calibration.WorkflowPipetteOffset)
	require.NoError(t, err)
	s = drive(t, m, s.ID, calibration.CommandExit, calibration.CommandExit, calibration.CommandExit)
	assert.Equal(t, string(calibration.StateSessionExited), s.State)
	assert.Equal(t, 1, ends)

	require.NoError(t, m.Delete(ctx, s.ID))
	assert.Equal(t, 1, ends)
}

func TestManager_Locking(t *testing.T) {
	ctx := context.Background()
	m := session.NewManager(SlowStore{memory.NewStore()})

	s, err := m.StartWithID(ctx, "race-test", calibration.WorkflowPipetteOffset)
	require.NoError(t, err)
	drive(t, m, s.ID, calibration.CommandLoadLabware, calibration.CommandMoveToTipRack)

	const concurrentJogs = 10
	var wg sync.WaitGroup
	for i := 0; i < concurrentJogs; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := m.Dispatch(ctx, s.ID, calibration.CommandJog)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	loaded, err := m.Load(ctx, s.ID)
	require.NoError(t, err)
	// Serialized read-modify-write keeps every history entry.
	assert.Len(t, loaded.History, 2+concurrentJogs)
}

func TestManager_DistributedLock(t *testing.T) {
	mr := miniredis.RunT(t)
	client := backend.NewClient(&backend.Options{Addr: mr.Addr()})
	store := redis.NewFromClient(client)

	m := session.NewManager(store,
		session.WithLocker(redis.NewLocker(client, store.Prefix())),
		session.WithLockTTL(5*time.Second),
	)
	ctx := context.Background()

	s, err := m.StartWithID(ctx, "shared", calibration.WorkflowPipetteOffset)
	require.NoError(t, err)
	s = drive(t, m, s.ID, calibration.CommandLoadLabware)
	assert.Equal(t, string(calibration.StateLabwareLoaded), s.State)
	assert.False(t, mr.Exists(store.Prefix()+"lock:shared"), "lock must be released after dispatch")

	// A lock held elsewhere blocks the manager until ctx expires.
	unlock, err := redis.NewLocker(client, store.Prefix()).Lock(ctx, "shared", 5*time.Second)
	require.NoError(t, err)
	defer unlock(ctx)

	timeout, cancel := context.WithTimeout(ctx, 250*time.Millisecond)
	defer cancel()
	_, err = m.Dispatch(timeout, "shared", calibration.CommandMoveToTipRack)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
