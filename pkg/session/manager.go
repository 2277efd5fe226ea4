package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"log/slog"

	"github.com/aretw0/deckcal/internal/logging"
	"github.com/aretw0/deckcal/pkg/calibration"
	"github.com/aretw0/deckcal/pkg/domain"
	"github.com/aretw0/deckcal/pkg/ports"
	"github.com/google/uuid"
)

// Session is the persisted state of one calibration session.
type Session = domain.Session

// DefaultLockTTL bounds how long a distributed lock survives a crashed holder.
const DefaultLockTTL = 30 * time.Second

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager runs calibration sessions: it applies commands through the
// workflow state machine and persists the result. Commands for one session
// are serialized; a rejected command never touches the stored state.
type Manager struct {
	store ports.SessionStore

	mu    sync.Mutex            // guards locks
	locks map[string]*lockEntry // active per-session locks

	locker  ports.DistributedLocker // optional
	lockTTL time.Duration
	journal ports.Journal // optional
	hooks   domain.LifecycleHooks
	logger  *slog.Logger
	now     func() time.Time
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL sets the expiry of distributed locks.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.lockTTL = ttl
	}
}

// WithJournal records every submitted command.
func WithJournal(journal ports.Journal) Option {
	return func(m *Manager) {
		m.journal = journal
	}
}

// WithHooks registers lifecycle callbacks. Repeated calls merge.
func WithHooks(hooks domain.LifecycleHooks) Option {
	return func(m *Manager) {
		m.hooks = m.hooks.Merge(hooks)
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a Manager persisting sessions in store.
func NewManager(store ports.SessionStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: DefaultLockTTL,
		logger:  logging.NewNop(),
		now:     func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller MUST Lock entry.mu, and call release(sessionID) after unlocking.
func (m *Manager) acquire(sessionID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		entry = &lockEntry{}
		m.locks[sessionID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry at zero.
func (m *Manager) release(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[sessionID]
	if !exists {
		return
	}
	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, sessionID)
	}
}

// Start creates a session of the given workflow under a fresh ID.
func (m *Manager) Start(ctx context.Context, workflow calibration.Workflow) (*Session, error) {
	return m.StartWithID(ctx, uuid.NewString(), workflow)
}

// StartWithID creates a session under a caller-chosen ID.
// Returns domain.ErrSessionExists if the ID is taken.
func (m *Manager) StartWithID(ctx context.Context, sessionID string, workflow calibration.Workflow) (*Session, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("%w: session id cannot be empty", domain.ErrInvalidArgument)
	}
	sm, err := calibration.ForWorkflow(workflow)
	if err != nil {
		return nil, err
	}

	var s *Session
	err = m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		_, err := m.store.Load(ctx, sessionID)
		if err == nil {
			return fmt.Errorf("%w: %s", domain.ErrSessionExists, sessionID)
		}
		if !errors.Is(err, domain.ErrSessionNotFound) {
			return fmt.Errorf("failed to check session existence: %w", err)
		}

		now := m.now()
		s = &Session{
			ID:        sessionID,
			Workflow:  string(workflow),
			State:     string(sm.InitialState()),
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := m.store.Save(ctx, s); err != nil {
			return fmt.Errorf("failed to initialize session: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	m.logger.Debug("Session started", "session_id", s.ID, "workflow", s.Workflow, "state", s.State)
	if m.hooks.OnSessionStart != nil {
		m.hooks.OnSessionStart(ctx, m.sessionEvent(domain.EventSessionStart, s))
	}
	return s, nil
}

// Dispatch submits cmd to the session. On success the new state is saved
// and the updated session returned. An illegal command returns a
// *calibration.StateTransitionError and leaves the session untouched.
func (m *Manager) Dispatch(ctx context.Context, sessionID string, cmd calibration.Command) (*Session, error) {
	var (
		updated *Session
		event   *domain.TransitionEvent
	)
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		s, err := m.store.Load(ctx, sessionID)
		if err != nil {
			return err
		}
		sm, err := calibration.ForWorkflow(calibration.Workflow(s.Workflow))
		if err != nil {
			return fmt.Errorf("session %s: %w", sessionID, err)
		}

		now := m.now()
		event = &domain.TransitionEvent{
			EventBase: domain.EventBase{Timestamp: now, SessionID: s.ID, Workflow: s.Workflow},
			Command:   string(cmd),
			From:      s.State,
		}

		next, err := sm.GetNextState(calibration.State(s.State), cmd)
		if err != nil {
			event.Type = domain.EventRejected
			event.Err = err
			m.record(ctx, event)
			return err
		}

		event.Type = domain.EventTransition
		event.To = string(next)
		s.History = append(s.History, domain.HistoryEntry{Command: string(cmd), From: s.State, To: string(next), At: now})
		s.State = string(next)
		s.UpdatedAt = now
		if err := m.store.Save(ctx, s); err != nil {
			event = nil
			return fmt.Errorf("failed to save session: %w", err)
		}
		m.record(ctx, event)
		updated = s
		return nil
	})

	if event != nil {
		m.notify(ctx, event, endsSession(event))
	}
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// exited reports whether s is in the exit state.
func exited(s *Session) bool {
	return s != nil && s.State == string(calibration.StateSessionExited)
}

// endsSession reports whether e entered the exit state. Repeated exits
// from an already exited session are ordinary transitions.
func endsSession(e *domain.TransitionEvent) bool {
	exit := string(calibration.StateSessionExited)
	return e.Type == domain.EventTransition && e.From != exit && e.To == exit
}

// record appends the event to the journal. Journal failures are logged and
// do not undo the transition.
func (m *Manager) record(ctx context.Context, e *domain.TransitionEvent) {
	if m.journal == nil {
		return
	}
	entry := domain.JournalEntry{
		SessionID: e.SessionID,
		Workflow:  e.Workflow,
		Command:   e.Command,
		From:      e.From,
		To:        e.To,
		Accepted:  e.Type == domain.EventTransition,
		Timestamp: e.Timestamp,
	}
	if e.Err != nil {
		entry.Error = e.Err.Error()
	}
	if err := m.journal.Append(ctx, entry); err != nil {
		m.logger.Warn("Failed to append to command journal",
			"session_id", e.SessionID,
			"command", e.Command,
			"err", err,
		)
	}
}

func (m *Manager) notify(ctx context.Context, e *domain.TransitionEvent, ended bool) {
	if e.Type == domain.EventRejected {
		m.logger.Info("Command rejected",
			"session_id", e.SessionID, "workflow", e.Workflow, "state", e.From, "command", e.Command)
		if m.hooks.OnRejected != nil {
			m.hooks.OnRejected(ctx, e)
		}
		return
	}

	m.logger.Debug("Transition",
		"session_id", e.SessionID, "workflow", e.Workflow, "command", e.Command, "from", e.From, "to", e.To)
	if m.hooks.OnTransition != nil {
		m.hooks.OnTransition(ctx, e)
	}
	if ended && m.hooks.OnSessionEnd != nil {
		m.hooks.OnSessionEnd(ctx, &domain.SessionEvent{
			EventBase: domain.EventBase{Timestamp: e.Timestamp, Type: domain.EventSessionEnd, SessionID: e.SessionID, Workflow: e.Workflow},
			State:     e.To,
		})
	}
}

func (m *Manager) sessionEvent(t domain.EventType, s *Session) *domain.SessionEvent {
	return &domain.SessionEvent{
		EventBase: domain.EventBase{Timestamp: m.now(), Type: t, SessionID: s.ID, Workflow: s.Workflow},
		State:     s.State,
	}
}

// Load retrieves an existing session from the store.
func (m *Manager) Load(ctx context.Context, sessionID string) (*Session, error) {
	var s *Session
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		var err error
		s, err = m.store.Load(ctx, sessionID)
		return err
	})
	return s, err
}

// Delete removes the session from the store.
// Deleting a session that was never exited ends it.
func (m *Manager) Delete(ctx context.Context, sessionID string) error {
	var removed *Session
	err := m.WithLock(ctx, sessionID, func(ctx context.Context) error {
		s, err := m.store.Load(ctx, sessionID)
		if err != nil {
			if errors.Is(err, domain.ErrSessionNotFound) {
				return nil
			}
			return err
		}
		if err := m.store.Delete(ctx, sessionID); err != nil {
			return err
		}
		removed = s
		return nil
	})
	if err != nil {
		return err
	}
	if removed != nil && !exited(removed) && m.hooks.OnSessionEnd != nil {
		m.hooks.OnSessionEnd(ctx, m.sessionEvent(domain.EventSessionEnd, removed))
	}
	return nil
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// Journal returns every command submitted to the session, or nil when no
// journal is configured.
func (m *Manager) Journal(ctx context.Context, sessionID string) ([]domain.JournalEntry, error) {
	if m.journal == nil {
		return nil, nil
	}
	return m.journal.List(ctx, sessionID)
}

// Store returns the underlying session store.
func (m *Manager) Store() ports.SessionStore {
	return m.store
}

// WithLock executes fn while holding the lock for the session.
func (m *Manager) WithLock(ctx context.Context, sessionID string, fn func(context.Context) error) error {
	entry := m.acquire(sessionID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(sessionID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, sessionID, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"session_id", sessionID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
