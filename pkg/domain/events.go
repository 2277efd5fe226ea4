package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventSessionStart EventType = "session_start"
	EventSessionEnd   EventType = "session_end"
	EventTransition   EventType = "transition"
	EventRejected     EventType = "rejected"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
	SessionID string    `json:"session_id"`
	Workflow  string    `json:"workflow"`
}

// SessionEvent represents the creation or removal of a calibration session.
type SessionEvent struct {
	EventBase
	State string `json:"state"`
}

// TransitionEvent represents a command submitted to a session, accepted or not.
type TransitionEvent struct {
	EventBase
	Command string `json:"command"`
	From    string `json:"from"`
	To      string `json:"to,omitempty"`
	Err     error  `json:"-"`
}

// LifecycleHooks defines callbacks for session observability.
// Nil callbacks are skipped.
type LifecycleHooks struct {
	OnSessionStart func(context.Context, *SessionEvent)
	OnSessionEnd   func(context.Context, *SessionEvent)
	OnTransition   func(context.Context, *TransitionEvent)
	OnRejected     func(context.Context, *TransitionEvent)
}

// Merge returns hooks that call h first and then o.
func (h LifecycleHooks) Merge(o LifecycleHooks) LifecycleHooks {
	return LifecycleHooks{
		OnSessionStart: chain(h.OnSessionStart, o.OnSessionStart),
		OnSessionEnd:   chain(h.OnSessionEnd, o.OnSessionEnd),
		OnTransition:   chain(h.OnTransition, o.OnTransition),
		OnRejected:     chain(h.OnRejected, o.OnRejected),
	}
}

func chain[E any](a, b func(context.Context, E)) func(context.Context, E) {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	}
	return func(ctx context.Context, e E) {
		a(ctx, e)
		b(ctx, e)
	}
}
