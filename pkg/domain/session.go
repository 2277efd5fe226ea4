package domain

import "time"

// Session is the persisted state of one calibration session.
// Workflow and State hold the string forms of the calibration enums so the
// domain stays independent of any particular workflow table.
type Session struct {
	ID        string         `json:"id"`
	Workflow  string         `json:"workflow"`
	State     string         `json:"state"`
	History   []HistoryEntry `json:"history,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// HistoryEntry records one accepted command.
type HistoryEntry struct {
	Command string    `json:"command"`
	From    string    `json:"from"`
	To      string    `json:"to"`
	At      time.Time `json:"at"`
}

// Clone returns a deep copy of s.
func (s *Session) Clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	c.History = append([]HistoryEntry(nil), s.History...)
	return &c
}

// JournalEntry is one command submitted to a session, accepted or not.
type JournalEntry struct {
	SessionID string    `json:"session_id"`
	Workflow  string    `json:"workflow"`
	Command   string    `json:"command"`
	From      string    `json:"from"`
	To        string    `json:"to,omitempty"`
	Accepted  bool      `json:"accepted"`
	Error     string    `json:"error,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
