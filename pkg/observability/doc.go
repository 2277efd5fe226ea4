/*
Package observability provides tools for monitoring calibration sessions.

Metrics implements prometheus.Collector and is fed by the session lifecycle
hooks, so any Deck or session.Manager can export counters for started and
ended sessions, accepted transitions and rejected commands.
*/
package observability
