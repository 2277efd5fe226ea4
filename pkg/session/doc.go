/*
Package session runs calibration sessions against a SessionStore.

The Manager serializes commands per session: a reference-counted local lock
orders callers in this process, and an optional DistributedLocker extends
that across replicas sharing a store. Each command is checked against the
session's workflow gate before anything is saved, so a rejected command
leaves the stored session untouched. Accepted and rejected commands are
reported to lifecycle hooks and, when configured, appended to a journal.
*/
package session
