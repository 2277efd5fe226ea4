/*
Package ports defines the driven ports (interfaces) of deckcal.

These interfaces decouple the session manager from concrete backends, so a
calibration session can live in memory, on disk or in Redis without the
workflow code noticing.

# Key Interfaces

  - SessionStore: persists and loads calibration Sessions.
  - DistributedLocker: serializes access to a session across replicas.
  - Journal: append-only log of every command submitted to a session.

Adapters verify themselves against the shared suites RunSessionStoreContract
and RunJournalContract.
*/
package ports
