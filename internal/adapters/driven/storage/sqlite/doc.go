// Package sqlite provides SQLite-backed implementations of driven port interfaces.
//
// This adapter uses modernc.org/sqlite, a pure Go SQLite implementation that requires
// no CGO. A single database file holds:
//
//   - the vector index snapshot (IndexSnapshotStore), loaded at startup
//   - the sync run history (SyncHistoryStore)
//   - scheduler task state and results (SchedulerStore)
//
// # Schema
//
// The schema is managed through numbered migrations embedded from the
// migrations/ directory and applied in order on open.
//
// # Data Location
//
// The database is stored at <dir>/index.db, by default ~/.noticeagent/index.db.
//
// # Thread Safety
//
// All operations are safe for concurrent use. The database runs in WAL mode
// and a snapshot replacement is a single transaction.
package sqlite
