package domain

import "time"

// SyncResult summarises one completed ingestion run.
type SyncResult struct {
	// Documents is the number of non-empty documents ingested.
	Documents int

	// OfficialNotices counts documents of type official_notice.
	OfficialNotices int

	// DynamicUpdates counts documents of type dynamic_update.
	DynamicUpdates int

	// Passages is the number of passages written to the index.
	Passages int

	// Skipped counts files that could not be read or were empty.
	Skipped int

	// StartedAt is when the run started.
	StartedAt time.Time

	// Duration is how long the run took.
	Duration time.Duration
}

// SyncStatus represents the ingestion state.
type SyncStatus struct {
	// Running indicates whether a sync is in progress.
	Running bool

	// LastSync is when the last sync finished.
	LastSync time.Time

	// LastResult is the outcome of the last successful sync.
	LastResult *SyncResult

	// LastError contains the last error message, if any.
	LastError string
}

// SyncRun is a persisted record of one sync attempt.
type SyncRun struct {
	// ID is the unique identifier for the run.
	ID string

	// Trigger names what started the run (cli, http, mcp, schedule, watch).
	Trigger string

	// StartedAt is when the run started.
	StartedAt time.Time

	// EndedAt is when the run finished.
	EndedAt time.Time

	// Success indicates whether the index was rebuilt.
	Success bool

	// Error contains the error message if Success is false.
	Error string

	// Documents is the number of documents ingested.
	Documents int

	// Passages is the number of passages indexed.
	Passages int
}
