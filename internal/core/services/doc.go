// Package services holds the core use cases: syncing the data folder into
// the vector index, retrieving context, answering questions, reporting
// status, managing settings and scheduling background syncs.
//
// Services depend only on the port interfaces; adapters are injected by
// the composition root.
package services
