// Package driven lists what the core needs from the outside world: file
// discovery, text extraction, embedding, the vector index, completions
// and persistence. Adapters under internal/adapters/driven, connectors,
// normalisers and postprocessors implement these interfaces. This package
// imports only domain.
//
// The indexing and answering path cannot run without a Connector,
// NormaliserRegistry, PostProcessorPipeline, EmbeddingService, VectorIndex,
// ConfigStore and PromptStore. An embedding model that cannot be reached
// at startup is fatal.
//
// The rest may be nil:
//
//   - LLMService: answers then report the completion service as unavailable
//   - IndexSnapshotStore: the in-memory index is rebuilt on every start
//   - SyncHistoryStore: status shows only syncs from this process
//   - SyncLock: syncs are serialised within the process only
//   - SchedulerStore: the background schedule restarts from scratch
package driven
