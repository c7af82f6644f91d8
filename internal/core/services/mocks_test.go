package services

import (
	"context"
	"errors"
	"hash/fnv"
	"strings"
	"sync"
	"time"

	"github.com/campusnotice/noticeagent/internal/core/domain"
	"github.com/campusnotice/noticeagent/internal/core/ports/driven"
)

// --- Mock implementations shared by service tests ---

// mockConnector implements driven.Connector for testing.
type mockConnector struct {
	docs        []domain.RawDocument
	fileErrs    []error
	validateErr error
	changes     chan domain.RawDocumentChange
	watchErr    error
}

func (m *mockConnector) Type() string { return "mock" }

func (m *mockConnector) Validate(_ context.Context) error { return m.validateErr }

func (m *mockConnector) FullSync(ctx context.Context) (<-chan domain.RawDocument, <-chan error) {
	docs := make(chan domain.RawDocument)
	errs := make(chan error, len(m.fileErrs))

	go func() {
		defer close(docs)
		defer close(errs)

		for _, err := range m.fileErrs {
			errs <- err
		}
		for _, doc := range m.docs {
			select {
			case <-ctx.Done():
				return
			case docs <- doc:
			}
		}
	}()

	return docs, errs
}

func (m *mockConnector) Watch(_ context.Context) (<-chan domain.RawDocumentChange, error) {
	if m.watchErr != nil {
		return nil, m.watchErr
	}
	return m.changes, nil
}

func (m *mockConnector) Close() error { return nil }

// mockNormaliserRegistry treats raw content as text. Origins ending in
// ".bad" fail to normalise.
type mockNormaliserRegistry struct{}

func (m *mockNormaliserRegistry) Normalise(_ context.Context, raw *domain.RawDocument) (*driven.NormaliseResult, error) {
	if strings.HasSuffix(raw.Origin, ".bad") {
		return nil, errors.New("corrupt file")
	}
	return &driven.NormaliseResult{Document: domain.Document{
		ID:         "doc-" + raw.Origin,
		Origin:     raw.Origin,
		SourceType: raw.SourceType,
		Content:    string(raw.Content),
	}}, nil
}

func (m *mockNormaliserRegistry) Register(_ driven.Normaliser) {}

func (m *mockNormaliserRegistry) SupportedMIMETypes() []string { return []string{"text/plain"} }

// mockPipeline splits content on "|" into passages.
type mockPipeline struct {
	err error
}

func (m *mockPipeline) Process(_ context.Context, doc *domain.Document) ([]domain.Passage, error) {
	if m.err != nil {
		return nil, m.err
	}
	var passages []domain.Passage
	offset := 0
	for i, part := range strings.Split(doc.Content, "|") {
		passages = append(passages, domain.Passage{
			ID:         doc.ID + "-" + string(rune('a'+i)),
			DocumentID: doc.ID,
			Origin:     doc.Origin,
			SourceType: doc.SourceType,
			Content:    part,
			Position:   i,
			Start:      offset,
			End:        offset + len([]rune(part)),
		})
		offset += len([]rune(part)) + 1
	}
	return passages, nil
}

// mockEmbedder produces deterministic vectors from a hash of the text.
type mockEmbedder struct {
	mu         sync.Mutex
	dims       int
	embedCalls int
	batchSizes []int
	embedErr   error
	batchErr   error
	vectors    map[string][]float32
}

func newMockEmbedder() *mockEmbedder {
	return &mockEmbedder{dims: 4, vectors: make(map[string][]float32)}
}

func (m *mockEmbedder) vector(text string) []float32 {
	if v, ok := m.vectors[text]; ok {
		return v
	}
	h := fnv.New32a()
	_, _ = h.Write([]byte(text))
	sum := h.Sum32()
	v := make([]float32, m.dims)
	for i := range v {
		v[i] = float32((sum>>(i*8))&0xff) + 1
	}
	return v
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.embedCalls++
	if m.embedErr != nil {
		return nil, m.embedErr
	}
	return m.vector(text), nil
}

func (m *mockEmbedder) EmbedBatch(_ context.Context, texts []string) ([][]float32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.batchSizes = append(m.batchSizes, len(texts))
	if m.batchErr != nil {
		return nil, m.batchErr
	}
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = m.vector(t)
	}
	return out, nil
}

func (m *mockEmbedder) Dimensions() int              { return m.dims }
func (m *mockEmbedder) ModelName() string            { return "mock-embed" }
func (m *mockEmbedder) Ping(_ context.Context) error { return nil }
func (m *mockEmbedder) Close() error                 { return nil }

func (m *mockEmbedder) calls() (embeds int, batches []int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.embedCalls, append([]int(nil), m.batchSizes...)
}

// mockVectorIndex records rebuilds and returns configured hits.
type mockVectorIndex struct {
	mu         sync.Mutex
	entries    []domain.IndexEntry
	rebuilds   int
	rebuildErr error
	hits       []domain.RetrievalHit
	searchK    int
	searches   int
	exists     bool
	existsErr  error
	block      chan struct{}
}

func (m *mockVectorIndex) Rebuild(_ context.Context, entries []domain.IndexEntry) error {
	if m.block != nil {
		<-m.block
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rebuilds++
	if m.rebuildErr != nil {
		return m.rebuildErr
	}
	m.entries = entries
	m.exists = len(entries) > 0
	return nil
}

func (m *mockVectorIndex) Search(_ context.Context, _ []float32, k int) ([]domain.RetrievalHit, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searches++
	m.searchK = k
	if len(m.hits) > k {
		return m.hits[:k], nil
	}
	return m.hits, nil
}

func (m *mockVectorIndex) Exists(_ context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.exists, m.existsErr
}

func (m *mockVectorIndex) Info(_ context.Context) (domain.IndexInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	info := domain.IndexInfo{Backend: "mock", Entries: len(m.entries)}
	if len(m.entries) > 0 {
		info.Dimensions = len(m.entries[0].Vector)
	}
	return info, nil
}

func (m *mockVectorIndex) Close() error { return nil }

// mockSyncLock implements driven.SyncLock.
type mockSyncLock struct {
	held     bool
	lockErr  error
	locks    int
	unlocks  int
	heldElse bool
}

func (m *mockSyncLock) TryLock() (bool, error) {
	if m.lockErr != nil {
		return false, m.lockErr
	}
	if m.heldElse {
		return false, nil
	}
	m.held = true
	m.locks++
	return true, nil
}

func (m *mockSyncLock) Unlock() error {
	m.held = false
	m.unlocks++
	return nil
}

// mockHistory implements driven.SyncHistoryStore.
type mockHistory struct {
	mu     sync.Mutex
	runs   []domain.SyncRun
	pruned int
}

func (m *mockHistory) Record(_ context.Context, run *domain.SyncRun) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.runs = append([]domain.SyncRun{*run}, m.runs...)
	return nil
}

func (m *mockHistory) Recent(_ context.Context, limit int) ([]domain.SyncRun, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if limit > 0 && len(m.runs) > limit {
		return m.runs[:limit], nil
	}
	return m.runs, nil
}

func (m *mockHistory) Prune(_ context.Context, keep int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pruned = keep
	return nil
}

// mockLLM implements driven.LLMService.
type mockLLM struct {
	mu      sync.Mutex
	calls   int
	prompt  string
	opts    driven.GenerateOptions
	reply   string
	err     error
	waitCtx bool
}

func (m *mockLLM) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	m.mu.Lock()
	m.calls++
	m.prompt = prompt
	m.opts = opts
	m.mu.Unlock()

	if m.waitCtx {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return m.reply, m.err
}

func (m *mockLLM) ModelName() string            { return "mock-llm" }
func (m *mockLLM) Ping(_ context.Context) error { return nil }
func (m *mockLLM) Close() error                 { return nil }

// mockPromptStore implements driven.PromptStore.
type mockPromptStore struct {
	prompts map[string]string
	err     error
}

func (m *mockPromptStore) Load(name string) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	return m.prompts[name], nil
}

func (m *mockPromptStore) Reload() {}

// mockConfigStore implements driven.ConfigStore over a map.
type mockConfigStore struct {
	values map[string]any
	setErr error
}

func newMockConfigStore() *mockConfigStore {
	return &mockConfigStore{values: make(map[string]any)}
}

func (m *mockConfigStore) Get(key string) (any, bool) {
	v, ok := m.values[key]
	return v, ok
}

func (m *mockConfigStore) GetString(key string) string {
	s, _ := m.values[key].(string)
	return s
}

func (m *mockConfigStore) GetInt(key string) int {
	n, _ := m.values[key].(int)
	return n
}

func (m *mockConfigStore) GetBool(key string) bool {
	b, _ := m.values[key].(bool)
	return b
}

func (m *mockConfigStore) GetDuration(key string) time.Duration {
	s, _ := m.values[key].(string)
	d, _ := time.ParseDuration(s)
	return d
}

func (m *mockConfigStore) Set(key string, value any) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.values[key] = value
	return nil
}

func (m *mockConfigStore) Load() error  { return nil }
func (m *mockConfigStore) Path() string { return "mock.toml" }

// mockSchedulerStore implements driven.SchedulerStore for testing.
type mockSchedulerStore struct {
	mu      sync.RWMutex
	tasks   map[string]*domain.ScheduledTask
	results map[string][]domain.TaskResult
	getErr  error
}

func newMockSchedulerStore() *mockSchedulerStore {
	return &mockSchedulerStore{
		tasks:   make(map[string]*domain.ScheduledTask),
		results: make(map[string][]domain.TaskResult),
	}
}

func (m *mockSchedulerStore) GetTask(_ context.Context, taskID string) (*domain.ScheduledTask, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.getErr != nil {
		return nil, m.getErr
	}
	task, exists := m.tasks[taskID]
	if !exists {
		return nil, nil
	}
	taskCopy := *task
	return &taskCopy, nil
}

func (m *mockSchedulerStore) SaveTask(_ context.Context, task *domain.ScheduledTask) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	taskCopy := *task
	m.tasks[task.ID] = &taskCopy
	return nil
}

func (m *mockSchedulerStore) RecordResult(_ context.Context, result *domain.TaskResult) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.results[result.TaskID] = append(m.results[result.TaskID], *result)
	return nil
}

func (m *mockSchedulerStore) GetTaskHistory(_ context.Context, taskID string, limit int) ([]domain.TaskResult, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	results := m.results[taskID]
	if len(results) > limit {
		results = results[len(results)-limit:]
	}
	return results, nil
}

func (m *mockSchedulerStore) PruneHistory(_ context.Context, _ int) error { return nil }

func (m *mockSchedulerStore) resultCount(taskID string) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.results[taskID])
}

// mockSyncOrchestrator implements driving.SyncOrchestrator for testing.
type mockSyncOrchestrator struct {
	mu       sync.Mutex
	triggers []string
	err      error
	status   domain.SyncStatus
}

func (m *mockSyncOrchestrator) Sync(_ context.Context, trigger string) (*domain.SyncResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.triggers = append(m.triggers, trigger)
	if m.err != nil {
		return nil, m.err
	}
	return &domain.SyncResult{Documents: 1, Passages: 3}, nil
}

func (m *mockSyncOrchestrator) Status() domain.SyncStatus { return m.status }

func (m *mockSyncOrchestrator) History(_ context.Context, _ int) ([]domain.SyncRun, error) {
	return nil, nil
}

func (m *mockSyncOrchestrator) syncCount(trigger string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.triggers {
		if t == trigger {
			n++
		}
	}
	return n
}

// mockRetrieval implements driving.RetrievalService.
type mockRetrieval struct {
	assembled *domain.AssembledContext
	err       error
	calls     int
	lastK     int
}

func (m *mockRetrieval) AssembleContext(_ context.Context, _ string, k int) (*domain.AssembledContext, error) {
	m.calls++
	m.lastK = k
	return m.assembled, m.err
}
