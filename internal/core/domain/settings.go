package domain

import (
	"fmt"
	"time"
)

// AIProvider names a hosted or local model API. Embeddings come from
// Ollama or OpenAI; answers from any of the four.
type AIProvider string

const (
	AIProviderOllama    AIProvider = "ollama"
	AIProviderOpenAI    AIProvider = "openai"
	AIProviderGroq      AIProvider = "groq"
	AIProviderAnthropic AIProvider = "anthropic"
)

type providerInfo struct {
	name    string
	local   bool
	keyEnv  string
	baseURL string
}

var providers = map[AIProvider]providerInfo{
	AIProviderOllama:    {name: "Ollama", local: true, baseURL: "http://localhost:11434"},
	AIProviderOpenAI:    {name: "OpenAI", keyEnv: "OPENAI_API_KEY", baseURL: "https://api.openai.com/v1"},
	AIProviderGroq:      {name: "Groq", keyEnv: "GROQ_API_KEY", baseURL: "https://api.groq.com/openai/v1"},
	AIProviderAnthropic: {name: "Anthropic", keyEnv: "ANTHROPIC_API_KEY", baseURL: "https://api.anthropic.com"},
}

func (p AIProvider) IsValid() bool {
	_, ok := providers[p]
	return ok
}

// RequiresAPIKey is true for every hosted provider.
func (p AIProvider) RequiresAPIKey() bool {
	info, ok := providers[p]
	return ok && !info.local
}

func (p AIProvider) IsLocal() bool {
	return providers[p].local
}

func (p AIProvider) String() string {
	return string(p)
}

// DisplayName is the brand name, or "Unknown".
func (p AIProvider) DisplayName() string {
	if info, ok := providers[p]; ok {
		return info.name
	}
	return "Unknown"
}

// Description is the brand name with where it runs, e.g. "Groq (cloud)".
func (p AIProvider) Description() string {
	info, ok := providers[p]
	switch {
	case !ok:
		return "Unknown"
	case info.local:
		return info.name + " (local)"
	default:
		return info.name + " (cloud)"
	}
}

// APIKeyEnv is the environment variable that conventionally holds the
// provider's key, or "" for local providers.
func (p AIProvider) APIKeyEnv() string {
	return providers[p].keyEnv
}

// DefaultBaseURL is the endpoint used when none is configured.
func (p AIProvider) DefaultBaseURL() string {
	return providers[p].baseURL
}

// EmbeddingSettings selects the model that embeds passages and questions.
// Changing any of it invalidates the index until the next sync.
type EmbeddingSettings struct {
	Provider   AIProvider
	Model      string
	BaseURL    string
	APIKey     string
	Dimensions int

	// BatchSize is how many passages go into one embedding request.
	BatchSize int
}

// IsConfigured reports whether the provider can embed and has the key
// it needs. Groq and Anthropic offer no embedding models.
func (e EmbeddingSettings) IsConfigured() bool {
	switch {
	case e.Provider == AIProviderAnthropic, e.Provider == AIProviderGroq:
		return false
	case !e.Provider.IsValid():
		return false
	}
	return !e.Provider.RequiresAPIKey() || e.APIKey != ""
}

// LLMSettings selects the completion model that writes answers.
type LLMSettings struct {
	Provider AIProvider
	Model    string
	BaseURL  string
	APIKey   string

	// Timeout bounds a single completion call.
	Timeout time.Duration
}

func (l LLMSettings) IsConfigured() bool {
	return l.Provider.IsValid() && (!l.Provider.RequiresAPIKey() || l.APIKey != "")
}

// Engine returns the description reported by status endpoints,
// e.g. "Groq (llama-3.3-70b-versatile)".
func (l LLMSettings) Engine() string {
	return fmt.Sprintf("%s (%s)", l.Provider.DisplayName(), l.Model)
}

// IndexBackend selects the vector index implementation.
type IndexBackend string

// Available index backends.
const (
	// IndexBackendMemory keeps the index in memory only.
	IndexBackendMemory IndexBackend = "memory"

	// IndexBackendSQLite keeps the index in memory and persists snapshots to SQLite.
	IndexBackendSQLite IndexBackend = "sqlite"

	// IndexBackendPgvector stores the index in Postgres with the pgvector extension.
	IndexBackendPgvector IndexBackend = "pgvector"
)

// IsValid returns true if the backend is recognised.
func (b IndexBackend) IsValid() bool {
	switch b {
	case IndexBackendMemory, IndexBackendSQLite, IndexBackendPgvector:
		return true
	default:
		return false
	}
}

// IndexSettings holds vector index configuration.
type IndexSettings struct {
	// Backend is the index implementation.
	Backend IndexBackend

	// DSN is the Postgres connection string for the pgvector backend.
	DSN string
}

// RetrievalSettings holds query-time retrieval configuration.
type RetrievalSettings struct {
	// TopK is the number of passages assembled into context.
	TopK int
}

// AssistantSettings holds values substituted into the answer prompt.
type AssistantSettings struct {
	// Institution is the name used in the assistant persona.
	Institution string

	// DefaultYear is assumed when a notice omits the year.
	DefaultYear int
}

// ServerSettings holds HTTP server configuration.
type ServerSettings struct {
	// Addr is the listen address.
	Addr string

	// CORSOrigins is the comma-separated list of allowed origins.
	CORSOrigins string
}

// SyncSettings holds ingestion configuration.
type SyncSettings struct {
	// DataDir is the directory scanned for notices and updates.
	DataDir string

	// Interval is the scheduled re-sync period. Zero disables it.
	Interval time.Duration

	// Watch enables re-sync when the data directory changes.
	Watch bool
}

// AppSettings holds all application settings.
type AppSettings struct {
	Sync      SyncSettings
	Embedding EmbeddingSettings
	LLM       LLMSettings
	Index     IndexSettings
	Retrieval RetrievalSettings
	Assistant AssistantSettings
	Server    ServerSettings
	Pipeline  PipelineConfig
}

// Default values for settings.
const (
	DefaultDataDir        = "./data"
	DefaultTopK           = 8
	DefaultChunkSize      = 1000
	DefaultChunkOverlap   = 100
	DefaultBatchSize      = 32
	DefaultInstitution    = "LBRCE"
	DefaultServerAddr     = ":8000"
	DefaultCORSOrigins    = "*"
	DefaultLLMTimeout     = 60 * time.Second
	DefaultEmbeddingModel = "all-minilm"
	DefaultLLMModel       = "llama-3.3-70b-versatile"
)

// DefaultAppSettings returns settings with sensible defaults.
// The year assumed for undated notices defaults to the given year.
func DefaultAppSettings(year int) AppSettings {
	return AppSettings{
		Sync: SyncSettings{
			DataDir: DefaultDataDir,
		},
		Embedding: EmbeddingSettings{
			Provider:   AIProviderOllama,
			Model:      DefaultEmbeddingModel,
			BaseURL:    AIProviderOllama.DefaultBaseURL(),
			Dimensions: 384,
			BatchSize:  DefaultBatchSize,
		},
		LLM: LLMSettings{
			Provider: AIProviderGroq,
			Model:    DefaultLLMModel,
			BaseURL:  AIProviderGroq.DefaultBaseURL(),
			Timeout:  DefaultLLMTimeout,
		},
		Index: IndexSettings{
			Backend: IndexBackendSQLite,
		},
		Retrieval: RetrievalSettings{
			TopK: DefaultTopK,
		},
		Assistant: AssistantSettings{
			Institution: DefaultInstitution,
			DefaultYear: year,
		},
		Server: ServerSettings{
			Addr:        DefaultServerAddr,
			CORSOrigins: DefaultCORSOrigins,
		},
		Pipeline: DefaultPipelineConfig(),
	}
}

// AllEmbeddingProviders lists the providers offered for embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{AIProviderOllama, AIProviderOpenAI}
}

// AllLLMProviders lists the completion providers, the default first.
func AllLLMProviders() []AIProvider {
	return []AIProvider{AIProviderGroq, AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic}
}

// DefaultEmbeddingModels maps each embedding provider to the model used
// when none is configured.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "all-minilm",
		AIProviderOpenAI: "text-embedding-3-small",
	}
}

// DefaultLLMModels maps each completion provider to its default model.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderGroq:      "llama-3.3-70b-versatile",
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-sonnet-latest",
	}
}

// EmbeddingDimensions gives the native vector size of well-known models.
// Other models need embedding.dimensions set explicitly.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		"all-minilm":             384,
		"nomic-embed-text":       768,
		"mxbai-embed-large":      1024,
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}

// PipelineConfig names the post-processors run on each document, in
// order, with options keyed by processor name.
type PipelineConfig struct {
	Processors       []string
	ProcessorConfigs map[string]map[string]any
}

// GetProcessorConfig returns nil for a processor without options.
func (c *PipelineConfig) GetProcessorConfig(name string) map[string]any {
	if c.ProcessorConfigs == nil {
		return nil
	}
	return c.ProcessorConfigs[name]
}

// DefaultPipelineConfig chunks with the default size and overlap.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		Processors: []string{"chunker"},
		ProcessorConfigs: map[string]map[string]any{
			"chunker": {
				"chunk_size": DefaultChunkSize,
				"overlap":    DefaultChunkOverlap,
			},
		},
	}
}
