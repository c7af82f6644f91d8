package services

import (
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/campusnotice/noticeagent/internal/core/domain"
	"github.com/campusnotice/noticeagent/internal/core/ports/driven"
	"github.com/campusnotice/noticeagent/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyDataDir         = "sync.data_dir"
	keySyncInterval    = "sync.interval"
	keySyncWatch       = "sync.watch"
	keyEmbedProvider   = "embedding.provider"
	keyEmbedModel      = "embedding.model"
	keyEmbedBaseURL    = "embedding.base_url"
	keyEmbedAPIKey     = "embedding.api_key"
	keyEmbedDims       = "embedding.dimensions"
	keyEmbedBatchSize  = "embedding.batch_size"
	keyLLMProvider     = "llm.provider"
	keyLLMModel        = "llm.model"
	keyLLMBaseURL      = "llm.base_url"
	keyLLMAPIKey       = "llm.api_key"
	keyLLMTimeout      = "llm.timeout"
	keyIndexBackend    = "index.backend"
	keyIndexDSN        = "index.dsn"
	keyTopK            = "retrieval.top_k"
	keyChunkSize       = "chunker.chunk_size"
	keyChunkOverlap    = "chunker.overlap"
	keyInstitution     = "assistant.institution"
	keyDefaultYear     = "assistant.default_year"
	keyServerAddr      = "server.addr"
	keyServerCORS      = "server.cors_origins"
	chunkerProcessorID = "chunker"
)

// settingKind selects how a value is validated and stored.
type settingKind int

const (
	kindString settingKind = iota
	kindPositiveInt
	kindBool
	kindDuration
	kindEmbeddingProvider
	kindLLMProvider
	kindIndexBackend
)

// setting describes one configurable key.
type setting struct {
	key         string
	kind        settingKind
	secret      bool
	description string
	value       func(*domain.AppSettings) string
}

// settingTable lists every key in display order.
var settingTable = []setting{
	{keyDataDir, kindString, false, "Directory scanned for notices (PDF) and updates (TXT/MD)",
		func(s *domain.AppSettings) string { return s.Sync.DataDir }},
	{keySyncInterval, kindDuration, false, "Scheduled re-sync period while serving, 0 disables",
		func(s *domain.AppSettings) string { return s.Sync.Interval.String() }},
	{keySyncWatch, kindBool, false, "Re-sync when the data directory changes while serving",
		func(s *domain.AppSettings) string { return strconv.FormatBool(s.Sync.Watch) }},
	{keyEmbedProvider, kindEmbeddingProvider, false, "Embedding provider (ollama, openai)",
		func(s *domain.AppSettings) string { return s.Embedding.Provider.String() }},
	{keyEmbedModel, kindString, false, "Embedding model",
		func(s *domain.AppSettings) string { return s.Embedding.Model }},
	{keyEmbedBaseURL, kindString, false, "Embedding API endpoint",
		func(s *domain.AppSettings) string { return s.Embedding.BaseURL }},
	{keyEmbedAPIKey, kindString, true, "Embedding API key",
		func(s *domain.AppSettings) string { return s.Embedding.APIKey }},
	{keyEmbedDims, kindPositiveInt, false, "Embedding vector size",
		func(s *domain.AppSettings) string { return strconv.Itoa(s.Embedding.Dimensions) }},
	{keyEmbedBatchSize, kindPositiveInt, false, "Passages embedded per request during sync",
		func(s *domain.AppSettings) string { return strconv.Itoa(s.Embedding.BatchSize) }},
	{keyLLMProvider, kindLLMProvider, false, "Completion provider (groq, ollama, openai, anthropic)",
		func(s *domain.AppSettings) string { return s.LLM.Provider.String() }},
	{keyLLMModel, kindString, false, "Completion model",
		func(s *domain.AppSettings) string { return s.LLM.Model }},
	{keyLLMBaseURL, kindString, false, "Completion API endpoint",
		func(s *domain.AppSettings) string { return s.LLM.BaseURL }},
	{keyLLMAPIKey, kindString, true, "Completion API key",
		func(s *domain.AppSettings) string { return s.LLM.APIKey }},
	{keyLLMTimeout, kindDuration, false, "Deadline for one completion call",
		func(s *domain.AppSettings) string { return s.LLM.Timeout.String() }},
	{keyIndexBackend, kindIndexBackend, false, "Vector index backend (memory, sqlite, pgvector)",
		func(s *domain.AppSettings) string { return string(s.Index.Backend) }},
	{keyIndexDSN, kindString, true, "Postgres connection string for the pgvector backend",
		func(s *domain.AppSettings) string { return s.Index.DSN }},
	{keyTopK, kindPositiveInt, false, "Passages assembled into the answer context",
		func(s *domain.AppSettings) string { return strconv.Itoa(s.Retrieval.TopK) }},
	{keyChunkSize, kindPositiveInt, false, "Maximum passage length in characters",
		func(s *domain.AppSettings) string { return chunkerValue(s, "chunk_size") }},
	{keyChunkOverlap, kindPositiveInt, false, "Characters shared by adjacent passages",
		func(s *domain.AppSettings) string { return chunkerValue(s, "overlap") }},
	{keyInstitution, kindString, false, "Institution named in the assistant persona",
		func(s *domain.AppSettings) string { return s.Assistant.Institution }},
	{keyDefaultYear, kindPositiveInt, false, "Year assumed when a notice omits it",
		func(s *domain.AppSettings) string { return strconv.Itoa(s.Assistant.DefaultYear) }},
	{keyServerAddr, kindString, false, "HTTP listen address",
		func(s *domain.AppSettings) string { return s.Server.Addr }},
	{keyServerCORS, kindString, false, "Comma-separated CORS origins",
		func(s *domain.AppSettings) string { return s.Server.CORSOrigins }},
}

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	aiValidator driven.AIConfigValidator
	now         func() time.Time
}

// NewSettingsService creates a new settings service. aiValidator may be nil.
func NewSettingsService(configStore driven.ConfigStore, aiValidator driven.AIConfigValidator) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		aiValidator: aiValidator,
		now:         time.Now,
	}
}

// Get retrieves current application settings with defaults applied.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := s.GetDefaults()

	embedProvider, err := s.getProvider(keyEmbedProvider, defaults.Embedding.Provider)
	if err != nil {
		return nil, err
	}
	llmProvider, err := s.getProvider(keyLLMProvider, defaults.LLM.Provider)
	if err != nil {
		return nil, err
	}
	backend := domain.IndexBackend(s.getString(keyIndexBackend, string(defaults.Index.Backend)))
	if !backend.IsValid() {
		return nil, fmt.Errorf("%s: %w: %q", keyIndexBackend, domain.ErrUnsupportedType, backend)
	}

	embedModel := s.getString(keyEmbedModel, defaultModel(domain.DefaultEmbeddingModels(), embedProvider,
		defaults.Embedding.Model))
	dims := s.getInt(keyEmbedDims, 0)
	if dims == 0 {
		dims = domain.EmbeddingDimensions()[embedModel]
	}

	settings := &domain.AppSettings{
		Sync: domain.SyncSettings{
			DataDir:  s.getString(keyDataDir, defaults.Sync.DataDir),
			Interval: s.getDuration(keySyncInterval, defaults.Sync.Interval),
			Watch:    s.getBool(keySyncWatch, defaults.Sync.Watch),
		},
		Embedding: domain.EmbeddingSettings{
			Provider:   embedProvider,
			Model:      embedModel,
			BaseURL:    s.getString(keyEmbedBaseURL, embedProvider.DefaultBaseURL()),
			APIKey:     s.configStore.GetString(keyEmbedAPIKey),
			Dimensions: dims,
			BatchSize:  s.getInt(keyEmbedBatchSize, defaults.Embedding.BatchSize),
		},
		LLM: domain.LLMSettings{
			Provider: llmProvider,
			Model:    s.getString(keyLLMModel, defaultModel(domain.DefaultLLMModels(), llmProvider, defaults.LLM.Model)),
			BaseURL:  s.getString(keyLLMBaseURL, llmProvider.DefaultBaseURL()),
			APIKey:   s.configStore.GetString(keyLLMAPIKey),
			Timeout:  s.getDuration(keyLLMTimeout, defaults.LLM.Timeout),
		},
		Index: domain.IndexSettings{
			Backend: backend,
			DSN:     s.configStore.GetString(keyIndexDSN),
		},
		Retrieval: domain.RetrievalSettings{
			TopK: s.getInt(keyTopK, defaults.Retrieval.TopK),
		},
		Assistant: domain.AssistantSettings{
			Institution: s.getString(keyInstitution, defaults.Assistant.Institution),
			DefaultYear: s.getInt(keyDefaultYear, defaults.Assistant.DefaultYear),
		},
		Server: domain.ServerSettings{
			Addr:        s.getString(keyServerAddr, defaults.Server.Addr),
			CORSOrigins: s.getString(keyServerCORS, defaults.Server.CORSOrigins),
		},
		Pipeline: defaults.Pipeline,
	}

	chunker := settings.Pipeline.GetProcessorConfig(chunkerProcessorID)
	if chunker != nil {
		chunker["chunk_size"] = s.getInt(keyChunkSize, domain.DefaultChunkSize)
		chunker["overlap"] = s.getInt(keyChunkOverlap, domain.DefaultChunkOverlap)
	}

	return settings, nil
}

// Set validates and persists a single setting.
func (s *SettingsService) Set(key, value string) error {
	def, ok := lookupSetting(key)
	if !ok {
		return fmt.Errorf("%w: unknown setting %q", domain.ErrInvalidInput, key)
	}

	parsed, err := parseSetting(def, strings.TrimSpace(value))
	if err != nil {
		return fmt.Errorf("%w: %s: %w", domain.ErrInvalidInput, key, err)
	}

	if err := s.configStore.Set(key, parsed); err != nil {
		return fmt.Errorf("save %s: %w", key, err)
	}
	return nil
}

// Entries lists every known setting with its effective value.
// Secrets are masked. If the stored configuration is invalid the
// defaults are shown.
func (s *SettingsService) Entries() []driving.SettingEntry {
	settings, err := s.Get()
	if err != nil {
		defaults := s.GetDefaults()
		settings = &defaults
	}

	entries := make([]driving.SettingEntry, 0, len(settingTable))
	for _, def := range settingTable {
		value := def.value(settings)
		if def.secret {
			value = maskSecret(value)
		}
		entries = append(entries, driving.SettingEntry{
			Key:         def.key,
			Value:       value,
			Description: def.description,
		})
	}
	return entries
}

// GetDefaults returns default settings. The assumed year is the current year.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings(s.now().Year())
}

// ValidateEmbeddingConfig validates the current embedding configuration by pinging the provider.
func (s *SettingsService) ValidateEmbeddingConfig(ctx context.Context) error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateEmbedding(ctx, &settings.Embedding)
}

// ValidateLLMConfig validates the current LLM configuration by pinging the provider.
func (s *SettingsService) ValidateLLMConfig(ctx context.Context) error {
	if s.aiValidator == nil {
		return nil
	}
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return s.aiValidator.ValidateLLM(ctx, &settings.LLM)
}

func lookupSetting(key string) (setting, bool) {
	i := slices.IndexFunc(settingTable, func(def setting) bool { return def.key == key })
	if i < 0 {
		return setting{}, false
	}
	return settingTable[i], true
}

// parseSetting converts text to the value stored in the config file.
func parseSetting(def setting, value string) (any, error) {
	switch def.kind {
	case kindPositiveInt:
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("expected a positive integer, got %q", value)
		}
		return n, nil

	case kindBool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return nil, fmt.Errorf("expected true or false, got %q", value)
		}
		return b, nil

	case kindDuration:
		d, err := time.ParseDuration(value)
		if err != nil || d < 0 {
			return nil, fmt.Errorf("expected a duration such as 30s or 1h, got %q", value)
		}
		return d.String(), nil

	case kindEmbeddingProvider:
		p := domain.AIProvider(strings.ToLower(value))
		if !slices.Contains(domain.AllEmbeddingProviders(), p) {
			return nil, fmt.Errorf("provider %q does not support embeddings", value)
		}
		return p.String(), nil

	case kindLLMProvider:
		p := domain.AIProvider(strings.ToLower(value))
		if !slices.Contains(domain.AllLLMProviders(), p) {
			return nil, fmt.Errorf("unknown LLM provider %q", value)
		}
		return p.String(), nil

	case kindIndexBackend:
		b := domain.IndexBackend(strings.ToLower(value))
		if !b.IsValid() {
			return nil, fmt.Errorf("unknown index backend %q", value)
		}
		return string(b), nil

	default:
		return value, nil
	}
}

func (s *SettingsService) getProvider(key string, def domain.AIProvider) (domain.AIProvider, error) {
	p := domain.AIProvider(strings.ToLower(s.getString(key, def.String())))
	if !p.IsValid() {
		return "", fmt.Errorf("%s: %w: %q", key, domain.ErrUnsupportedType, p)
	}
	return p, nil
}

func (s *SettingsService) getString(key, def string) string {
	if v := s.configStore.GetString(key); v != "" {
		return v
	}
	return def
}

func (s *SettingsService) getInt(key string, def int) int {
	if v := s.configStore.GetInt(key); v > 0 {
		return v
	}
	return def
}

func (s *SettingsService) getBool(key string, def bool) bool {
	if _, ok := s.configStore.Get(key); ok {
		return s.configStore.GetBool(key)
	}
	return def
}

func (s *SettingsService) getDuration(key string, def time.Duration) time.Duration {
	if _, ok := s.configStore.Get(key); ok {
		return s.configStore.GetDuration(key)
	}
	return def
}

// defaultModel picks the provider's default model, falling back to def.
func defaultModel(models map[domain.AIProvider]string, p domain.AIProvider, def string) string {
	if m, ok := models[p]; ok {
		return m
	}
	return def
}

func chunkerValue(s *domain.AppSettings, key string) string {
	cfg := s.Pipeline.GetProcessorConfig(chunkerProcessorID)
	if v, ok := cfg[key].(int); ok {
		return strconv.Itoa(v)
	}
	return ""
}

// maskSecret shows only the last four characters of a secret.
func maskSecret(v string) string {
	if v == "" {
		return ""
	}
	if len(v) <= 4 {
		return "****"
	}
	return "****" + v[len(v)-4:]
}
