package driving

import (
	"context"

	"github.com/campusnotice/noticeagent/internal/core/domain"
)

// SettingsService manages application settings.
type SettingsService interface {
	// Get retrieves current application settings with defaults applied.
	Get() (*domain.AppSettings, error)

	// Set validates and persists a single setting.
	Set(key, value string) error

	// Entries lists every known setting with its effective value.
	Entries() []SettingEntry

	// GetDefaults returns default settings.
	GetDefaults() domain.AppSettings

	// ValidateEmbeddingConfig pings the configured embedding provider.
	ValidateEmbeddingConfig(ctx context.Context) error

	// ValidateLLMConfig pings the configured completion provider.
	ValidateLLMConfig(ctx context.Context) error
}

// SettingEntry is one configurable key.
type SettingEntry struct {
	// Key is the dotted configuration key, e.g. "llm.model".
	Key string

	// Value is the effective value as text. Secrets are masked.
	Value string

	// Description explains the setting.
	Description string
}
