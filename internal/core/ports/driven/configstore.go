package driven

import "time"

// ConfigStore provides access to application configuration under
// dot-separated keys such as "llm.provider".
// Implementations handle persistence (e.g., TOML files) and type conversion.
type ConfigStore interface {
	// Get retrieves a configuration value by key.
	// Returns the value and a boolean indicating if the key exists.
	Get(key string) (any, bool)

	// GetString retrieves a string value, or "" if missing.
	GetString(key string) string

	// GetInt retrieves an integer value, or 0 if missing or not numeric.
	GetInt(key string) int

	// GetBool retrieves a boolean value, or false if missing.
	GetBool(key string) bool

	// GetDuration retrieves a duration written as "90s"/"1h" or as whole seconds.
	GetDuration(key string) time.Duration

	// Set stores a configuration value and persists it immediately.
	Set(key string, value any) error

	// Load reads configuration from storage.
	Load() error

	// Path returns the configuration file path.
	Path() string
}
