package file

import (
	"errors"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/campusnotice/noticeagent/internal/core/domain"
	"github.com/campusnotice/noticeagent/internal/core/ports/driven"
)

// Ensure EnvStore implements the interface.
var _ driven.ConfigStore = (*EnvStore)(nil)

// EnvPrefix prefixes environment variables that override config keys:
// "llm.api_key" is overridden by NOTICEAGENT_LLM_API_KEY.
const EnvPrefix = "NOTICEAGENT_"

// EnvStore overlays process environment on another ConfigStore.
// Lookup order: NOTICEAGENT_<KEY>, the wrapped store, then for API keys the
// provider's conventional variable (GROQ_API_KEY, OPENAI_API_KEY, ANTHROPIC_API_KEY).
// Writes go to the wrapped store.
type EnvStore struct {
	base   driven.ConfigStore
	lookup func(string) (string, bool)
}

// NewEnvStore loads the given .env files into the process environment
// (existing variables win, missing files are skipped) and wraps base.
func NewEnvStore(base driven.ConfigStore, envFiles ...string) (*EnvStore, error) {
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	return &EnvStore{base: base, lookup: os.LookupEnv}, nil
}

// EnvVar returns the override variable for key.
func EnvVar(key string) string {
	return EnvPrefix + strings.ToUpper(strings.NewReplacer(".", "_", "-", "_").Replace(key))
}

// Get retrieves a value, preferring the environment.
func (s *EnvStore) Get(key string) (any, bool) {
	if v, ok := s.lookup(EnvVar(key)); ok {
		return v, true
	}
	if v, ok := s.base.Get(key); ok && asString(v) != "" {
		return v, true
	}
	if provider := s.apiKeyProvider(key); provider != "" {
		if env := provider.APIKeyEnv(); env != "" {
			if v, ok := s.lookup(env); ok && v != "" {
				return v, true
			}
		}
	}
	return s.base.Get(key)
}

// apiKeyProvider returns the configured provider when key is "<section>.api_key".
func (s *EnvStore) apiKeyProvider(key string) domain.AIProvider {
	section, field, ok := strings.Cut(key, ".")
	if !ok || field != "api_key" {
		return ""
	}
	return domain.AIProvider(s.GetString(section + ".provider"))
}

// Source reports where the effective value of key comes from:
// an environment variable name, "config" or "default".
func (s *EnvStore) Source(key string) string {
	if _, ok := s.lookup(EnvVar(key)); ok {
		return EnvVar(key)
	}
	if v, ok := s.base.Get(key); ok && asString(v) != "" {
		return "config"
	}
	if provider := s.apiKeyProvider(key); provider != "" {
		if env := provider.APIKeyEnv(); env != "" {
			if v, ok := s.lookup(env); ok && v != "" {
				return env
			}
		}
	}
	return "default"
}

// GetString retrieves a string value.
func (s *EnvStore) GetString(key string) string {
	val, _ := s.Get(key)
	return asString(val)
}

// GetInt retrieves an integer value.
func (s *EnvStore) GetInt(key string) int {
	val, _ := s.Get(key)
	return asInt(val)
}

// GetBool retrieves a boolean value.
func (s *EnvStore) GetBool(key string) bool {
	val, _ := s.Get(key)
	return asBool(val)
}

// GetDuration retrieves a duration value.
func (s *EnvStore) GetDuration(key string) time.Duration {
	val, _ := s.Get(key)
	return asDuration(val)
}

// Set writes to the wrapped store.
func (s *EnvStore) Set(key string, value any) error {
	return s.base.Set(key, value)
}

// Load reloads the wrapped store.
func (s *EnvStore) Load() error {
	return s.base.Load()
}

// Path returns the wrapped store's path.
func (s *EnvStore) Path() string {
	return s.base.Path()
}
