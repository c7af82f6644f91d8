package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/campusnotice/noticeagent/internal/core/domain"
	"github.com/campusnotice/noticeagent/internal/core/ports/driven"
)

var _ driven.PromptStore = (*PromptStore)(nil)

const promptReadme = `# Notice Agent Prompts

answer.txt holds the prompt used to answer questions: the assistant's
persona, the truth hierarchy between official notices and updates, and
the answering rules.

Edits apply to the next command. A running server keeps its copy until
it restarts. Delete the file to get the built-in default back.

The prompt is a Go text/template and must keep these fields:

  {{.Institution}}  institution name (assistant.institution)
  {{.DefaultYear}}  year assumed when a notice omits it
  {{.Context}}      retrieved passages with their source labels
  {{.Question}}     the user's question
`

var builtinPrompts = map[string]string{
	driven.PromptAnswer: domain.DefaultAnswerPrompt,
}

// PromptStore serves prompt templates from text files in a directory,
// one file per prompt name. Missing or blank files fall back to the
// built-in templates. The directory is seeded on first use, never on
// construction.
type PromptStore struct {
	dir string

	seedOnce sync.Once
	seedErr  error

	mu     sync.RWMutex
	loaded map[string]string
}

// NewPromptStore returns a store rooted at dir, or ~/.noticeagent/prompts
// when dir is empty.
func NewPromptStore(dir string) (*PromptStore, error) {
	if dir == "" {
		base, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(base, "prompts")
	}
	return &PromptStore{dir: dir, loaded: map[string]string{}}, nil
}

// Dir is the directory prompts are read from.
func (s *PromptStore) Dir() string {
	return s.dir
}

// Load returns the named prompt. Results are cached until Reload.
func (s *PromptStore) Load(name string) (string, error) {
	s.seedOnce.Do(func() { s.seedErr = s.seed() })

	builtin, hasBuiltin := builtinPrompts[name]
	if s.seedErr != nil {
		if hasBuiltin {
			return builtin, nil
		}
		return "", fmt.Errorf("prompt directory unavailable: %w", s.seedErr)
	}

	s.mu.RLock()
	cached, ok := s.loaded[name]
	s.mu.RUnlock()
	if ok {
		return cached, nil
	}

	text, err := s.read(name)
	switch {
	case err == nil:
	case hasBuiltin:
		text = builtin
	default:
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if cached, ok := s.loaded[name]; ok {
		return cached, nil
	}
	s.loaded[name] = text
	return text, nil
}

// Reload forgets cached prompts so the next Load reads the files again.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.loaded = map[string]string{}
	s.mu.Unlock()
}

func (s *PromptStore) path(name string) string {
	return filepath.Join(s.dir, name+".txt")
}

// read returns the trimmed file contents. A blank file is an error.
func (s *PromptStore) read(name string) (string, error) {
	data, err := os.ReadFile(s.path(name))
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return "", errors.New("prompt file is empty")
	}
	return text, nil
}

// seed creates the directory and writes any built-in prompt or README
// that is not already there. Existing files are left untouched.
func (s *PromptStore) seed() error {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		return fmt.Errorf("create prompt directory: %w", err)
	}
	files := map[string]string{filepath.Join(s.dir, "README.md"): promptReadme}
	for name, text := range builtinPrompts {
		files[s.path(name)] = text + "\n"
	}
	for path, content := range files {
		if err := writeIfMissing(path, content); err != nil {
			return err
		}
	}
	return nil
}

func writeIfMissing(path, content string) error {
	if _, err := os.Stat(path); !errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err := os.WriteFile(path, []byte(content), 0600); err != nil {
		return fmt.Errorf("write %s: %w", filepath.Base(path), err)
	}
	return nil
}
