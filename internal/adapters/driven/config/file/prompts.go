package file

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/custodia-labs/archivo/internal/core/domain"
	"github.com/custodia-labs/archivo/internal/core/ports/driven"
	"github.com/custodia-labs/archivo/internal/logger"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

var builtinPrompts = map[string]string{
	driven.PromptAnswer: driven.DefaultAnswerPrompt,
}

const promptReadme = `# Prompts del Archivo

Cada archivo .txt de este directorio es una plantilla para el modelo de lenguaje.

- answer.txt: presenta los documentos encontrados para una consulta.

Marcadores disponibles en answer.txt:

- {query}: la consulta del usuario
- {documents}: la lista numerada de documentos

Una plantilla sin {documents} se ignora y se usa la incluida en el programa.
Los cambios se aplican en la siguiente consulta, sin reiniciar.
Borra el archivo para volver a la plantilla original.
`

// PromptStore serves prompt templates from <dir>/<name>.txt. Files are
// re-read when their modification time changes, so edits apply without a
// restart. Missing or blank files fall back to the built-in template.
type PromptStore struct {
	dir string

	seedOnce sync.Once
	seedErr  error

	mu    sync.Mutex
	cache map[string]cachedPrompt
}

type cachedPrompt struct {
	text    string
	modTime time.Time
}

// NewPromptStore creates a store rooted at dir, defaulting to
// ~/.archivo/prompts. It does no I/O until the first Load.
func NewPromptStore(dir string) (*PromptStore, error) {
	if dir == "" {
		base, err := DefaultDir()
		if err != nil {
			return nil, fmt.Errorf("get home directory: %w", err)
		}
		dir = filepath.Join(base, "prompts")
	}
	return &PromptStore{dir: dir, cache: make(map[string]cachedPrompt)}, nil
}

// Dir returns the prompt directory.
func (s *PromptStore) Dir() string {
	return s.dir
}

// Load returns the template called name. Unknown names without a file
// return domain.ErrConfigNotFound.
func (s *PromptStore) Load(name string) (string, error) {
	s.seedOnce.Do(s.seed)
	if s.seedErr != nil {
		logger.Debug("prompt directory unavailable: %v", s.seedErr)
	}

	text, err := s.read(name)
	switch {
	case err == nil && text != "":
		return text, nil
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		logger.Warn("reading prompt %q: %v", name, err)
	}

	if builtin, ok := builtinPrompts[name]; ok {
		return builtin, nil
	}
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("load prompt %q: %w", name, domain.ErrConfigNotFound)
	}
	return "", fmt.Errorf("load prompt %q: %w", name, err)
}

// Reload drops every cached template.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	clear(s.cache)
	s.mu.Unlock()
}

// read returns the trimmed file content, using the cache while the file's
// modification time is unchanged.
func (s *PromptStore) read(name string) (string, error) {
	path := s.path(name)
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if cached, ok := s.cache[name]; ok && cached.modTime.Equal(info.ModTime()) {
		return cached.text, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(string(data))
	s.cache[name] = cachedPrompt{text: text, modTime: info.ModTime()}
	return text, nil
}

// seed creates the directory, writes the built-in templates that have no
// file yet and adds a README. Existing files are never overwritten.
func (s *PromptStore) seed() {
	if err := os.MkdirAll(s.dir, 0700); err != nil {
		s.seedErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}
	files := map[string]string{"README.md": promptReadme}
	for name, text := range builtinPrompts {
		files[name+".txt"] = text
	}
	for file, content := range files {
		path := filepath.Join(s.dir, file)
		if _, err := os.Stat(path); !errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			s.seedErr = fmt.Errorf("write %s: %w", file, err)
			return
		}
	}
}

func (s *PromptStore) path(name string) string {
	return filepath.Join(s.dir, name+".txt")
}
