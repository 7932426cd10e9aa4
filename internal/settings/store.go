// Package settings persists the user's local configuration (API keys, the
// terminal path) as a JSON document in the per-user config directory.
package settings

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"
)

const (
	AppName  = "Pulse"
	FileName = "config.json"
)

// DefaultDir is %APPDATA%\Pulse on Windows and ~/.config/Pulse elsewhere.
func DefaultDir() string {
	if runtime.GOOS == "windows" {
		if dir := os.Getenv("APPDATA"); dir != "" {
			return filepath.Join(dir, AppName)
		}
	}
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	if runtime.GOOS == "windows" {
		return filepath.Join(home, AppName)
	}
	return filepath.Join(home, ".config", AppName)
}

type Store struct {
	mu   sync.Mutex
	path string
}

// NewStore uses dir, or DefaultDir when dir is empty. The directory is created
// on first write.
func NewStore(dir string) *Store {
	if strings.TrimSpace(dir) == "" {
		dir = DefaultDir()
	}
	return &Store{path: filepath.Join(dir, FileName)}
}

func (s *Store) Path() string { return s.path }

// Load returns the stored document. A missing or unparsable file reads as empty.
func (s *Store) Load() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

// Save merges values into the stored document and returns the merged result.
func (s *Store) Save(values map[string]any) (map[string]any, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.load()
	for k, v := range values {
		current[k] = v
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return nil, fmt.Errorf("create settings dir: %w", err)
	}
	data, err := json.MarshalIndent(current, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("encode settings: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o600); err != nil {
		return nil, fmt.Errorf("write settings: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return nil, fmt.Errorf("replace settings: %w", err)
	}
	return current, nil
}

// Get returns a non-empty stored value, falling back to the environment variable
// of the same name when fallbackEnv is set.
func (s *Store) Get(key string, fallbackEnv bool) (string, bool) {
	if v, ok := s.Load()[key]; ok {
		if str := stringify(v); str != "" {
			return str, true
		}
	}
	if fallbackEnv {
		if v := os.Getenv(key); v != "" {
			return v, true
		}
	}
	return "", false
}

// Masked returns the stored document with every *_API_KEY value obscured.
func (s *Store) Masked() map[string]any {
	doc := s.Load()
	for k, v := range doc {
		if !strings.HasSuffix(k, "_API_KEY") {
			continue
		}
		if str := stringify(v); str != "" {
			doc[k] = Mask(str)
		}
	}
	return doc
}

// Keys returns the stored keys in sorted order.
func (s *Store) Keys() []string {
	doc := s.Load()
	keys := make([]string, 0, len(doc))
	for k := range doc {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Mask keeps the first and last four characters of secrets longer than eight.
func Mask(v string) string {
	if len(v) <= 8 {
		return "***"
	}
	return v[:4] + strings.Repeat("*", len(v)-8) + v[len(v)-4:]
}

func (s *Store) load() map[string]any {
	doc := map[string]any{}
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			log.WithError(err).Warn("settings: read failed, using empty config")
		}
		return doc
	}
	if err := json.Unmarshal(data, &doc); err != nil || doc == nil {
		log.WithError(err).Warn("settings: file is not valid JSON, using empty config")
		return map[string]any{}
	}
	return doc
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		if !t {
			return ""
		}
		return "true"
	default:
		return fmt.Sprint(t)
	}
}
