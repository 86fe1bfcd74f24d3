package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
)

const jsonStoreVersion = 1

type jsonDocument struct {
	Version int               `json:"version"`
	Entries map[string]string `json:"entries"`
}

// JSONStore keeps every blob as a string entry in one JSON file. The file is
// rewritten atomically on each SetBlob.
type JSONStore struct {
	path string
	doc  *jsonDocument
}

func NewJSONStore(path string) *JSONStore {
	return &JSONStore{path: path}
}

func (s *JSONStore) Init() error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0700); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	if _, err := os.Stat(s.path); err == nil {
		return fmt.Errorf("%w at %s", ErrAlreadyInitialized, s.path)
	}
	s.doc = &jsonDocument{Version: jsonStoreVersion, Entries: map[string]string{}}
	return s.save()
}

func (s *JSONStore) Load() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return ErrNotInitialized
		}
		return fmt.Errorf("failed to read storage: %w", err)
	}

	doc := &jsonDocument{}
	if err := json.Unmarshal(data, doc); err != nil {
		return fmt.Errorf("failed to parse storage: %w", err)
	}
	if doc.Version > jsonStoreVersion {
		return fmt.Errorf("storage file version %d is newer than supported version %d", doc.Version, jsonStoreVersion)
	}
	if doc.Entries == nil {
		doc.Entries = map[string]string{}
	}
	s.doc = doc
	return nil
}

func (s *JSONStore) Close() error {
	return nil
}

func (s *JSONStore) save() error {
	data, err := json.MarshalIndent(s.doc, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to serialize storage: %w", err)
	}
	if err := WriteFileAtomic(s.path, data, 0600); err != nil {
		return fmt.Errorf("failed to write storage: %w", err)
	}
	return nil
}

func (s *JSONStore) GetBlob(key string) ([]byte, bool, error) {
	if s.doc == nil {
		return nil, false, ErrNotLoaded
	}
	v, ok := s.doc.Entries[key]
	if !ok {
		return nil, false, nil
	}
	return []byte(v), true, nil
}

func (s *JSONStore) SetBlob(key string, blob []byte) error {
	if s.doc == nil {
		return ErrNotLoaded
	}
	s.doc.Entries[key] = string(blob)
	return s.save()
}

func (s *JSONStore) Keys() ([]string, error) {
	if s.doc == nil {
		return nil, ErrNotLoaded
	}
	keys := make([]string, 0, len(s.doc.Entries))
	for k := range s.doc.Entries {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys, nil
}

func (s *JSONStore) GetConfigPath() string {
	return s.path
}
