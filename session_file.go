package priorart

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// FileSessionStore is a file-based SessionStore that persists one JSON file
// per session under a data directory. Writes go through a temp file and
// rename so readers never observe a partially written checkpoint.
type FileSessionStore struct {
	dataDir string
	mutex   sync.Mutex
}

// NewFileSessionStore creates a file-based session store rooted at dataDir.
// An empty dataDir defaults to ~/.priorart/sessions.
func NewFileSessionStore(dataDir string) (*FileSessionStore, error) {
	if dataDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("failed to get user home directory: %w", err)
		}
		dataDir = filepath.Join(homeDir, ".priorart", "sessions")
	}
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory %s: %w", dataDir, err)
	}
	return &FileSessionStore{dataDir: dataDir}, nil
}

func (s *FileSessionStore) sessionPath(sessionID string) string {
	return filepath.Join(s.dataDir, sessionID+".json")
}

// Create stores the initial checkpoint for a new session.
func (s *FileSessionStore) Create(ctx context.Context, checkpoint *Checkpoint) error {
	return s.Put(ctx, checkpoint)
}

// Get retrieves the checkpoint for a session.
func (s *FileSessionStore) Get(ctx context.Context, sessionID string) (*Checkpoint, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	data, err := os.ReadFile(s.sessionPath(sessionID))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, NewNotFoundError(sessionID)
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}
	var checkpoint Checkpoint
	if err := json.Unmarshal(data, &checkpoint); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session %s: %w", sessionID, err)
	}
	return &checkpoint, nil
}

// Put overwrites the checkpoint for a session atomically.
func (s *FileSessionStore) Put(ctx context.Context, checkpoint *Checkpoint) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	data, err := json.MarshalIndent(checkpoint, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal checkpoint: %w", err)
	}
	path := s.sessionPath(checkpoint.SessionID)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to replace session file: %w", err)
	}
	return nil
}

// Delete removes a session's checkpoint file.
func (s *FileSessionStore) Delete(ctx context.Context, sessionID string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	if err := os.Remove(s.sessionPath(sessionID)); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to delete session file: %w", err)
	}
	return nil
}

// ListSessions returns the identifiers of all stored sessions, sorted.
func (s *FileSessionStore) ListSessions(ctx context.Context) ([]string, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	entries, err := os.ReadDir(s.dataDir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return []string{}, nil
		}
		return nil, fmt.Errorf("failed to read sessions directory: %w", err)
	}
	var ids []string
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(ids)
	return ids, nil
}
