package priorart

import (
	"context"
	"sync"
	"time"

	"go.jetify.com/typeid"
)

// NewSessionID returns a new unique session identifier.
func NewSessionID() string {
	id, err := typeid.WithPrefix("sess")
	if err != nil {
		panic(err)
	}
	return id.String()
}

// Checkpoint is the persisted snapshot of a session: the workflow state plus
// the stage the engine will run next. It is designed to be fully JSON
// serializable.
type Checkpoint struct {
	SessionID string         `json:"session_id"`
	Stage     Stage          `json:"stage"`
	Status    SessionStatus  `json:"status"`
	State     *WorkflowState `json:"state"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// Copy returns a deep copy of the checkpoint.
func (c *Checkpoint) Copy() *Checkpoint {
	if c == nil {
		return nil
	}
	return &Checkpoint{
		SessionID: c.SessionID,
		Stage:     c.Stage,
		Status:    c.Status,
		State:     c.State.Copy(),
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

// SessionStore maps a session identifier to its checkpoint. Put overwrites
// atomically: a reader never observes a half-updated checkpoint. Only the
// engine and the resume dispatcher mutate a given session's entry, and only
// sequentially.
type SessionStore interface {

	// Create stores the initial checkpoint for a new session.
	Create(ctx context.Context, checkpoint *Checkpoint) error

	// Get retrieves the checkpoint for a session. Returns an error wrapping
	// ErrSessionNotFound if no entry exists.
	Get(ctx context.Context, sessionID string) (*Checkpoint, error)

	// Put overwrites the checkpoint for a session.
	Put(ctx context.Context, checkpoint *Checkpoint) error

	// Delete removes a session's checkpoint. Deleting an unknown session is
	// not an error.
	Delete(ctx context.Context, sessionID string) error
}

// MemorySessionStore is an in-memory SessionStore backed by a mutex-guarded
// map. Checkpoints are deep-copied on the way in and out so callers never
// share mutable state with the store.
type MemorySessionStore struct {
	mutex    sync.RWMutex
	sessions map[string]*Checkpoint
}

// NewMemorySessionStore creates an empty in-memory session store.
func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{sessions: map[string]*Checkpoint{}}
}

// Create stores the initial checkpoint for a new session.
func (s *MemorySessionStore) Create(ctx context.Context, checkpoint *Checkpoint) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.sessions[checkpoint.SessionID] = checkpoint.Copy()
	return nil
}

// Get retrieves the checkpoint for a session.
func (s *MemorySessionStore) Get(ctx context.Context, sessionID string) (*Checkpoint, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	checkpoint, ok := s.sessions[sessionID]
	if !ok {
		return nil, NewNotFoundError(sessionID)
	}
	return checkpoint.Copy(), nil
}

// Put overwrites the checkpoint for a session.
func (s *MemorySessionStore) Put(ctx context.Context, checkpoint *Checkpoint) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	s.sessions[checkpoint.SessionID] = checkpoint.Copy()
	return nil
}

// Delete removes a session's checkpoint.
func (s *MemorySessionStore) Delete(ctx context.Context, sessionID string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()
	delete(s.sessions, sessionID)
	return nil
}

// Len returns the number of stored sessions.
func (s *MemorySessionStore) Len() int {
	s.mutex.RLock()
	defer s.mutex.RUnlock()
	return len(s.sessions)
}
