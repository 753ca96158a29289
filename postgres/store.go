// Package postgres provides a Postgres-backed session store for the
// prior-art search pipeline.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/lib/pq"

	"github.com/deepnoodle-ai/priorart"
)

const createTableStatement = `
CREATE TABLE IF NOT EXISTS priorart_sessions (
	session_id TEXT PRIMARY KEY,
	stage      TEXT NOT NULL,
	status     TEXT NOT NULL,
	state      JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
)`

// Store is a priorart.SessionStore backed by a Postgres table. Each Put is a
// single upsert, so readers never observe a half-updated checkpoint.
type Store struct {
	db *sql.DB
}

// Open connects to Postgres with the given DSN and ensures the sessions
// table exists.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open postgres connection: %w", err)
	}
	store, err := NewStore(ctx, db)
	if err != nil {
		db.Close()
		return nil, err
	}
	return store, nil
}

// NewStore wraps an existing database handle and ensures the sessions table
// exists.
func NewStore(ctx context.Context, db *sql.DB) (*Store, error) {
	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}
	if _, err := db.ExecContext(ctx, createTableStatement); err != nil {
		return nil, fmt.Errorf("failed to create sessions table: %w", err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Create stores the initial checkpoint for a new session.
func (s *Store) Create(ctx context.Context, checkpoint *priorart.Checkpoint) error {
	return s.Put(ctx, checkpoint)
}

// Get retrieves the checkpoint for a session.
func (s *Store) Get(ctx context.Context, sessionID string) (*priorart.Checkpoint, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT stage, status, state, created_at, updated_at
		FROM priorart_sessions WHERE session_id = $1`, sessionID)

	var (
		stage     string
		status    string
		stateJSON []byte
		createdAt time.Time
		updatedAt time.Time
	)
	if err := row.Scan(&stage, &status, &stateJSON, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, priorart.NewNotFoundError(sessionID)
		}
		return nil, fmt.Errorf("failed to read session %s: %w", sessionID, err)
	}

	var state priorart.WorkflowState
	if err := json.Unmarshal(stateJSON, &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session %s state: %w", sessionID, err)
	}
	return &priorart.Checkpoint{
		SessionID: sessionID,
		Stage:     priorart.Stage(stage),
		Status:    priorart.SessionStatus(status),
		State:     &state,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}, nil
}

// Put overwrites the checkpoint for a session.
func (s *Store) Put(ctx context.Context, checkpoint *priorart.Checkpoint) error {
	stateJSON, err := json.Marshal(checkpoint.State)
	if err != nil {
		return fmt.Errorf("failed to marshal session state: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO priorart_sessions (session_id, stage, status, state, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (session_id) DO UPDATE SET
			stage = EXCLUDED.stage,
			status = EXCLUDED.status,
			state = EXCLUDED.state,
			updated_at = EXCLUDED.updated_at`,
		checkpoint.SessionID,
		string(checkpoint.Stage),
		string(checkpoint.Status),
		stateJSON,
		checkpoint.CreatedAt,
		checkpoint.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to write session %s: %w", checkpoint.SessionID, err)
	}
	return nil
}

// Delete removes a session's checkpoint.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	if _, err := s.db.ExecContext(ctx,
		`DELETE FROM priorart_sessions WHERE session_id = $1`, sessionID); err != nil {
		return fmt.Errorf("failed to delete session %s: %w", sessionID, err)
	}
	return nil
}
