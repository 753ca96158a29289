package priorart

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileOperationLogger is an implementation of OperationLogger that logs to a
// file. A file is created per session, formatted as newline-delimited JSON.
type FileOperationLogger struct {
	directory string
}

func NewFileOperationLogger(directory string) *FileOperationLogger {
	return &FileOperationLogger{directory: directory}
}

func (l *FileOperationLogger) sessionLogPath(sessionID string) string {
	return filepath.Join(l.directory, fmt.Sprintf("%s.jsonl", sessionID))
}

func (l *FileOperationLogger) GetOperationHistory(ctx context.Context, sessionID string) ([]*OperationLogEntry, error) {
	data, err := os.ReadFile(l.sessionLogPath(sessionID))
	if err != nil {
		return nil, err
	}
	var entries []*OperationLogEntry
	for _, line := range strings.Split(string(data), "\n") {
		if line == "" {
			continue
		}
		var entry OperationLogEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			return nil, err
		}
		entries = append(entries, &entry)
	}
	return entries, nil
}

func (l *FileOperationLogger) LogOperation(ctx context.Context, entry *OperationLogEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return err
	}
	filePath := l.sessionLogPath(entry.SessionID)
	if err := os.MkdirAll(filepath.Dir(filePath), 0755); err != nil {
		return err
	}
	f, err := os.OpenFile(filePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return err
	}
	return f.Sync()
}
