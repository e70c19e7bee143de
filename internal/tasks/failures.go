package tasks

import (
	"bufio"
	"fmt"
	"os"
)

// FailureLog is the run's write-once record of unmatched queries, one per
// line, for manual follow-up. The file is truncated when opened and held for
// the duration of a run.
type FailureLog struct {
	path  string
	file  *os.File
	w     *bufio.Writer
	count int
}

// OpenFailureLog creates (or truncates) the failure log at path.
func OpenFailureLog(path string) (*FailureLog, error) {
	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open failure log: %w", err)
	}

	return &FailureLog{
		path: path,
		file: file,
		w:    bufio.NewWriter(file),
	}, nil
}

// Add appends one failed query to the log.
func (l *FailureLog) Add(query string) error {
	if _, err := fmt.Fprintln(l.w, query); err != nil {
		return fmt.Errorf("failed to write failure log: %w", err)
	}
	l.count++
	return nil
}

// Count returns the number of recorded failures.
func (l *FailureLog) Count() int {
	return l.count
}

// Path returns the log's file path.
func (l *FailureLog) Path() string {
	return l.path
}

// Close flushes and closes the log. Safe to call exactly once, on
// completion or error.
func (l *FailureLog) Close() error {
	if err := l.w.Flush(); err != nil {
		l.file.Close()
		return fmt.Errorf("failed to flush failure log: %w", err)
	}
	if err := l.file.Close(); err != nil {
		return fmt.Errorf("failed to close failure log: %w", err)
	}
	return nil
}
