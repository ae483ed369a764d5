package http

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Journal appends response bodies to a file, one per line.
type Journal struct {
	mu sync.Mutex
	w  io.Writer
	c  io.Closer
}

// OpenJournal opens path for appending, creating it if needed.
func OpenJournal(path string) (*Journal, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open journal: %w", err)
	}
	return &Journal{w: f, c: f}, nil
}

// NewJournal writes entries to w.
func NewJournal(w io.Writer) *Journal {
	return &Journal{w: w}
}

// Append writes body followed by a newline.
func (j *Journal) Append(body []byte) error {
	j.mu.Lock()
	defer j.mu.Unlock()

	line := make([]byte, 0, len(body)+1)
	line = append(line, body...)
	line = append(line, '\n')
	_, err := j.w.Write(line)
	return err
}

// Close closes the underlying file, if any.
func (j *Journal) Close() error {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.c == nil {
		return nil
	}
	err := j.c.Close()
	j.c = nil
	return err
}
