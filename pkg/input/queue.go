// Package input collects operator text lines for the transmitting device.
package input

import (
	"context"
	"strings"
)

// LineSource yields complete lines without blocking.
type LineSource interface {
	// TryLine returns the next trimmed line, if one is ready.
	TryLine() (string, bool)
}

// DefaultQueueSize is the number of lines a Queue buffers.
const DefaultQueueSize = 16

// Queue is a LineSource fed from other goroutines.
type Queue struct {
	lines chan string
}

// NewQueue creates a Queue. size <= 0 uses DefaultQueueSize.
func NewQueue(size int) *Queue {
	if size <= 0 {
		size = DefaultQueueSize
	}
	return &Queue{lines: make(chan string, size)}
}

// Push queues a line, waiting for room until ctx is done.
func (q *Queue) Push(ctx context.Context, line string) error {
	select {
	case q.lines <- line:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// TryLine implements LineSource.
func (q *Queue) TryLine() (string, bool) {
	select {
	case line := <-q.lines:
		return strings.TrimSpace(line), true
	default:
		return "", false
	}
}
