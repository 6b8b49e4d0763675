// Package clipboard provides the clipboard capability actions write to.
package clipboard

import (
	"context"
	"errors"
	"sync"

	"github.com/atotto/clipboard"
)

// ErrUnavailable is returned when no system clipboard utility is present.
var ErrUnavailable = errors.New("system clipboard unavailable")

// Writer writes text to a clipboard. Any error is a recoverable failure.
type Writer interface {
	Write(ctx context.Context, text string) error
}

// System writes to the operating system clipboard.
type System struct{}

// Write implements Writer.
func (System) Write(ctx context.Context, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if clipboard.Unsupported {
		return ErrUnavailable
	}
	return clipboard.WriteAll(text)
}

// Memory is an in-process clipboard. It backs headless sessions and tests.
type Memory struct {
	mu     sync.Mutex
	writes []string
	// Fail makes every write return this error.
	Fail error
}

// Write implements Writer.
func (m *Memory) Write(_ context.Context, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Fail != nil {
		return m.Fail
	}
	m.writes = append(m.writes, text)
	return nil
}

// Last returns the most recent write and whether there was one.
func (m *Memory) Last() (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.writes) == 0 {
		return "", false
	}
	return m.writes[len(m.writes)-1], true
}

// Writes returns every successful write in order.
func (m *Memory) Writes() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.writes...)
}
