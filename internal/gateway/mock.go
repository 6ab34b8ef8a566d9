package gateway

import (
	"context"
	"errors"
	"sync"

	"github.com/pbittencourt/herald/internal/session"
)

// SentMessage records one SendText call made against a Mock.
type SentMessage struct {
	Target string
	Text   string
}

// Mock implements Gateway for testing. It records sent messages, serves a
// preset room list, and lets tests emit lifecycle events and force
// per-target send failures.
type Mock struct {
	mu        sync.Mutex
	connected bool
	closed    bool
	events    chan session.Event
	sent      []SentMessage
	rooms     []Room
	failFor   map[string]error
	fetchErr  error
}

// NewMock creates a Mock with a buffered event channel.
func NewMock() *Mock {
	return &Mock{
		events:  make(chan session.Event, 16),
		failFor: map[string]error{},
	}
}

// Connect marks the mock as connected.
func (m *Mock) Connect(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return errors.New("mock gateway: already closed")
	}
	m.connected = true
	return nil
}

// Events returns the lifecycle event channel.
func (m *Mock) Events() <-chan session.Event {
	return m.events
}

// SendText records the message, or fails if the target was registered with
// FailTarget.
func (m *Mock) SendText(ctx context.Context, targetID, text string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err, ok := m.failFor[targetID]; ok {
		return &SendError{Target: targetID, Err: err}
	}
	m.sent = append(m.sent, SentMessage{Target: targetID, Text: text})
	return nil
}

// FetchRooms returns the preset room list or the preset fetch error.
func (m *Mock) FetchRooms(ctx context.Context) ([]Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fetchErr != nil {
		return nil, m.fetchErr
	}
	out := make([]Room, len(m.rooms))
	copy(out, m.rooms)
	return out, nil
}

// Close shuts down the mock and closes the event channel.
func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true
	m.connected = false
	close(m.events)
	return nil
}

// --- Test helpers ---

// Emit pushes a lifecycle event into the stream.
func (m *Mock) Emit(e session.Event) {
	m.events <- e
}

// FailTarget makes SendText fail for the given target.
func (m *Mock) FailTarget(targetID string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failFor[targetID] = err
}

// SetRooms presets the FetchRooms response.
func (m *Mock) SetRooms(rooms []Room) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rooms = rooms
}

// SetFetchError makes FetchRooms fail with err.
func (m *Mock) SetFetchError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetchErr = err
}

// Sent returns a copy of all recorded messages.
func (m *Mock) Sent() []SentMessage {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]SentMessage, len(m.sent))
	copy(out, m.sent)
	return out
}

// SentCount returns the number of successful sends recorded.
func (m *Mock) SentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}
