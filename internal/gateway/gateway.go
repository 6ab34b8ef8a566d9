// Package gateway defines the contract herald uses to talk to the messaging
// network. Implementations own one long-lived connection, emit lifecycle
// events on a single FIFO stream, and expose text sending and room listing.
package gateway

import (
	"context"
	"errors"
	"fmt"

	"github.com/pbittencourt/herald/internal/session"
)

// Room is a group-type chat room visible to the connected account.
type Room struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Gateway is one long-lived connection to the messaging network.
type Gateway interface {
	// Connect starts the connection manager. Dial failures after a
	// successful start are retried internally and surfaced as disconnected
	// events, not errors.
	Connect(ctx context.Context) error

	// Events returns the lifecycle event stream consumed by the session
	// state machine. Events are delivered in arrival order, never
	// concurrently. The channel is closed by Close.
	Events() <-chan session.Event

	// SendText delivers text to one target room. No retry: retry policy
	// belongs to the caller. Failures are reported as *SendError.
	SendText(ctx context.Context, targetID, text string) error

	// FetchRooms lists group-type rooms. It enforces a hard timeout and
	// fails with ErrFetchTimeout rather than hang; the underlying
	// transport has no native bound.
	FetchRooms(ctx context.Context) ([]Room, error)

	// Close shuts down the connection and the event stream.
	Close() error
}

// ErrNotConnected is returned when an operation needs an active session.
var ErrNotConnected = errors.New("gateway: not connected")

// ErrFetchTimeout is returned when a room fetch exceeds its bound.
var ErrFetchTimeout = errors.New("gateway: fetch rooms timed out")

// SendError wraps a transport failure for a single target.
type SendError struct {
	Target string
	Err    error
}

func (e *SendError) Error() string {
	return fmt.Sprintf("gateway: send to %s: %v", e.Target, e.Err)
}

func (e *SendError) Unwrap() error { return e.Err }
