// Package session tracks the lifecycle of herald's single messaging
// session. A Machine consumes gateway lifecycle events in arrival order and
// derives the one authoritative connection state that gates broadcasts and
// room listing.
package session

import (
	"context"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
)

// State names the four lifecycle phases. Exactly one holds at any time.
type State int

const (
	// StateDisconnected is the initial state and the state after any drop.
	StateDisconnected State = iota
	// StateAwaitingPairing means a pairing code is on display, waiting to
	// be scanned.
	StateAwaitingPairing
	// StateAuthenticating means the handshake completed but session sync
	// has not finished yet.
	StateAuthenticating
	// StateConnected means the session is usable for sends and room fetches.
	StateConnected
)

// String returns a human-readable state name.
func (s State) String() string {
	switch s {
	case StateAwaitingPairing:
		return "awaiting-pairing"
	case StateAuthenticating:
		return "authenticating"
	case StateConnected:
		return "connected"
	default:
		return "disconnected"
	}
}

// malformedCodePrefix is a transport quirk: some bridge builds prepend this
// literal to the pairing payload. It is stripped before the code is stored.
const malformedCodePrefix = "undefined,"

// Snapshot is an immutable view of the session state. PairingCode is empty
// unless the machine is awaiting pairing.
type Snapshot struct {
	Connected      bool
	Authenticating bool
	PairingCode    string
}

// Machine is the session lifecycle state machine. It has no terminal state
// and cycles between all four states for the process lifetime. Transitions
// are applied by a single consumer goroutine (Run); reads go through
// Snapshot.
type Machine struct {
	mu    sync.Mutex
	state State
	code  string
}

// NewMachine returns a Machine in StateDisconnected with no pairing code.
func NewMachine() *Machine {
	return &Machine{state: StateDisconnected}
}

// Run consumes events until the channel closes or ctx is cancelled. Events
// are applied strictly in arrival order.
func (m *Machine) Run(ctx context.Context, events <-chan Event) {
	for {
		select {
		case <-ctx.Done():
			return
		case e, ok := <-events:
			if !ok {
				return
			}
			m.Apply(e)
		}
	}
}

// Apply performs one state transition. The machine itself cannot fail; it
// only reflects upstream gateway signals.
func (m *Machine) Apply(e Event) {
	m.mu.Lock()
	defer m.mu.Unlock()

	prev := m.state
	switch e.Type {
	case EventPairingCode:
		m.state = StateAwaitingPairing
		m.code = strings.TrimPrefix(e.Code, malformedCodePrefix)
	case EventAuthenticated:
		m.state = StateAuthenticating
		m.code = ""
	case EventAuthFailed:
		m.state = StateDisconnected
		m.code = ""
		log.Error().Str("reason", e.Reason).Msg("session authentication failed")
	case EventReady:
		m.state = StateConnected
		m.code = ""
	case EventDisconnected:
		m.state = StateDisconnected
		m.code = ""
		log.Warn().Str("reason", e.Reason).Msg("session disconnected")
	default:
		log.Warn().Stringer("event", e.Type).Msg("ignoring unknown session event")
		return
	}

	log.Info().
		Stringer("event", e.Type).
		Stringer("from", prev).
		Stringer("to", m.state).
		Msg("session state transition")
}

// Snapshot returns the current state as the connected/authenticating/code
// triple the status API reports. Safe to call at any time, including before
// the first event.
func (m *Machine) Snapshot() Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return Snapshot{
		Connected:      m.state == StateConnected,
		Authenticating: m.state == StateAuthenticating,
		PairingCode:    m.code,
	}
}

// State returns the current lifecycle phase.
func (m *Machine) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}
