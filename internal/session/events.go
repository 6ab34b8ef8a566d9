package session

// EventType enumerates the lifecycle signals emitted by the gateway.
type EventType int

const (
	// EventPairingCode carries a fresh pairing code for the operator to scan.
	EventPairingCode EventType = iota
	// EventAuthenticated means the handshake completed; session sync is
	// still in progress.
	EventAuthenticated
	// EventAuthFailed means the network rejected the stored credentials.
	EventAuthFailed
	// EventReady means the session is fully synced and usable.
	EventReady
	// EventDisconnected means the transport dropped the session.
	EventDisconnected
)

// String returns the wire-style name of the event type.
func (t EventType) String() string {
	switch t {
	case EventPairingCode:
		return "pairing-code"
	case EventAuthenticated:
		return "authenticated"
	case EventAuthFailed:
		return "auth-failed"
	case EventReady:
		return "ready"
	case EventDisconnected:
		return "disconnected"
	default:
		return "unknown"
	}
}

// Event is one lifecycle signal from the gateway. Code is set only for
// EventPairingCode; Reason only for EventAuthFailed and EventDisconnected.
type Event struct {
	Type   EventType
	Code   string
	Reason string
}
