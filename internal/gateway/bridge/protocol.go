package bridge

import "github.com/pbittencourt/herald/internal/gateway"

// Operations herald sends to the sidecar.
const (
	opHello      = "hello"
	opSend       = "send"
	opFetchRooms = "fetch_rooms"
)

// Lifecycle events the sidecar sends to herald. These mirror the
// whatsapp-web.js client events the sidecar subscribes to.
const (
	evQR            = "qr"
	evAuthenticated = "authenticated"
	evAuthFailure   = "auth_failure"
	evReady         = "ready"
	evDisconnected  = "disconnected"
)

// frame is one JSON message on the bridge socket, in either direction.
// Commands carry ID and Op; replies echo the ID with OK/Error; lifecycle
// frames carry Event and have no ID.
type frame struct {
	ID     string         `json:"id,omitempty"`
	Op     string         `json:"op,omitempty"`
	Event  string         `json:"event,omitempty"`
	Target string         `json:"target,omitempty"`
	Text   string         `json:"text,omitempty"`
	Code   string         `json:"code,omitempty"`
	Reason string         `json:"reason,omitempty"`
	Token  string         `json:"token,omitempty"`
	OK     bool           `json:"ok,omitempty"`
	Error  string         `json:"error,omitempty"`
	Rooms  []gateway.Room `json:"rooms,omitempty"`
}
