// Package bridge implements the gateway contract over a websocket link to
// the whatsapp-web.js sidecar. The sidecar owns the browser session; herald
// drives it with JSON command frames and receives lifecycle events on the
// same socket.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/pbittencourt/herald/internal/gateway"
	"github.com/pbittencourt/herald/internal/session"
)

const (
	// baseBackoff is the initial redial delay after a socket drop.
	baseBackoff = 2 * time.Second
	// maxBackoff caps the exponential redial backoff.
	maxBackoff = 2 * time.Minute
	// defaultFetchTimeout bounds FetchRooms when no timeout is configured.
	defaultFetchTimeout = 15 * time.Second
	// eventBuffer sizes the lifecycle event queue.
	eventBuffer = 16
)

// conn abstracts the websocket methods the adapter uses, enabling test fakes.
type conn interface {
	ReadJSON(v interface{}) error
	WriteJSON(v interface{}) error
	Close() error
}

type dialFunc func(ctx context.Context, url string) (conn, error)

func gorillaDial(ctx context.Context, url string) (conn, error) {
	c, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Adapter implements gateway.Gateway over the bridge websocket.
type Adapter struct {
	url          string
	credsDir     string
	fetchTimeout time.Duration
	dial         dialFunc

	events chan session.Event

	mu      sync.Mutex
	ws      conn
	pending map[string]chan frame
	started bool
	closed  bool
	cancel  context.CancelFunc
	done    chan struct{}

	wmu sync.Mutex // serializes websocket writes
}

// Opts holds parameters for creating a bridge Adapter.
type Opts struct {
	URL            string        // websocket URL of the sidecar
	CredentialsDir string        // where the session token is persisted
	FetchTimeout   time.Duration // bound for FetchRooms; defaults to 15s
}

// New creates a bridge Adapter. It does not dial until Connect.
func New(opts Opts) (*Adapter, error) {
	if opts.URL == "" {
		return nil, fmt.Errorf("bridge: url is required")
	}
	timeout := opts.FetchTimeout
	if timeout <= 0 {
		timeout = defaultFetchTimeout
	}
	return &Adapter{
		url:          opts.URL,
		credsDir:     opts.CredentialsDir,
		fetchTimeout: timeout,
		dial:         gorillaDial,
		events:       make(chan session.Event, eventBuffer),
		pending:      map[string]chan frame{},
	}, nil
}

// Connect starts the connection manager goroutine. Dial failures are
// retried with capped exponential backoff and surfaced as disconnected
// events rather than returned, so a slow sidecar never blocks startup.
func (a *Adapter) Connect(ctx context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return fmt.Errorf("bridge: adapter closed")
	}
	if a.started {
		return nil
	}
	a.started = true
	runCtx, cancel := context.WithCancel(ctx)
	a.cancel = cancel
	a.done = make(chan struct{})
	go a.run(runCtx)
	return nil
}

// Events returns the lifecycle event stream.
func (a *Adapter) Events() <-chan session.Event {
	return a.events
}

// SendText delivers text to one target room via the sidecar. Transport
// rejections and timeouts come back as *gateway.SendError; there is no
// retry here.
func (a *Adapter) SendText(ctx context.Context, targetID, text string) error {
	reply, err := a.roundTrip(ctx, frame{Op: opSend, Target: targetID, Text: text})
	if err != nil {
		return &gateway.SendError{Target: targetID, Err: err}
	}
	if !reply.OK {
		return &gateway.SendError{Target: targetID, Err: errors.New(reply.Error)}
	}
	log.Debug().Str("target", targetID).Msg("bridge send acknowledged")
	return nil
}

// FetchRooms lists group-type rooms, bounded by the configured timeout.
func (a *Adapter) FetchRooms(ctx context.Context) ([]gateway.Room, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, a.fetchTimeout)
	defer cancel()

	reply, err := a.roundTrip(fetchCtx, frame{Op: opFetchRooms})
	if errors.Is(err, context.DeadlineExceeded) {
		return nil, gateway.ErrFetchTimeout
	}
	if err != nil {
		return nil, fmt.Errorf("bridge: fetch rooms: %w", err)
	}
	if !reply.OK {
		return nil, fmt.Errorf("bridge: fetch rooms: %s", reply.Error)
	}
	return reply.Rooms, nil
}

// Close shuts down the connection manager and closes the event stream.
func (a *Adapter) Close() error {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return nil
	}
	a.closed = true
	cancel := a.cancel
	ws := a.ws
	done := a.done
	a.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if ws != nil {
		ws.Close()
	}
	if done != nil {
		<-done
	}
	close(a.events)
	return nil
}

// run is the connection manager: dial, pump frames, redial on drop.
func (a *Adapter) run(ctx context.Context) {
	defer close(a.done)

	backoff := baseBackoff
	for {
		if ctx.Err() != nil {
			return
		}
		ws, err := a.dial(ctx, a.url)
		if err != nil {
			log.Warn().Err(err).Dur("backoff", backoff).Msg("bridge dial failed; retrying")
			select {
			case <-ctx.Done():
				return
			case <-time.After(backoff):
			}
			backoff *= 2
			if backoff > maxBackoff {
				backoff = maxBackoff
			}
			continue
		}
		backoff = baseBackoff

		a.mu.Lock()
		a.ws = ws
		a.mu.Unlock()

		a.sendHello(ws)
		log.Info().Str("url", a.url).Msg("bridge connected")

		a.readLoop(ctx, ws)

		ws.Close()
		a.mu.Lock()
		if a.ws == ws {
			a.ws = nil
		}
		a.failPendingLocked("bridge connection lost")
		a.mu.Unlock()

		if ctx.Err() != nil {
			return
		}
		a.emit(ctx, session.Event{Type: session.EventDisconnected, Reason: "bridge socket closed"})
	}
}

// sendHello presents the stored session token so the sidecar can resume the
// session instead of issuing a new pairing code.
func (a *Adapter) sendHello(ws conn) {
	token, err := LoadToken(a.credsDir)
	if err != nil {
		log.Warn().Err(err).Msg("could not load session credentials")
	}
	if err := a.writeFrame(ws, frame{Op: opHello, Token: token}); err != nil {
		log.Warn().Err(err).Msg("bridge hello failed")
	}
}

// readLoop pumps frames off one socket until it errors or closes.
func (a *Adapter) readLoop(ctx context.Context, ws conn) {
	for {
		var f frame
		if err := ws.ReadJSON(&f); err != nil {
			if ctx.Err() == nil {
				log.Warn().Err(err).Msg("bridge read failed; reconnecting")
			}
			return
		}
		switch {
		case f.Event != "":
			a.handleEvent(ctx, f)
		case f.ID != "":
			a.mu.Lock()
			ch, ok := a.pending[f.ID]
			if ok {
				delete(a.pending, f.ID)
			}
			a.mu.Unlock()
			if ok {
				ch <- f
			}
		}
	}
}

// handleEvent translates a sidecar lifecycle frame into a session event.
// Pairing payload sanitization is the state machine's job; the raw code is
// passed through.
func (a *Adapter) handleEvent(ctx context.Context, f frame) {
	switch f.Event {
	case evQR:
		a.emit(ctx, session.Event{Type: session.EventPairingCode, Code: f.Code})
	case evAuthenticated:
		a.saveToken(f.Token)
		a.emit(ctx, session.Event{Type: session.EventAuthenticated})
	case evAuthFailure:
		a.emit(ctx, session.Event{Type: session.EventAuthFailed, Reason: f.Reason})
	case evReady:
		a.saveToken(f.Token)
		a.emit(ctx, session.Event{Type: session.EventReady})
	case evDisconnected:
		a.emit(ctx, session.Event{Type: session.EventDisconnected, Reason: f.Reason})
	default:
		log.Debug().Str("event", f.Event).Msg("ignoring unknown bridge event")
	}
}

func (a *Adapter) saveToken(token string) {
	if token == "" {
		return
	}
	if err := SaveToken(a.credsDir, token); err != nil {
		log.Warn().Err(err).Msg("could not persist session credentials")
	}
}

// emit delivers one event in order. The send blocks if the state machine
// falls behind, which preserves FIFO ordering.
func (a *Adapter) emit(ctx context.Context, e session.Event) {
	select {
	case a.events <- e:
	case <-ctx.Done():
	}
}

// roundTrip writes a command frame and waits for its correlated reply.
func (a *Adapter) roundTrip(ctx context.Context, f frame) (frame, error) {
	f.ID = uuid.NewString()
	ch := make(chan frame, 1)

	a.mu.Lock()
	ws := a.ws
	if ws == nil {
		a.mu.Unlock()
		return frame{}, gateway.ErrNotConnected
	}
	a.pending[f.ID] = ch
	a.mu.Unlock()

	if err := a.writeFrame(ws, f); err != nil {
		a.mu.Lock()
		delete(a.pending, f.ID)
		a.mu.Unlock()
		return frame{}, err
	}

	select {
	case reply := <-ch:
		return reply, nil
	case <-ctx.Done():
		a.mu.Lock()
		delete(a.pending, f.ID)
		a.mu.Unlock()
		return frame{}, ctx.Err()
	}
}

func (a *Adapter) writeFrame(ws conn, f frame) error {
	a.wmu.Lock()
	defer a.wmu.Unlock()
	return ws.WriteJSON(f)
}

// failPendingLocked answers every in-flight round trip with an error reply.
// Caller holds a.mu.
func (a *Adapter) failPendingLocked(reason string) {
	for id, ch := range a.pending {
		delete(a.pending, id)
		ch <- frame{ID: id, OK: false, Error: reason}
	}
}
