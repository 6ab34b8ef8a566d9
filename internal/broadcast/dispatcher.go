// Package broadcast implements the fan-out dispatch engine and the send
// history it records.
package broadcast

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/pbittencourt/herald/internal/gateway"
	"github.com/pbittencourt/herald/internal/lists"
	"github.com/pbittencourt/herald/internal/models"
	"github.com/pbittencourt/herald/internal/session"
)

var (
	// ErrNotConnected is returned when the session is not in the connected
	// state. Checked before any send attempt.
	ErrNotConnected = errors.New("broadcast: session not connected")
	// ErrEmptyList is returned for a list with no member groups. No history
	// record is written in this case.
	ErrEmptyList = errors.New("broadcast: list has no groups")
	// ErrInFlight is returned when another broadcast is already running on
	// this connection.
	ErrInFlight = errors.New("broadcast: another broadcast is already running")
)

// Result summarizes one broadcast run.
type Result struct {
	Total   int `json:"total"`
	Success int `json:"success"`
}

// outcome pairs one target with its send result, making the
// swallow-and-continue policy an explicit accumulation step.
type outcome struct {
	target string
	err    error
}

// Dispatcher runs best-effort fan-out sends over the single gateway
// connection. At most one broadcast runs at a time; a second call while one
// is in flight fails fast with ErrInFlight.
type Dispatcher struct {
	db      *gorm.DB
	gw      gateway.Gateway
	machine *session.Machine
	mu      sync.Mutex // single-flight guard
}

// New creates a Dispatcher.
func New(db *gorm.DB, gw gateway.Gateway, machine *session.Machine) *Dispatcher {
	return &Dispatcher{db: db, gw: gw, machine: machine}
}

// Broadcast sends content to every member room of the list, in the stable
// name order the store returns. A send failure for one member is logged and
// does not abort the run. Exactly one MessageLog row is written once all
// sends have been attempted; nothing is written if no send was attempted.
func (d *Dispatcher) Broadcast(ctx context.Context, listID uint, content, sentBy string) (Result, error) {
	if !d.machine.Snapshot().Connected {
		return Result{}, ErrNotConnected
	}
	if !d.mu.TryLock() {
		return Result{}, ErrInFlight
	}
	defer d.mu.Unlock()

	list, err := lists.Get(d.db, listID)
	if err != nil {
		return Result{}, err
	}
	groups, err := lists.Groups(d.db, listID)
	if err != nil {
		return Result{}, err
	}
	if len(groups) == 0 {
		return Result{}, ErrEmptyList
	}

	runID := uuid.NewString()
	log.Info().
		Str("run", runID).
		Str("list", list.Name).
		Int("targets", len(groups)).
		Msg("broadcast started")

	outcomes := make([]outcome, 0, len(groups))
	for _, g := range groups {
		err := d.gw.SendText(ctx, g.ExternalRoomID, content)
		if err != nil {
			log.Warn().
				Str("run", runID).
				Str("target", g.ExternalRoomID).
				Err(err).
				Msg("broadcast send failed")
		}
		outcomes = append(outcomes, outcome{target: g.ExternalRoomID, err: err})
	}

	success := 0
	for _, o := range outcomes {
		if o.err == nil {
			success++
		}
	}
	result := Result{Total: len(outcomes), Success: success}

	listID = list.ID
	entry := models.MessageLog{
		ListID:      &listID,
		ListName:    list.Name,
		Content:     content,
		SentBy:      sentBy,
		TotalGroups: result.Total,
		Success:     result.Success,
	}
	if err := d.db.Create(&entry).Error; err != nil {
		return result, fmt.Errorf("broadcast: record history: %w", err)
	}

	log.Info().
		Str("run", runID).
		Str("list", list.Name).
		Int("total", result.Total).
		Int("success", result.Success).
		Msg("broadcast finished")
	return result, nil
}
