// Package audit records who did what. Events are append-only.
package audit

import (
	"fmt"
	"time"
)

// Actor ids used when no account is responsible for an event.
const (
	SystemActor  = "SYSTEM"
	UnknownActor = "UNKNOWN"
)

// Sink receives audit events. Implementations must not fail the caller;
// delivery problems are theirs to report.
type Sink interface {
	Record(actorID, actorName, action, details string)
}

// Event is one recorded action.
type Event struct {
	Time      time.Time `json:"time"`
	ActorID   string    `json:"actor_id"`
	ActorName string    `json:"actor"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
}

// String renders the event in the classic one-line log format.
func (e Event) String() string {
	return fmt.Sprintf("[%s] userId=%s user=%s action=%s details=%s",
		e.Time.Format("2006-01-02 15:04"), e.ActorID, e.ActorName, e.Action, e.Details)
}

// Nop discards every event.
type Nop struct{}

func (Nop) Record(string, string, string, string) {}

var _ Sink = Nop{}
