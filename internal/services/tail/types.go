package tailsvc

import (
	"context"

	"github.com/rzbill/ralphmc/internal/runlog"
)

// Event is one delivered record together with its absolute position in the
// log. Index counts decoded records from the start of the file, so a
// subscriber can resume with Offset = lastIndex + 1 after a reconnect.
type Event struct {
	Index  int           `json:"index"`
	Record runlog.Record `json:"event"`
}

// Sink is implemented by transports to receive tail events.
type Sink interface {
	// Send delivers one event. A returned error ends the session.
	Send(Event) error
	// Keepalive emits a transport-level liveness frame.
	Keepalive() error
	// Flush pushes buffered frames to the client.
	Flush() error
	Context() context.Context
}

// StreamOptions controls the starting position and filtering for Stream.
type StreamOptions struct {
	// Offset is the absolute record index to resume from. Values below zero
	// are treated as zero.
	Offset int
	// Filter is an optional CEL expression evaluated per record.
	// When empty, all records are delivered.
	Filter string
}
