package activity

import (
	"context"
	"log/slog"

	"github.com/evcraddock/showing-hive/internal/clock"
)

// Recorder records state transitions. Record never fails from the caller's
// point of view.
type Recorder interface {
	Record(ctx context.Context, propertyID string, typ Type, details Details)
}

// Appender persists events.
type Appender interface {
	Append(ctx context.Context, e *Event) error
}

// Log is a best-effort Recorder: append errors are logged and dropped.
type Log struct {
	store Appender
	clock clock.Clock
}

// NewLog creates a recorder over store stamped by clk.
func NewLog(store Appender, clk clock.Clock) *Log {
	return &Log{store: store, clock: clk}
}

// Record implements Recorder.
func (l *Log) Record(ctx context.Context, propertyID string, typ Type, details Details) {
	e := &Event{
		PropertyID: propertyID,
		Type:       typ,
		Details:    details,
		CreatedAt:  l.clock.Now(),
	}
	if err := l.store.Append(ctx, e); err != nil {
		slog.Error("recording activity", "property_id", propertyID, "type", string(typ), "err", err)
		return
	}
	slog.Debug("activity", "property_id", propertyID, "type", string(typ), "id", e.ID)
}
