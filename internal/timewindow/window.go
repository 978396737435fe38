// Package timewindow provides the half-open interval used by every booking
// decision.
package timewindow

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrEmpty is returned when a window's end does not strictly exceed its start.
var ErrEmpty = errors.New("end must be after start")

// Window is the half-open interval [Start, End).
type Window struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// New returns [start, end), rejecting zero-length and inverted ranges.
func New(start, end time.Time) (Window, error) {
	w := Window{Start: start, End: end}
	if err := w.Validate(); err != nil {
		return Window{}, err
	}
	return w, nil
}

// Starting returns [start, start+d).
func Starting(start time.Time, d time.Duration) Window {
	return Window{Start: start, End: start.Add(d)}
}

// Validate reports ErrEmpty unless End is strictly after Start.
func (w Window) Validate() error {
	if !w.End.After(w.Start) {
		return ErrEmpty
	}
	return nil
}

// Overlaps reports whether w and o share any instant. Adjacent windows,
// where one ends exactly when the other starts, do not overlap.
func (w Window) Overlaps(o Window) bool {
	return w.Start.Before(o.End) && w.End.After(o.Start)
}

// Duration returns End - Start.
func (w Window) Duration() time.Duration {
	return w.End.Sub(w.Start)
}

func (w Window) String() string {
	return fmt.Sprintf("[%s, %s)", w.Start.Format(time.RFC3339), w.End.Format(time.RFC3339))
}

// layouts accepted by Parse. Zone-less layouts are read as UTC.
var layouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

// Parse reads an ISO-8601 timestamp. Timestamps without an offset are UTC.
func Parse(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}
	for _, layout := range layouts {
		if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid timestamp %q (use ISO-8601, e.g. 2024-06-01T10:00)", s)
}
