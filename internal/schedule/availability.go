package schedule

import (
	"time"

	"github.com/evcraddock/showing-hive/internal/timewindow"
)

// The checks below scan the property's blocks and showings linearly. A
// property carries tens of showings, not thousands; a high-volume deployment
// should keep a per-property sorted interval structure instead.

// IsBlocked reports whether w intersects any blocked range.
func (s *State) IsBlocked(w timewindow.Window) bool {
	for _, b := range s.Blocks {
		if w.Overlaps(b.Window()) {
			return true
		}
	}
	return false
}

// HasConflict reports whether w intersects the slot of any non-declined
// showing other than exclude. Pass an empty exclude to check every showing.
func (s *State) HasConflict(w timewindow.Window, length time.Duration, exclude string) bool {
	for _, sh := range s.Showings {
		if sh.ID == exclude || !sh.Status.Active() {
			continue
		}
		if w.Overlaps(sh.Window(length)) {
			return true
		}
	}
	return false
}

// CheckAvailable returns ErrInvalidTimeRange, ErrTimeBlocked or
// ErrSchedulingConflict when w cannot be booked, and nil otherwise.
func (s *State) CheckAvailable(w timewindow.Window, length time.Duration, exclude string) error {
	if err := w.Validate(); err != nil {
		return ErrInvalidTimeRange
	}
	if s.IsBlocked(w) {
		return ErrTimeBlocked
	}
	if s.HasConflict(w, length, exclude) {
		return ErrSchedulingConflict
	}
	return nil
}

// AddBlock appends [start, end) to the blocked ranges. The range must be
// non-empty and must not overlap an existing block.
func (s *State) AddBlock(w timewindow.Window, now time.Time) (BlockedRange, error) {
	if err := w.Validate(); err != nil {
		return BlockedRange{}, ErrInvalidTimeRange
	}
	if s.IsBlocked(w) {
		return BlockedRange{}, ErrBlockOverlap
	}
	b := BlockedRange{
		PropertyID: s.PropertyID,
		Start:      w.Start,
		End:        w.End,
		CreatedAt:  now,
	}
	s.Blocks = append(s.Blocks, b)
	return b, nil
}
