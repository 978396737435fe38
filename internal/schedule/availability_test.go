package schedule

import (
	"errors"
	"testing"
	"time"

	"github.com/evcraddock/showing-hive/internal/timewindow"
)

var base = time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)

func at(h, m int) time.Time {
	return time.Date(2024, 6, 1, h, m, 0, 0, time.UTC)
}

func TestIsBlocked(t *testing.T) {
	s := NewState("p1")
	if _, err := s.AddBlock(timewindow.Window{Start: at(10, 0), End: at(11, 0)}, base); err != nil {
		t.Fatalf("add block: %v", err)
	}

	tests := []struct {
		name  string
		start time.Time
		want  bool
	}{
		{"inside", at(10, 30), true},
		{"straddles start", at(9, 30), true},
		{"same start", at(10, 0), true},
		{"ends at block start", at(9, 0), false},
		{"starts at block end", at(11, 0), false},
		{"well after", at(14, 0), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.IsBlocked(timewindow.Starting(tt.start, time.Hour))
			if got != tt.want {
				t.Errorf("IsBlocked(%s) = %v, want %v", tt.start.Format("15:04"), got, tt.want)
			}
		})
	}
}

func TestHasConflict(t *testing.T) {
	s := NewState("p1")
	s.AddShowing(&Showing{ID: "a", ScheduledAt: at(10, 0), Status: StatusPending})
	s.AddShowing(&Showing{ID: "b", ScheduledAt: at(13, 0), Status: StatusApproved})
	s.AddShowing(&Showing{ID: "c", ScheduledAt: at(15, 0), Status: StatusDeclined})

	tests := []struct {
		name    string
		start   time.Time
		exclude string
		want    bool
	}{
		{"overlaps pending", at(10, 30), "", true},
		{"overlaps approved", at(12, 30), "", true},
		{"adjacent after pending", at(11, 0), "", false},
		{"adjacent before approved", at(12, 0), "", false},
		{"declined slot is free", at(15, 0), "", false},
		{"own slot excluded", at(10, 30), "a", false},
		{"other slot still checked", at(12, 30), "a", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.HasConflict(timewindow.Starting(tt.start, time.Hour), time.Hour, tt.exclude)
			if got != tt.want {
				t.Errorf("HasConflict(%s) = %v, want %v", tt.start.Format("15:04"), got, tt.want)
			}
		})
	}
}

func TestCheckAvailableOrder(t *testing.T) {
	s := NewState("p1")
	if _, err := s.AddBlock(timewindow.Window{Start: at(10, 0), End: at(11, 0)}, base); err != nil {
		t.Fatalf("add block: %v", err)
	}
	s.AddShowing(&Showing{ID: "a", ScheduledAt: at(10, 0), Status: StatusPending})

	err := s.CheckAvailable(timewindow.Starting(at(10, 0), time.Hour), time.Hour, "")
	if !errors.Is(err, ErrTimeBlocked) {
		t.Errorf("err = %v, want ErrTimeBlocked before conflict", err)
	}

	err = s.CheckAvailable(timewindow.Window{Start: at(12, 0), End: at(12, 0)}, time.Hour, "")
	if !errors.Is(err, ErrInvalidTimeRange) {
		t.Errorf("err = %v, want ErrInvalidTimeRange", err)
	}
	if !errors.Is(err, ErrInvalidInput) {
		t.Error("ErrInvalidTimeRange should wrap ErrInvalidInput")
	}

	if err := s.CheckAvailable(timewindow.Starting(at(11, 0), time.Hour), time.Hour, ""); err != nil {
		t.Errorf("adjacent slot: %v", err)
	}
}

func TestAddBlock(t *testing.T) {
	s := NewState("p1")

	b, err := s.AddBlock(timewindow.Window{Start: at(10, 0), End: at(11, 0)}, base)
	if err != nil {
		t.Fatalf("add block: %v", err)
	}
	if b.PropertyID != "p1" {
		t.Errorf("property = %q, want p1", b.PropertyID)
	}

	tests := []struct {
		name string
		w    timewindow.Window
		want error
	}{
		{"overlap", timewindow.Window{Start: at(10, 30), End: at(11, 30)}, ErrBlockOverlap},
		{"contains", timewindow.Window{Start: at(9, 0), End: at(12, 0)}, ErrBlockOverlap},
		{"zero length", timewindow.Window{Start: at(13, 0), End: at(13, 0)}, ErrInvalidTimeRange},
		{"inverted", timewindow.Window{Start: at(14, 0), End: at(13, 0)}, ErrInvalidTimeRange},
		{"adjacent", timewindow.Window{Start: at(11, 0), End: at(12, 0)}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.AddBlock(tt.w, base)
			if !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}

	if len(s.Blocks) != 2 {
		t.Errorf("got %d blocks, want 2", len(s.Blocks))
	}
}

func TestCode(t *testing.T) {
	tests := []struct {
		err  error
		want string
	}{
		{ErrNotFound, "not_found"},
		{ErrInvalidProperty, "invalid_property"},
		{ErrInvalidTimeRange, "invalid_time_range"},
		{ErrInvalidInput, "invalid_input"},
		{ErrInvalidState, "invalid_state"},
		{ErrTimeBlocked, "time_blocked"},
		{ErrSchedulingConflict, "scheduling_conflict"},
		{ErrBlockOverlap, "block_overlap"},
		{ErrNotApproved, "not_approved"},
		{ErrCodeExpired, "code_expired"},
		{errors.New("boom"), "internal"},
	}

	for _, tt := range tests {
		if got := Code(tt.err); got != tt.want {
			t.Errorf("Code(%v) = %q, want %q", tt.err, got, tt.want)
		}
	}
}
