package timewindow

import (
	"errors"
	"testing"
	"time"
)

func at(hour, minute int) time.Time {
	return time.Date(2024, 6, 1, hour, minute, 0, 0, time.UTC)
}

func TestOverlaps(t *testing.T) {
	base := Window{Start: at(10, 0), End: at(11, 0)}

	tests := []struct {
		name string
		w    Window
		want bool
	}{
		{"identical", Window{at(10, 0), at(11, 0)}, true},
		{"starts inside", Window{at(10, 30), at(11, 30)}, true},
		{"ends inside", Window{at(9, 30), at(10, 30)}, true},
		{"contains", Window{at(9, 0), at(12, 0)}, true},
		{"contained", Window{at(10, 15), at(10, 45)}, true},
		{"adjacent after", Window{at(11, 0), at(12, 0)}, false},
		{"adjacent before", Window{at(9, 0), at(10, 0)}, false},
		{"disjoint", Window{at(13, 0), at(14, 0)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := base.Overlaps(tt.w); got != tt.want {
				t.Errorf("%v.Overlaps(%v) = %v, want %v", base, tt.w, got, tt.want)
			}
			if got := tt.w.Overlaps(base); got != tt.want {
				t.Errorf("overlap not symmetric for %v", tt.w)
			}
		})
	}
}

func TestNewRejectsEmptyAndInverted(t *testing.T) {
	if _, err := New(at(10, 0), at(10, 0)); !errors.Is(err, ErrEmpty) {
		t.Errorf("zero-length: err = %v, want ErrEmpty", err)
	}
	if _, err := New(at(11, 0), at(10, 0)); !errors.Is(err, ErrEmpty) {
		t.Errorf("inverted: err = %v, want ErrEmpty", err)
	}
	w, err := New(at(10, 0), at(11, 0))
	if err != nil {
		t.Fatalf("valid window: %v", err)
	}
	if w.Duration() != time.Hour {
		t.Errorf("duration = %v, want 1h", w.Duration())
	}
}

func TestStarting(t *testing.T) {
	w := Starting(at(11, 0), time.Hour)
	if !w.End.Equal(at(12, 0)) {
		t.Errorf("end = %v, want %v", w.End, at(12, 0))
	}
}

func TestParse(t *testing.T) {
	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{"2024-06-01T10:30", at(10, 30), false},
		{"2024-06-01T10:30:00", at(10, 30), false},
		{"2024-06-01T10:30:00Z", at(10, 30), false},
		{"2024-06-01T12:30:00+02:00", at(10, 30), false},
		{"2024-06-01 10:30", at(10, 30), false},
		{"not-a-date", time.Time{}, true},
		{"", time.Time{}, true},
	}

	for _, tt := range tests {
		got, err := Parse(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("Parse(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("Parse(%q): %v", tt.in, err)
			continue
		}
		if !got.Equal(tt.want) {
			t.Errorf("Parse(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
