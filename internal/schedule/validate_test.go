package schedule

import (
	"errors"
	"testing"
)

func TestValidatePerson(t *testing.T) {
	tests := []struct {
		name    string
		p       Person
		wantErr bool
	}{
		{"name only", Person{Name: "Bea Buyer"}, false},
		{"full", Person{Name: "Bea Buyer", Phone: "+15550100", Email: "bea@example.com"}, false},
		{"missing name", Person{Email: "bea@example.com"}, true},
		{"bad email", Person{Name: "Bea", Email: "bea-at-example"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePerson(tt.p)
			if tt.wantErr && !errors.Is(err, ErrInvalidInput) {
				t.Errorf("err = %v, want ErrInvalidInput", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("unexpected error: %v", err)
			}
		})
	}
}

func TestNewFeedback(t *testing.T) {
	tests := []struct {
		name    string
		rating  int
		comment string
		wantErr bool
	}{
		{"low", 1, "Small kitchen", false},
		{"high", 5, "Loved it", false},
		{"zero rating", 0, "ok", true},
		{"rating too high", 6, "ok", true},
		{"empty comment", 3, "", true},
		{"blank comment", 3, "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fb, err := NewFeedback(tt.rating, tt.comment, base)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidInput) {
					t.Errorf("err = %v, want ErrInvalidInput", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("new feedback: %v", err)
			}
			if fb.ID == "" || fb.Rating != tt.rating || !fb.CreatedAt.Equal(base) {
				t.Errorf("feedback = %+v", fb)
			}
		})
	}
}
