package showing

import (
	"regexp"
	"testing"
)

var sixDigits = regexp.MustCompile(`^[0-9]{6}$`)

func TestRandomCode(t *testing.T) {
	for range 100 {
		code, err := RandomCode()
		if err != nil {
			t.Fatalf("random code: %v", err)
		}
		if !sixDigits.MatchString(code) {
			t.Fatalf("code = %q, want 6 digits", code)
		}
	}
}

func TestSeededCodesDeterministic(t *testing.T) {
	a, b := NewSeededCodes(99), NewSeededCodes(99)
	for range 10 {
		ca, _ := a()
		cb, _ := b()
		if ca != cb {
			t.Fatalf("same seed diverged: %s != %s", ca, cb)
		}
		if !sixDigits.MatchString(ca) {
			t.Fatalf("code = %q, want 6 digits", ca)
		}
	}
}

func TestFormatCodePads(t *testing.T) {
	tests := map[int64]string{
		0:      "000000",
		7:      "000007",
		42:     "000042",
		999999: "999999",
	}
	for n, want := range tests {
		if got := formatCode(n); got != want {
			t.Errorf("formatCode(%d) = %q, want %q", n, got, want)
		}
	}
}
