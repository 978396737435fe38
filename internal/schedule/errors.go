package schedule

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by the showing and disclosure workflows. Callers
// classify with errors.Is; the API layer maps each kind to a response.
var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidState       = errors.New("invalid state")
	ErrTimeBlocked        = errors.New("requested time is blocked")
	ErrSchedulingConflict = errors.New("requested time conflicts with another showing")
	ErrNotApproved        = errors.New("not approved")
	ErrCodeExpired        = errors.New("code expired")
	ErrBlockOverlap       = errors.New("time range overlaps existing block")

	ErrInvalidProperty  = fmt.Errorf("%w: unknown property", ErrInvalidInput)
	ErrInvalidTimeRange = fmt.Errorf("%w: invalid time range", ErrInvalidInput)
)

// Code returns a stable snake_case identifier for err's kind, or "internal".
func Code(err error) string {
	switch {
	case errors.Is(err, ErrInvalidProperty):
		return "invalid_property"
	case errors.Is(err, ErrInvalidTimeRange):
		return "invalid_time_range"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidState):
		return "invalid_state"
	case errors.Is(err, ErrTimeBlocked):
		return "time_blocked"
	case errors.Is(err, ErrSchedulingConflict):
		return "scheduling_conflict"
	case errors.Is(err, ErrBlockOverlap):
		return "block_overlap"
	case errors.Is(err, ErrNotApproved):
		return "not_approved"
	case errors.Is(err, ErrCodeExpired):
		return "code_expired"
	}
	return "internal"
}
