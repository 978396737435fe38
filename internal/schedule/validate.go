package schedule

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = validator.New()

// ValidatePerson checks a buyer or client identity: a name is required,
// phone and email are optional but must be well formed when given.
func ValidatePerson(p Person) error {
	if err := validate.Struct(p); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	return nil
}

type feedbackInput struct {
	Rating  int    `validate:"min=1,max=5"`
	Comment string `validate:"required"`
}

// NewFeedback validates a rating of 1 to 5 and a non-empty comment.
func NewFeedback(rating int, comment string, now time.Time) (Feedback, error) {
	in := feedbackInput{Rating: rating, Comment: strings.TrimSpace(comment)}
	if err := validate.Struct(in); err != nil {
		return Feedback{}, fmt.Errorf("%w: rating must be 1-5 and comment is required", ErrInvalidInput)
	}
	return Feedback{
		ID:        uuid.NewString(),
		Rating:    in.Rating,
		Comment:   in.Comment,
		CreatedAt: now,
	}, nil
}
