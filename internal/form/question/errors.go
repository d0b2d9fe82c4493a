package question

import (
	"fmt"

	"formforge/backend/internal"
)

type ErrInvalidOptions struct {
	QuestionType string
	Message      string
}

func (e ErrInvalidOptions) Error() string {
	return fmt.Sprintf("invalid options for %s question: %s", e.QuestionType, e.Message)
}

func (e ErrInvalidOptions) Unwrap() error {
	return internal.ErrValidationFailed
}
