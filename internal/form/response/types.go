package response

import (
	"time"

	"formforge/backend/internal/form/answer"

	"github.com/google/uuid"
)

// Response is one completed submission for a form.
type Response struct {
	ID          uuid.UUID
	FormID      uuid.UUID
	SubmittedAt time.Time
}

// Item is one stored answer inside a response.
type Item struct {
	ID         uuid.UUID
	ResponseID uuid.UUID
	QuestionID uuid.UUID
	Value      answer.Value
	CreatedAt  time.Time
}

// ItemParam is one answer to persist when creating a response.
type ItemParam struct {
	QuestionID uuid.UUID
	Value      answer.Value
}

// ResponseWithItems bundles a response with its stored answers.
type ResponseWithItems struct {
	Response Response
	Items    []Item
}
