// Package submit drives one respondent's pass through a form: answers
// accumulate in a session, validation gates the submit attempt, and the
// session ends submitted or submit_failed.
package submit

import (
	"formforge/backend/internal"
	"formforge/backend/internal/form/answer"
	"formforge/backend/internal/form/question"
	"formforge/backend/internal/form/validate"

	"github.com/google/uuid"
)

type State string

const (
	StateEditing      State = "editing"
	StateValidating   State = "validating"
	StateSubmitting   State = "submitting"
	StateSubmitted    State = "submitted"
	StateSubmitFailed State = "submit_failed"
)

// Failure is one validation failure surfaced to the respondent.
type Failure struct {
	QuestionID uuid.UUID
	Title      string
	Message    string
}

// Answer pairs a question with its current value, ordered by question order.
type Answer struct {
	QuestionID uuid.UUID
	Value      answer.Value
}

// Session holds one respondent's in-progress answers for one form. It is not
// safe for concurrent use.
type Session struct {
	formID    uuid.UUID
	questions map[uuid.UUID]question.Question
	order     []uuid.UUID
	values    map[uuid.UUID]answer.Value
	state     State
}

// NewSession starts an editing session over the form's questions. The slice
// must already be in presentation order (section order, then question order
// within each section); per-section order values restart at 1, so the
// session never re-sorts.
func NewSession(formID uuid.UUID, questions []question.Question) *Session {
	byID := make(map[uuid.UUID]question.Question, len(questions))
	order := make([]uuid.UUID, 0, len(questions))

	for _, q := range questions {
		byID[q.ID] = q
		order = append(order, q.ID)
	}

	return &Session{
		formID:    formID,
		questions: byID,
		order:     order,
		values:    make(map[uuid.UUID]answer.Value),
		state:     StateEditing,
	}
}

func (s *Session) FormID() uuid.UUID {
	return s.formID
}

func (s *Session) State() State {
	return s.state
}

// SetAnswer records a value for a question, normalizing it for the question
// type first. Editing is allowed while the session is in editing or
// submit_failed; touching a submit_failed session moves it back to editing.
func (s *Session) SetAnswer(questionID uuid.UUID, v answer.Value) error {
	if err := s.ensureEditable(); err != nil {
		return err
	}

	q, ok := s.questions[questionID]
	if !ok {
		return internal.ErrQuestionNotFound
	}

	s.values[questionID] = answer.Normalize(q.Type, v)
	s.state = StateEditing
	return nil
}

// ToggleChoice flips one choice on a multi-select question.
func (s *Session) ToggleChoice(questionID uuid.UUID, choice string) error {
	if err := s.ensureEditable(); err != nil {
		return err
	}

	q, ok := s.questions[questionID]
	if !ok {
		return internal.ErrQuestionNotFound
	}
	if q.Type != question.QuestionTypeMultipleChoice {
		return internal.ErrQuestionTypeMismatch
	}

	s.values[questionID] = answer.Toggle(s.values[questionID], choice)
	s.state = StateEditing
	return nil
}

// Answer returns the current value for a question, Absent when unanswered.
func (s *Session) Answer(questionID uuid.UUID) answer.Value {
	return s.values[questionID]
}

func (s *Session) ensureEditable() error {
	switch s.state {
	case StateEditing, StateSubmitFailed:
		return nil
	case StateSubmitted:
		return internal.ErrAlreadySubmitted
	default:
		return internal.ErrSubmitInProgress
	}
}

// Validate checks every question against its current value and returns all
// failures in question order. The session passes through validating and
// lands back in editing, whether or not failures were found.
func (s *Session) Validate() ([]Failure, error) {
	if err := s.ensureEditable(); err != nil {
		return nil, err
	}
	s.state = StateValidating

	failures := s.collectFailures()

	s.state = StateEditing
	return failures, nil
}

// BeginSubmit validates everything and, when clean, moves the session into
// submitting. On any failure the session returns to editing and the full
// failure list comes back.
func (s *Session) BeginSubmit() ([]Failure, error) {
	if err := s.ensureEditable(); err != nil {
		return nil, err
	}
	s.state = StateValidating

	failures := s.collectFailures()
	if len(failures) > 0 {
		s.state = StateEditing
		return failures, nil
	}

	s.state = StateSubmitting
	return nil, nil
}

// CompleteSubmit marks the persisted session terminal.
func (s *Session) CompleteSubmit() {
	if s.state == StateSubmitting {
		s.state = StateSubmitted
	}
}

// FailSubmit records a persistence failure. Answers stay intact so the
// respondent can retry.
func (s *Session) FailSubmit() {
	if s.state == StateSubmitting {
		s.state = StateSubmitFailed
	}
}

func (s *Session) collectFailures() []Failure {
	var failures []Failure
	for _, id := range s.order {
		q := s.questions[id]
		result := validate.Validate(q, s.values[id])
		if !result.Valid() {
			failures = append(failures, Failure{
				QuestionID: q.ID,
				Title:      q.Title,
				Message:    result.Message,
			})
		}
	}
	return failures
}

// Payload lists the answers to persist, in question order, skipping
// questions whose value is absent.
func (s *Session) Payload() []Answer {
	payload := make([]Answer, 0, len(s.values))
	for _, id := range s.order {
		v, ok := s.values[id]
		if !ok || v.IsAbsent() {
			continue
		}
		payload = append(payload, Answer{QuestionID: id, Value: v})
	}
	return payload
}
