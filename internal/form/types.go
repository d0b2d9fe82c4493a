package form

import (
	"strings"
	"time"

	"formforge/backend/internal/form/question"

	"github.com/google/uuid"
)

type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusArchived  Status = "archived"
)

// CanTransitionTo encodes the form lifecycle: drafts publish or archive,
// published forms archive, archived forms stay archived.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusDraft:
		return next == StatusPublished || next == StatusArchived
	case StatusPublished:
		return next == StatusArchived
	default:
		return false
	}
}

func statusToUppercase(s Status) string {
	return strings.ToUpper(string(s))
}

func statusFromAPIFormat(s string) Status {
	return Status(strings.ToLower(s))
}

type Form struct {
	ID          uuid.UUID
	Title       string
	Description string
	Slug        string
	Status      Status
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Section struct {
	ID          uuid.UUID
	FormID      uuid.UUID
	Title       string
	Description string
	Order       int32
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// SectionWithQuestions bundles a section with its ordered questions.
type SectionWithQuestions struct {
	Section   Section
	Questions []question.Question
}

// FormWithSections is the full form tree a respondent renders.
type FormWithSections struct {
	Form     Form
	Sections []SectionWithQuestions
}

// Questions flattens the tree into section order then question order.
func (f FormWithSections) Questions() []question.Question {
	var all []question.Question
	for _, section := range f.Sections {
		all = append(all, section.Questions...)
	}
	return all
}
