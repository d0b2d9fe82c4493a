// Package validate checks one answer against one question. The check runs
// required first, then the question's custom rule, then the type-intrinsic
// check, and reports the first failure. It is total: no question and answer
// combination panics or errors, malformed configuration simply passes.
package validate

import (
	"regexp"
	"time"

	"formforge/backend/internal/form/answer"
	"formforge/backend/internal/form/question"
)

const (
	MsgRequired      = "This field is required"
	MsgInvalidEmail  = "Please enter a valid email address"
	MsgInvalidPhone  = "Please enter a valid phone number"
	MsgInvalidNumber = "Please enter a valid number"
	MsgInvalidDate   = "Please enter a valid date"
)

var (
	emailPattern = regexp.MustCompile(`(?i)^[A-Z0-9._%+-]+@[A-Z0-9.-]+\.[A-Z]{2,}$`)
	phonePattern = regexp.MustCompile(`^\+?[\d\s-]{10,}$`)
)

// dateLayouts covers the formats respondents and date inputs produce.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

// Result is the outcome of validating one answer. The zero value is valid.
type Result struct {
	Message string
}

func (r Result) Valid() bool {
	return r.Message == ""
}

func fail(message string) Result {
	return Result{Message: message}
}

// Validate checks value against the question's required flag, its custom
// rule, and its type's intrinsic shape, in that order. The first failure
// wins.
func Validate(q question.Question, v answer.Value) Result {
	if q.Required && v.Empty() {
		return fail(MsgRequired)
	}

	if q.Validation != nil {
		if result := applyRule(*q.Validation, v); !result.Valid() {
			return result
		}
	}

	return intrinsic(q.Type, v)
}

// intrinsic applies the built-in shape check for the question type. Checks
// only fire for value kinds they understand; a number answer to an email
// question passes here and is caught by type mismatch elsewhere. The number
// check is the exception: anything that is not a number fails, including an
// absent answer.
func intrinsic(t question.QuestionType, v answer.Value) Result {
	switch t {
	case question.QuestionTypeEmail:
		if text, ok := v.Text(); ok && !emailPattern.MatchString(text) {
			return fail(MsgInvalidEmail)
		}
	case question.QuestionTypePhone:
		if text, ok := v.Text(); ok && !phonePattern.MatchString(text) {
			return fail(MsgInvalidPhone)
		}
	case question.QuestionTypeNumber:
		if _, ok := v.Number(); !ok {
			return fail(MsgInvalidNumber)
		}
	case question.QuestionTypeDate:
		if text, ok := v.Text(); ok && !parseableDate(text) {
			return fail(MsgInvalidDate)
		}
	}
	return Result{}
}

func parseableDate(s string) bool {
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}
