package question

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/google/uuid"
)

type QuestionType string

const (
	QuestionTypeShortText      QuestionType = "short_text"
	QuestionTypeLongText       QuestionType = "long_text"
	QuestionTypeSingleChoice   QuestionType = "single_choice"
	QuestionTypeMultipleChoice QuestionType = "multiple_choice"
	QuestionTypeRating         QuestionType = "rating"
	QuestionTypeScale          QuestionType = "scale"
	QuestionTypeDate           QuestionType = "date"
	QuestionTypeTime           QuestionType = "time"
	QuestionTypeEmail          QuestionType = "email"
	QuestionTypePhone          QuestionType = "phone"
	QuestionTypeNumber         QuestionType = "number"
	QuestionTypeFileUpload     QuestionType = "file_upload"
)

// Types lists every supported question type in display order.
var Types = []QuestionType{
	QuestionTypeShortText,
	QuestionTypeLongText,
	QuestionTypeSingleChoice,
	QuestionTypeMultipleChoice,
	QuestionTypeRating,
	QuestionTypeScale,
	QuestionTypeDate,
	QuestionTypeTime,
	QuestionTypeEmail,
	QuestionTypePhone,
	QuestionTypeNumber,
	QuestionTypeFileUpload,
}

func (t QuestionType) Valid() bool {
	for _, known := range Types {
		if t == known {
			return true
		}
	}
	return false
}

type RuleType string

const (
	RuleTypeMin     RuleType = "min"
	RuleTypeMax     RuleType = "max"
	RuleTypePattern RuleType = "pattern"
	RuleTypeEmail   RuleType = "email"
	RuleTypeOptions RuleType = "options"

	// RuleTypeRange is attached by the question suggester to scale
	// questions. The engine has no intrinsic handling for it and lets it
	// pass; it exists so builder UIs can surface the intended bounds.
	RuleTypeRange RuleType = "range"
)

// Rule is a single custom constraint attached to a question, layered on top
// of the built-in required and type checks. Value is kept raw because its
// shape depends on the rule type (number for min/max, string for pattern,
// string array for options); the typed accessors below report whether the
// stored value actually has the requested shape.
type Rule struct {
	Type    RuleType        `json:"type"`
	Value   json.RawMessage `json:"value"`
	Message string          `json:"message"`
}

// NumberValue returns the rule value as a number. A numeric string such as
// "5" counts, matching how rule configs arrive from the builder UI.
func (r Rule) NumberValue() (float64, bool) {
	var n float64
	if err := json.Unmarshal(r.Value, &n); err == nil {
		return n, true
	}

	var s string
	if err := json.Unmarshal(r.Value, &s); err == nil {
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			return n, true
		}
	}

	return 0, false
}

func (r Rule) StringValue() (string, bool) {
	var s string
	if err := json.Unmarshal(r.Value, &s); err != nil {
		return "", false
	}
	return s, true
}

func (r Rule) StringListValue() ([]string, bool) {
	var list []string
	if err := json.Unmarshal(r.Value, &list); err != nil {
		return nil, false
	}
	return list, true
}

// Question is the typed schema for a single form question. Options is an
// untyped bag whose interpretation depends on Type; use the accessors in
// options.go, which apply defaults for absent or malformed fields.
//
// Type must be treated as immutable once responses exist against the
// question; enforcing that is the caller's responsibility.
type Question struct {
	ID          uuid.UUID
	SectionID   uuid.UUID
	Type        QuestionType
	Title       string
	Description string
	Required    bool
	Order       int32
	Options     json.RawMessage
	Validation  *Rule
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
