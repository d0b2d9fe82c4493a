package suggest

import (
	"encoding/json"
	"fmt"
	"strconv"

	"formforge/backend/internal/form/question"

	"github.com/google/uuid"
)

// SuggestedQuestion is one question as the model proposes it. The type
// vocabulary the model uses is looser than the canonical one, so Type stays
// a raw string until MapType pins it down.
type SuggestedQuestion struct {
	Type       string          `json:"type"`
	Text       string          `json:"text"`
	Options    []string        `json:"options,omitempty"`
	Required   bool            `json:"required"`
	Validation *SuggestedRange `json:"validation,omitempty"`
}

// SuggestedRange is the loose validation object the model may attach. Only
// scale questions consume it.
type SuggestedRange struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// MapType converts the model's loose type vocabulary to a canonical
// question type. Canonical names pass through; anything unrecognized
// degrades to short text so a sloppy generation still yields a usable form.
func MapType(loose string) question.QuestionType {
	switch loose {
	case "text":
		return question.QuestionTypeShortText
	case "multipleChoice":
		return question.QuestionTypeSingleChoice
	case "checkbox":
		return question.QuestionTypeMultipleChoice
	case "rating":
		return question.QuestionTypeRating
	}

	if canonical := question.QuestionType(loose); canonical.Valid() {
		return canonical
	}
	return question.QuestionTypeShortText
}

// ToCreateParams turns a suggestion into question creation parameters for a
// section, defaulting the option bag by type: suggested choices for choice
// questions, the standard 5-star ceiling for ratings, the 1..10 slider for
// scales. A suggested min/max range becomes the scale bounds plus a range
// rule carrying the bounds for the builder UI.
func ToCreateParams(sectionID uuid.UUID, order int32, suggestion SuggestedQuestion) (question.CreateParams, error) {
	questionType := MapType(suggestion.Type)

	params := question.CreateParams{
		SectionID: sectionID,
		Type:      questionType,
		Title:     suggestion.Text,
		Required:  suggestion.Required,
		Order:     order,
	}

	switch questionType {
	case question.QuestionTypeSingleChoice, question.QuestionTypeMultipleChoice:
		choices := make([]question.ChoiceOption, len(suggestion.Options))
		for i, option := range suggestion.Options {
			choices[i] = question.ChoiceOption{Text: option}
		}
		options, err := question.GenerateChoiceOptions(questionType, choices)
		if err != nil {
			return question.CreateParams{}, err
		}
		params.Options = options
	case question.QuestionTypeRating:
		options, err := question.GenerateRatingOptions(question.DefaultMaxRating)
		if err != nil {
			return question.CreateParams{}, err
		}
		params.Options = options
	case question.QuestionTypeScale:
		scale := question.ScaleOption{}
		if bounds := suggestion.Validation; bounds != nil && bounds.Min != nil && bounds.Max != nil {
			scale.Min = int(*bounds.Min)
			scale.Max = int(*bounds.Max)

			rule, err := rangeRule(*bounds.Min, *bounds.Max)
			if err != nil {
				return question.CreateParams{}, err
			}
			params.Validation = rule
		}
		options, err := question.GenerateScaleOptions(scale)
		if err != nil {
			return question.CreateParams{}, err
		}
		params.Options = options
	}

	return params, nil
}

func rangeRule(min, max float64) (*question.Rule, error) {
	value, err := json.Marshal(map[string]float64{"min": min, "max": max})
	if err != nil {
		return nil, err
	}

	return &question.Rule{
		Type:  question.RuleTypeRange,
		Value: value,
		Message: fmt.Sprintf("Value must be between %s and %s",
			strconv.FormatFloat(min, 'f', -1, 64),
			strconv.FormatFloat(max, 'f', -1, 64)),
	}, nil
}
