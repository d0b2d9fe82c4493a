package question

import (
	"encoding/json"
	"fmt"
	"strings"

	"formforge/backend/internal"
)

const (
	DefaultScaleMin  = 1
	DefaultScaleMax  = 10
	DefaultScaleStep = 1
	DefaultMaxRating = 5
)

// optionBag mirrors the stored JSON options shape across all question types.
// Fields that do not apply to a given type are simply absent.
type optionBag struct {
	Choices    []string `json:"choices"`
	Min        *int     `json:"min"`
	Max        *int     `json:"max"`
	Step       *int     `json:"step"`
	StartLabel string   `json:"startLabel"`
	EndLabel   string   `json:"endLabel"`
	MaxRating  *int     `json:"maxRating"`
}

func (q Question) optionBag() optionBag {
	var bag optionBag
	if len(q.Options) == 0 {
		return bag
	}
	// Malformed options degrade to defaults instead of failing; stricter
	// handling would have to live here so the engine stays untouched.
	_ = json.Unmarshal(q.Options, &bag)
	return bag
}

// Choices returns the ordered choice list for choice questions. Order is
// display order only; uniqueness is not enforced. Absent or malformed
// options yield an empty list.
func (q Question) Choices() []string {
	return q.optionBag().Choices
}

type ScaleBounds struct {
	Min        int
	Max        int
	Step       int
	StartLabel string
	EndLabel   string
}

// ScaleBounds returns the configured scale range, defaulting to 1..10 with
// step 1 when fields are missing.
func (q Question) ScaleBounds() ScaleBounds {
	bag := q.optionBag()
	bounds := ScaleBounds{
		Min:        DefaultScaleMin,
		Max:        DefaultScaleMax,
		Step:       DefaultScaleStep,
		StartLabel: bag.StartLabel,
		EndLabel:   bag.EndLabel,
	}
	if bag.Min != nil {
		bounds.Min = *bag.Min
	}
	if bag.Max != nil {
		bounds.Max = *bag.Max
	}
	if bag.Step != nil {
		bounds.Step = *bag.Step
	}
	return bounds
}

// MaxRating returns the rating ceiling, defaulting to 5.
func (q Question) MaxRating() int {
	bag := q.optionBag()
	if bag.MaxRating == nil || *bag.MaxRating < 1 {
		return DefaultMaxRating
	}
	return *bag.MaxRating
}

// ChoiceOption is the builder-facing shape for one choice.
type ChoiceOption struct {
	Text string `json:"text" validate:"required"`
}

// ScaleOption is the builder-facing shape for scale bounds.
type ScaleOption struct {
	Min        int    `json:"min"`
	Max        int    `json:"max"`
	Step       int    `json:"step"`
	StartLabel string `json:"startLabel,omitempty"`
	EndLabel   string `json:"endLabel,omitempty"`
}

// GenerateChoiceOptions validates and serializes the option bag for choice
// questions. Choice questions require at least one non-empty choice.
func GenerateChoiceOptions(questionType QuestionType, choices []ChoiceOption) ([]byte, error) {
	if len(choices) == 0 {
		return nil, ErrInvalidOptions{
			QuestionType: string(questionType),
			Message:      "no choices provided for choice question",
		}
	}

	texts := make([]string, len(choices))
	for i, choice := range choices {
		text := strings.TrimSpace(choice.Text)
		if text == "" {
			return nil, ErrInvalidOptions{
				QuestionType: string(questionType),
				Message:      "choice text cannot be empty",
			}
		}
		texts[i] = text
	}

	return json.Marshal(map[string]any{"choices": texts})
}

// GenerateScaleOptions validates and serializes the option bag for scale
// questions, filling the 1/10/1 defaults for zero fields.
func GenerateScaleOptions(option ScaleOption) ([]byte, error) {
	if option.Min == 0 {
		option.Min = DefaultScaleMin
	}
	if option.Max == 0 {
		option.Max = DefaultScaleMax
	}
	if option.Step == 0 {
		option.Step = DefaultScaleStep
	}

	if option.Min >= option.Max {
		return nil, fmt.Errorf("%w: scale min (%d) must be less than max (%d)", internal.ErrValidationFailed, option.Min, option.Max)
	}
	if option.Step < 1 {
		return nil, fmt.Errorf("%w: scale step must be at least 1, got %d", internal.ErrValidationFailed, option.Step)
	}

	return json.Marshal(map[string]any{
		"min":        option.Min,
		"max":        option.Max,
		"step":       option.Step,
		"startLabel": option.StartLabel,
		"endLabel":   option.EndLabel,
	})
}

// GenerateRatingOptions validates and serializes the option bag for rating
// questions, defaulting the ceiling to 5.
func GenerateRatingOptions(maxRating int) ([]byte, error) {
	if maxRating == 0 {
		maxRating = DefaultMaxRating
	}
	if maxRating < 1 || maxRating > 10 {
		return nil, fmt.Errorf("%w: maxRating must be between 1 and 10, got %d", internal.ErrValidationFailed, maxRating)
	}

	return json.Marshal(map[string]any{"maxRating": maxRating})
}
