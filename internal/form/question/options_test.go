package question

import (
	"encoding/json"
	"errors"
	"testing"

	"formforge/backend/internal"
)

func TestGenerateChoiceOptions(t *testing.T) {
	testCases := []struct {
		name        string
		choices     []ChoiceOption
		wantErr     bool
		wantChoices []string
	}{
		{
			name:        "valid choices",
			choices:     []ChoiceOption{{Text: "Red"}, {Text: "Blue"}},
			wantChoices: []string{"Red", "Blue"},
		},
		{
			name:        "choice text is trimmed",
			choices:     []ChoiceOption{{Text: "  Red  "}},
			wantChoices: []string{"Red"},
		},
		{
			name:    "no choices",
			choices: nil,
			wantErr: true,
		},
		{
			name:    "blank choice",
			choices: []ChoiceOption{{Text: "Red"}, {Text: "   "}},
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			raw, err := GenerateChoiceOptions(QuestionTypeSingleChoice, tc.choices)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				if !errors.Is(err, internal.ErrValidationFailed) {
					t.Errorf("expected error to wrap validation failure, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			q := Question{Type: QuestionTypeSingleChoice, Options: json.RawMessage(raw)}
			got := q.Choices()
			if len(got) != len(tc.wantChoices) {
				t.Fatalf("expected %v, got %v", tc.wantChoices, got)
			}
			for i := range got {
				if got[i] != tc.wantChoices[i] {
					t.Fatalf("expected %v, got %v", tc.wantChoices, got)
				}
			}
		})
	}
}

func TestGenerateScaleOptions(t *testing.T) {
	testCases := []struct {
		name     string
		option   ScaleOption
		wantErr  bool
		wantMin  int
		wantMax  int
		wantStep int
	}{
		{
			name:     "explicit bounds",
			option:   ScaleOption{Min: 1, Max: 5, Step: 1},
			wantMin:  1,
			wantMax:  5,
			wantStep: 1,
		},
		{
			name:     "zero fields take defaults",
			option:   ScaleOption{},
			wantMin:  DefaultScaleMin,
			wantMax:  DefaultScaleMax,
			wantStep: DefaultScaleStep,
		},
		{
			name:    "min not below max",
			option:  ScaleOption{Min: 5, Max: 5, Step: 1},
			wantErr: true,
		},
		{
			name:    "negative step",
			option:  ScaleOption{Min: 1, Max: 10, Step: -1},
			wantErr: true,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			raw, err := GenerateScaleOptions(tc.option)
			if tc.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				if !errors.Is(err, internal.ErrValidationFailed) {
					t.Errorf("expected error to wrap validation failure, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			q := Question{Type: QuestionTypeScale, Options: json.RawMessage(raw)}
			bounds := q.ScaleBounds()
			if bounds.Min != tc.wantMin || bounds.Max != tc.wantMax || bounds.Step != tc.wantStep {
				t.Errorf("expected %d..%d step %d, got %d..%d step %d",
					tc.wantMin, tc.wantMax, tc.wantStep, bounds.Min, bounds.Max, bounds.Step)
			}
		})
	}
}

func TestGenerateRatingOptions(t *testing.T) {
	raw, err := GenerateRatingOptions(0)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	q := Question{Type: QuestionTypeRating, Options: json.RawMessage(raw)}
	if got := q.MaxRating(); got != DefaultMaxRating {
		t.Errorf("expected default max rating %d, got %d", DefaultMaxRating, got)
	}

	if _, err := GenerateRatingOptions(11); err == nil {
		t.Error("expected max rating above 10 to be rejected")
	}
}

func TestOptionDefaults_MalformedOptions(t *testing.T) {
	q := Question{Type: QuestionTypeScale, Options: json.RawMessage(`{broken`)}

	bounds := q.ScaleBounds()
	if bounds.Min != DefaultScaleMin || bounds.Max != DefaultScaleMax || bounds.Step != DefaultScaleStep {
		t.Errorf("expected defaults for malformed options, got %+v", bounds)
	}

	if got := q.MaxRating(); got != DefaultMaxRating {
		t.Errorf("expected default max rating, got %d", got)
	}

	if got := q.Choices(); len(got) != 0 {
		t.Errorf("expected no choices, got %v", got)
	}
}

func TestOptionDefaults_AbsentOptions(t *testing.T) {
	q := Question{Type: QuestionTypeScale}

	bounds := q.ScaleBounds()
	if bounds.Min != 1 || bounds.Max != 10 || bounds.Step != 1 {
		t.Errorf("expected 1..10 step 1, got %+v", bounds)
	}
}

func TestScaleBounds_PartialOptions(t *testing.T) {
	q := Question{
		Type:    QuestionTypeScale,
		Options: json.RawMessage(`{"min":3,"startLabel":"Low","endLabel":"High"}`),
	}

	bounds := q.ScaleBounds()
	if bounds.Min != 3 || bounds.Max != DefaultScaleMax || bounds.Step != DefaultScaleStep {
		t.Errorf("expected partial fields to merge with defaults, got %+v", bounds)
	}
	if bounds.StartLabel != "Low" || bounds.EndLabel != "High" {
		t.Errorf("expected labels to survive, got %+v", bounds)
	}
}
