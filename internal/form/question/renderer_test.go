package question

import (
	"encoding/json"
	"testing"
)

func TestSelectRenderer(t *testing.T) {
	testCases := []struct {
		questionType QuestionType
		want         RendererKind
	}{
		{QuestionTypeShortText, RendererTextInput},
		{QuestionTypeEmail, RendererTextInput},
		{QuestionTypePhone, RendererTextInput},
		{QuestionTypeNumber, RendererTextInput},
		{QuestionTypeLongText, RendererTextArea},
		{QuestionTypeSingleChoice, RendererRadioGroup},
		{QuestionTypeMultipleChoice, RendererCheckboxGroup},
		{QuestionTypeRating, RendererStarRating},
		{QuestionTypeScale, RendererRangeSlider},
		{QuestionTypeDate, RendererDateInput},
		{QuestionTypeTime, RendererTimeInput},
		{QuestionTypeFileUpload, RendererUnsupported},
		{QuestionType("hologram"), RendererUnsupported},
	}

	for _, tc := range testCases {
		t.Run(string(tc.questionType), func(t *testing.T) {
			if got := SelectRenderer(tc.questionType); got != tc.want {
				t.Errorf("expected %s, got %s", tc.want, got)
			}
		})
	}
}

func TestSelectRenderer_TotalOverKnownTypes(t *testing.T) {
	for _, questionType := range Types {
		if got := SelectRenderer(questionType); got == RendererUnsupported && questionType != QuestionTypeFileUpload {
			t.Errorf("%s unexpectedly maps to unsupported", questionType)
		}
	}
}

func TestRendererFor_CarriesProps(t *testing.T) {
	t.Run("checkbox group carries choices", func(t *testing.T) {
		q := Question{
			Type:    QuestionTypeMultipleChoice,
			Options: json.RawMessage(`{"choices":["Red","Blue"]}`),
		}
		r := RendererFor(q)
		if r.Kind != RendererCheckboxGroup {
			t.Fatalf("expected checkbox group, got %s", r.Kind)
		}
		if len(r.Choices) != 2 || r.Choices[0] != "Red" {
			t.Errorf("expected choices, got %v", r.Choices)
		}
	})

	t.Run("slider carries defaulted bounds", func(t *testing.T) {
		q := Question{Type: QuestionTypeScale}
		r := RendererFor(q)
		if r.Kind != RendererRangeSlider {
			t.Fatalf("expected range slider, got %s", r.Kind)
		}
		if r.Scale == nil || r.Scale.Min != 1 || r.Scale.Max != 10 {
			t.Errorf("expected defaulted scale bounds, got %+v", r.Scale)
		}
	})

	t.Run("star rating carries ceiling", func(t *testing.T) {
		q := Question{Type: QuestionTypeRating}
		r := RendererFor(q)
		if r.Kind != RendererStarRating {
			t.Fatalf("expected star rating, got %s", r.Kind)
		}
		if r.MaxRating != DefaultMaxRating {
			t.Errorf("expected default ceiling, got %d", r.MaxRating)
		}
	})

	t.Run("text input carries no props", func(t *testing.T) {
		q := Question{Type: QuestionTypeShortText}
		r := RendererFor(q)
		if r.Choices != nil || r.Scale != nil || r.MaxRating != 0 {
			t.Errorf("expected bare renderer, got %+v", r)
		}
	})
}
