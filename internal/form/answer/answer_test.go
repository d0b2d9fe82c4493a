package answer

import (
	"encoding/json"
	"testing"

	"formforge/backend/internal/form/question"
)

func TestNormalize_NumericCoercion(t *testing.T) {
	testCases := []struct {
		name  string
		input Value
		want  Value
	}{
		{
			name:  "blank string becomes absent",
			input: Text(""),
			want:  Absent(),
		},
		{
			name:  "whitespace string becomes absent",
			input: Text("   "),
			want:  Absent(),
		},
		{
			name:  "numeric string becomes number",
			input: Text("3.5"),
			want:  Number(3.5),
		},
		{
			name:  "negative numeric string becomes number",
			input: Text("-42"),
			want:  Number(-42),
		},
		{
			name:  "numeric prefix is used",
			input: Text("3.5 stars"),
			want:  Number(3.5),
		},
		{
			name:  "non-numeric string passes through",
			input: Text("abc"),
			want:  Text("abc"),
		},
		{
			name:  "number passes through",
			input: Number(7),
			want:  Number(7),
		},
		{
			name:  "absent passes through",
			input: Absent(),
			want:  Absent(),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Normalize(question.QuestionTypeNumber, tc.input)
			if !got.Equal(tc.want) {
				t.Errorf("expected %s %q, got %s %q", tc.want.Kind(), tc.want.Display(), got.Kind(), got.Display())
			}
		})
	}
}

func TestNormalize_NonNumericTypesPassThrough(t *testing.T) {
	types := []question.QuestionType{
		question.QuestionTypeShortText,
		question.QuestionTypeLongText,
		question.QuestionTypeEmail,
		question.QuestionTypePhone,
		question.QuestionTypeDate,
		question.QuestionTypeTime,
		question.QuestionTypeSingleChoice,
	}

	for _, questionType := range types {
		got := Normalize(questionType, Text("3.5"))
		if !got.Equal(Text("3.5")) {
			t.Errorf("expected %s to keep text untouched, got %s", questionType, got.Kind())
		}
	}
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []Value{
		Absent(),
		Text(""),
		Text("3.5"),
		Text("abc"),
		Number(42),
		Selection([]string{"Red", "Blue"}),
	}

	for _, questionType := range question.Types {
		for _, input := range inputs {
			once := Normalize(questionType, input)
			twice := Normalize(questionType, once)
			if !once.Equal(twice) {
				t.Errorf("normalize not idempotent for %s on %s %q", questionType, input.Kind(), input.Display())
			}
		}
	}
}

func TestToggle(t *testing.T) {
	testCases := []struct {
		name   string
		start  Value
		choice string
		want   []string
	}{
		{
			name:   "toggle into absent starts a selection",
			start:  Absent(),
			choice: "Red",
			want:   []string{"Red"},
		},
		{
			name:   "toggle appends new choice",
			start:  Selection([]string{"Red"}),
			choice: "Blue",
			want:   []string{"Red", "Blue"},
		},
		{
			name:   "toggle removes existing choice",
			start:  Selection([]string{"Red", "Blue", "Green"}),
			choice: "Blue",
			want:   []string{"Red", "Green"},
		},
		{
			name:   "toggle last choice leaves empty selection",
			start:  Selection([]string{"Red"}),
			choice: "Red",
			want:   []string{},
		},
		{
			name:   "toggle over text resets to a selection",
			start:  Text("Red"),
			choice: "Blue",
			want:   []string{"Blue"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got := Toggle(tc.start, tc.choice)
			choices, ok := got.Selection()
			if !ok {
				t.Fatalf("expected a selection, got %s", got.Kind())
			}
			if len(choices) != len(tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, choices)
			}
			for i := range choices {
				if choices[i] != tc.want[i] {
					t.Fatalf("expected %v, got %v", tc.want, choices)
				}
			}
		})
	}
}

func TestToggle_RoundTripRestoresOrder(t *testing.T) {
	v := Selection([]string{"A", "B", "C"})
	v = Toggle(v, "B")
	v = Toggle(v, "B")

	choices, _ := v.Selection()
	want := []string{"A", "C", "B"}
	for i := range want {
		if choices[i] != want[i] {
			t.Fatalf("expected %v, got %v", want, choices)
		}
	}
}

func TestValue_Empty(t *testing.T) {
	testCases := []struct {
		name  string
		value Value
		want  bool
	}{
		{name: "absent", value: Absent(), want: true},
		{name: "empty text", value: Text(""), want: true},
		{name: "whitespace text", value: Text(" "), want: false},
		{name: "empty selection", value: Selection(nil), want: true},
		{name: "zero number", value: Number(0), want: false},
		{name: "populated selection", value: Selection([]string{"x"}), want: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.value.Empty(); got != tc.want {
				t.Errorf("Empty() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestValue_JSONRoundTrip(t *testing.T) {
	testCases := []struct {
		name  string
		value Value
		json  string
	}{
		{name: "absent", value: Absent(), json: `null`},
		{name: "text", value: Text("hello"), json: `"hello"`},
		{name: "number", value: Number(3.5), json: `3.5`},
		{name: "selection", value: Selection([]string{"Red", "Blue"}), json: `["Red","Blue"]`},
		{name: "empty selection", value: Selection(nil), json: `[]`},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			encoded, err := json.Marshal(tc.value)
			if err != nil {
				t.Fatalf("marshal failed: %v", err)
			}
			if string(encoded) != tc.json {
				t.Errorf("expected %s, got %s", tc.json, encoded)
			}

			var decoded Value
			if err := json.Unmarshal(encoded, &decoded); err != nil {
				t.Fatalf("unmarshal failed: %v", err)
			}
			if !decoded.Equal(tc.value) {
				t.Errorf("round trip changed value: %s -> %s", tc.value.Kind(), decoded.Kind())
			}
		})
	}
}

func TestValue_UnmarshalRejectsObjects(t *testing.T) {
	var v Value
	if err := json.Unmarshal([]byte(`{"nested":true}`), &v); err == nil {
		t.Fatal("expected object values to be rejected")
	}
}

func TestValue_Display(t *testing.T) {
	if got := Number(3.5).Display(); got != "3.5" {
		t.Errorf("expected 3.5, got %q", got)
	}
	if got := Number(4).Display(); got != "4" {
		t.Errorf("expected 4, got %q", got)
	}
	if got := Selection([]string{"Red", "Blue"}).Display(); got != "Red, Blue" {
		t.Errorf("expected joined choices, got %q", got)
	}
	if got := Absent().Display(); got != "" {
		t.Errorf("expected empty display, got %q", got)
	}
}
