// Package answer models respondent input as a small closed union: a value
// is absent, a text string, a number, or an ordered selection of choices.
// Keeping the union closed lets validation and assembly stay total over it.
package answer

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

type Kind uint8

const (
	KindAbsent Kind = iota
	KindText
	KindNumber
	KindSelection
)

func (k Kind) String() string {
	switch k {
	case KindAbsent:
		return "absent"
	case KindText:
		return "text"
	case KindNumber:
		return "number"
	case KindSelection:
		return "selection"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Value is one answer to one question. The zero value is Absent.
type Value struct {
	kind      Kind
	text      string
	number    float64
	selection []string
}

func Absent() Value {
	return Value{}
}

func Text(s string) Value {
	return Value{kind: KindText, text: s}
}

func Number(n float64) Value {
	return Value{kind: KindNumber, number: n}
}

// Selection copies the given choices so callers cannot mutate the value
// afterwards.
func Selection(choices []string) Value {
	copied := make([]string, len(choices))
	copy(copied, choices)
	return Value{kind: KindSelection, selection: copied}
}

func (v Value) Kind() Kind {
	return v.kind
}

func (v Value) IsAbsent() bool {
	return v.kind == KindAbsent
}

func (v Value) Text() (string, bool) {
	return v.text, v.kind == KindText
}

func (v Value) Number() (float64, bool) {
	return v.number, v.kind == KindNumber
}

// Selection returns the choices in insertion order. The returned slice is a
// copy.
func (v Value) Selection() ([]string, bool) {
	if v.kind != KindSelection {
		return nil, false
	}
	copied := make([]string, len(v.selection))
	copy(copied, v.selection)
	return copied, true
}

// Empty reports whether the value counts as unanswered: absent, an empty
// string, or a selection with no choices. Whitespace-only text is an answer.
func (v Value) Empty() bool {
	switch v.kind {
	case KindAbsent:
		return true
	case KindText:
		return v.text == ""
	case KindSelection:
		return len(v.selection) == 0
	default:
		return false
	}
}

// Contains reports whether a selection value includes the given choice.
// Non-selection values never contain anything.
func (v Value) Contains(choice string) bool {
	if v.kind != KindSelection {
		return false
	}
	for _, c := range v.selection {
		if c == choice {
			return true
		}
	}
	return false
}

func (v Value) Equal(other Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindText:
		return v.text == other.text
	case KindNumber:
		return v.number == other.number
	case KindSelection:
		if len(v.selection) != len(other.selection) {
			return false
		}
		for i := range v.selection {
			if v.selection[i] != other.selection[i] {
				return false
			}
		}
		return true
	default:
		return true
	}
}

// Display renders the value for humans: selections join with ", ", numbers
// drop the trailing zeros, absent renders empty.
func (v Value) Display() string {
	switch v.kind {
	case KindText:
		return v.text
	case KindNumber:
		return strconv.FormatFloat(v.number, 'f', -1, 64)
	case KindSelection:
		return strings.Join(v.selection, ", ")
	default:
		return ""
	}
}

// MarshalJSON encodes absent as null, text as a string, number as a number
// and selection as a string array.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindText:
		return json.Marshal(v.text)
	case KindNumber:
		return json.Marshal(v.number)
	case KindSelection:
		if v.selection == nil {
			return json.Marshal([]string{})
		}
		return json.Marshal(v.selection)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON accepts the same shapes MarshalJSON produces. Any other JSON
// shape is rejected.
func (v *Value) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*v = Absent()
		return nil
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Text(s)
		return nil
	case '[':
		var list []string
		if err := json.Unmarshal(data, &list); err != nil {
			return fmt.Errorf("selection answers must be string arrays: %w", err)
		}
		*v = Selection(list)
		return nil
	default:
		var n float64
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("unsupported answer value shape: %s", trimmed)
		}
		*v = Number(n)
		return nil
	}
}
