package answer

import (
	"strconv"
	"strings"

	"formforge/backend/internal/form/question"
)

// Normalize coerces raw input into the canonical value for a question type.
// It is total: any value in, some value out, and running it twice gives the
// same result as running it once.
//
// Only numeric question types coerce. A blank string becomes absent, a
// parseable string becomes its number, and anything else passes through
// untouched for validation to report.
func Normalize(t question.QuestionType, v Value) Value {
	switch t {
	case question.QuestionTypeNumber, question.QuestionTypeRating, question.QuestionTypeScale:
		text, ok := v.Text()
		if !ok {
			return v
		}
		trimmed := strings.TrimSpace(text)
		if trimmed == "" {
			return Absent()
		}
		if n, ok := parseLeadingFloat(trimmed); ok {
			return Number(n)
		}
		return v
	default:
		return v
	}
}

// parseLeadingFloat parses the longest numeric prefix of s, so "3.5 stars"
// yields 3.5. Strings with no numeric prefix fail.
func parseLeadingFloat(s string) (float64, bool) {
	end := 0
	seenDigit := false
	seenDot := false
	seenExp := false
	for i, r := range s {
		switch {
		case r >= '0' && r <= '9':
			seenDigit = true
		case (r == '+' || r == '-') && i == 0:
		case r == '.' && !seenDot && !seenExp:
			seenDot = true
		case (r == 'e' || r == 'E') && seenDigit && !seenExp:
			seenExp = true
			seenDigit = false
		case (r == '+' || r == '-') && i > 0 && (s[i-1] == 'e' || s[i-1] == 'E'):
		default:
			goto done
		}
		end = i + 1
	}
done:
	for end > 0 {
		if n, err := strconv.ParseFloat(s[:end], 64); err == nil {
			return n, true
		}
		end--
	}
	return 0, false
}

// Toggle flips one choice in a multi-select answer. A non-selection value is
// treated as an empty selection first, so toggling into a fresh question
// yields a single-choice selection. Removal preserves the order of the
// remaining choices.
func Toggle(v Value, choice string) Value {
	current, ok := v.Selection()
	if !ok {
		current = nil
	}

	if v.Contains(choice) {
		filtered := make([]string, 0, len(current))
		for _, c := range current {
			if c != choice {
				filtered = append(filtered, c)
			}
		}
		return Selection(filtered)
	}

	return Selection(append(current, choice))
}
