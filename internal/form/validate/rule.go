package validate

import (
	"regexp"

	"formforge/backend/internal/form/answer"
	"formforge/backend/internal/form/question"
)

// applyRule evaluates one custom rule against a value. Rules only fire for
// value kinds they understand: a min rule measures string length for text
// and magnitude for numbers, and ignores selections entirely. Malformed
// rule configuration (non-numeric bound, invalid regex, unknown type)
// passes rather than blocking the respondent.
func applyRule(rule question.Rule, v answer.Value) Result {
	switch rule.Type {
	case question.RuleTypeMin:
		bound, ok := rule.NumberValue()
		if !ok {
			return Result{}
		}
		if text, isText := v.Text(); isText && float64(len(text)) < bound {
			return fail(ruleMessage(rule))
		}
		if n, isNumber := v.Number(); isNumber && n < bound {
			return fail(ruleMessage(rule))
		}

	case question.RuleTypeMax:
		bound, ok := rule.NumberValue()
		if !ok {
			return Result{}
		}
		if text, isText := v.Text(); isText && float64(len(text)) > bound {
			return fail(ruleMessage(rule))
		}
		if n, isNumber := v.Number(); isNumber && n > bound {
			return fail(ruleMessage(rule))
		}

	case question.RuleTypePattern:
		pattern, ok := rule.StringValue()
		if !ok {
			return Result{}
		}
		text, isText := v.Text()
		if !isText {
			return Result{}
		}
		re, err := regexp.Compile(pattern)
		if err != nil {
			return Result{}
		}
		if !re.MatchString(text) {
			return fail(ruleMessage(rule))
		}

	case question.RuleTypeEmail:
		if text, isText := v.Text(); isText && !emailPattern.MatchString(text) {
			return fail(ruleMessage(rule))
		}

	case question.RuleTypeOptions:
		allowed, ok := rule.StringListValue()
		if !ok {
			return Result{}
		}
		if choices, isSelection := v.Selection(); isSelection {
			for _, choice := range choices {
				if !containsString(allowed, choice) {
					return fail(ruleMessage(rule))
				}
			}
			return Result{}
		}
		if text, isText := v.Text(); isText && !containsString(allowed, text) {
			return fail(ruleMessage(rule))
		}
	}

	return Result{}
}

// ruleMessage picks the configured message, falling back to a generic one
// when the builder left it blank.
func ruleMessage(rule question.Rule) string {
	if rule.Message != "" {
		return rule.Message
	}
	if rule.Type == question.RuleTypeEmail {
		return MsgInvalidEmail
	}
	return "Invalid value"
}

func containsString(list []string, target string) bool {
	for _, item := range list {
		if item == target {
			return true
		}
	}
	return false
}
