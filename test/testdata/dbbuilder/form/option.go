package formbuilder

import (
	"encoding/json"

	"formforge/backend/internal/form"
	"formforge/backend/internal/form/question"
)

type Option func(*FactoryParams)

type FactoryParams struct {
	Title       string
	Description string
	Slug        string
	Status      form.Status
}

func WithTitle(title string) Option {
	return func(p *FactoryParams) { p.Title = title }
}

func WithDescription(description string) Option {
	return func(p *FactoryParams) { p.Description = description }
}

func WithSlug(slug string) Option {
	return func(p *FactoryParams) { p.Slug = slug }
}

func WithStatus(status form.Status) Option {
	return func(p *FactoryParams) { p.Status = status }
}

type SectionOption func(*SectionParams)

type SectionParams struct {
	Title       string
	Description string
}

func WithSectionTitle(title string) SectionOption {
	return func(p *SectionParams) { p.Title = title }
}

type QuestionOption func(*QuestionParams)

type QuestionParams struct {
	Type       question.QuestionType
	Title      string
	Required   bool
	Order      int32
	Options    json.RawMessage
	Validation *question.Rule
}

func WithQuestionType(questionType question.QuestionType) QuestionOption {
	return func(p *QuestionParams) { p.Type = questionType }
}

func WithQuestionTitle(title string) QuestionOption {
	return func(p *QuestionParams) { p.Title = title }
}

func WithRequired(required bool) QuestionOption {
	return func(p *QuestionParams) { p.Required = required }
}

func WithOrder(order int32) QuestionOption {
	return func(p *QuestionParams) { p.Order = order }
}

func WithQuestionOptions(options json.RawMessage) QuestionOption {
	return func(p *QuestionParams) { p.Options = options }
}

func WithValidation(rule *question.Rule) QuestionOption {
	return func(p *QuestionParams) { p.Validation = rule }
}
