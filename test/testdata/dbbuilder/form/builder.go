package formbuilder

import (
	"context"
	"testing"

	"formforge/backend/internal/form"
	"formforge/backend/internal/form/question"
	"formforge/backend/test/testdata"
	"formforge/backend/test/testdata/dbbuilder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type Builder struct {
	t  *testing.T
	db dbbuilder.DBTX
}

func New(t *testing.T, db dbbuilder.DBTX) *Builder {
	return &Builder{t: t, db: db}
}

func (b Builder) Queries() *form.Queries {
	return form.New(b.db)
}

func (b Builder) Create(opts ...Option) form.Form {
	queries := b.Queries()

	p := &FactoryParams{
		Title:       testdata.RandomName(),
		Description: testdata.RandomDescription(),
		Slug:        testdata.RandomSlug(),
	}
	for _, opt := range opts {
		opt(p)
	}

	created, err := queries.Create(context.Background(), form.CreateParams{
		Title:       p.Title,
		Description: p.Description,
		Slug:        p.Slug,
	})
	require.NoError(b.t, err)

	if p.Status != "" && p.Status != form.StatusDraft {
		created, err = queries.SetStatus(context.Background(), form.SetStatusParams{ID: created.ID, Status: p.Status})
		require.NoError(b.t, err)
	}

	return created
}

func (b Builder) CreateSection(formID uuid.UUID, opts ...SectionOption) form.Section {
	queries := b.Queries()

	p := &SectionParams{
		Title:       testdata.RandomName(),
		Description: testdata.RandomDescription(),
	}
	for _, opt := range opts {
		opt(p)
	}

	section, err := queries.CreateSection(context.Background(), form.CreateSectionParams{
		FormID:      formID,
		Title:       p.Title,
		Description: p.Description,
	})
	require.NoError(b.t, err)

	return section
}

func (b Builder) CreateQuestion(sectionID uuid.UUID, opts ...QuestionOption) question.Question {
	queries := question.New(b.db)

	p := &QuestionParams{
		Type:  question.QuestionTypeShortText,
		Title: testdata.RandomQuestionTitle(),
		Order: 1,
	}
	for _, opt := range opts {
		opt(p)
	}

	created, err := queries.Create(context.Background(), question.CreateParams{
		SectionID:  sectionID,
		Type:       p.Type,
		Title:      p.Title,
		Required:   p.Required,
		Order:      p.Order,
		Options:    p.Options,
		Validation: p.Validation,
	})
	require.NoError(b.t, err)

	return created
}
