package form

import (
	"context"

	"formforge/backend/internal"
	"formforge/backend/internal/form/question"

	databaseutil "github.com/NYCU-SDC/summer/pkg/database"
	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type Querier interface {
	Create(ctx context.Context, arg CreateParams) (Form, error)
	Update(ctx context.Context, arg UpdateParams) (Form, error)
	GetByID(ctx context.Context, id uuid.UUID) (Form, error)
	GetBySlug(ctx context.Context, slug string) (Form, error)
	List(ctx context.Context) ([]Form, error)
	SetStatus(ctx context.Context, arg SetStatusParams) (Form, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CreateSection(ctx context.Context, arg CreateSectionParams) (Section, error)
	UpdateSection(ctx context.Context, arg UpdateSectionParams) (Section, error)
	ListSectionsByFormID(ctx context.Context, formID uuid.UUID) ([]Section, error)
	DeleteSection(ctx context.Context, formID uuid.UUID, id uuid.UUID) error
	Exists(ctx context.Context, id uuid.UUID) (bool, error)
}

// QuestionStore loads the questions hanging off a form's sections.
type QuestionStore interface {
	ListBySectionID(ctx context.Context, sectionID uuid.UUID) ([]question.Question, error)
}

type Service struct {
	logger        *zap.Logger
	queries       Querier
	questionStore QuestionStore
	sanitizer     *bluemonday.Policy
	tracer        trace.Tracer
}

func NewService(logger *zap.Logger, db DBTX, questionStore QuestionStore) *Service {
	return &Service{
		logger:        logger,
		queries:       New(db),
		questionStore: questionStore,
		sanitizer:     bluemonday.UGCPolicy(),
		tracer:        otel.Tracer("form/service"),
	}
}

func (s *Service) Create(ctx context.Context, title, description, slug string) (Form, error) {
	ctx, span := s.tracer.Start(ctx, "Create")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	newForm, err := s.queries.Create(ctx, CreateParams{
		Title:       title,
		Description: s.sanitizer.Sanitize(description),
		Slug:        slug,
	})
	if err != nil {
		err = databaseutil.WrapDBError(err, logger, "create form")
		span.RecordError(err)
		return Form{}, err
	}

	logger.Info("form created",
		zap.String("formID", newForm.ID.String()),
		zap.String("title", title))

	return newForm, nil
}

func (s *Service) Update(ctx context.Context, id uuid.UUID, title, description, slug string) (Form, error) {
	ctx, span := s.tracer.Start(ctx, "Update")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	updated, err := s.queries.Update(ctx, UpdateParams{
		ID:          id,
		Title:       title,
		Description: s.sanitizer.Sanitize(description),
		Slug:        slug,
	})
	if err != nil {
		err = databaseutil.WrapDBErrorWithKeyValue(err, "forms", "id", id.String(), logger, "update form")
		span.RecordError(err)
		return Form{}, err
	}

	return updated, nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (Form, error) {
	ctx, span := s.tracer.Start(ctx, "GetByID")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	f, err := s.queries.GetByID(ctx, id)
	if err != nil {
		err = databaseutil.WrapDBErrorWithKeyValue(err, "forms", "id", id.String(), logger, "get form by id")
		span.RecordError(err)
		return Form{}, err
	}
	return f, nil
}

func (s *Service) GetBySlug(ctx context.Context, slug string) (Form, error) {
	ctx, span := s.tracer.Start(ctx, "GetBySlug")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	f, err := s.queries.GetBySlug(ctx, slug)
	if err != nil {
		err = databaseutil.WrapDBErrorWithKeyValue(err, "forms", "slug", slug, logger, "get form by slug")
		span.RecordError(err)
		return Form{}, err
	}
	return f, nil
}

func (s *Service) List(ctx context.Context) ([]Form, error) {
	ctx, span := s.tracer.Start(ctx, "List")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	list, err := s.queries.List(ctx)
	if err != nil {
		err = databaseutil.WrapDBError(err, logger, "list forms")
		span.RecordError(err)
		return nil, err
	}
	return list, nil
}

// SetStatus moves a form along its lifecycle, rejecting transitions the
// lifecycle does not allow.
func (s *Service) SetStatus(ctx context.Context, id uuid.UUID, next Status) (Form, error) {
	ctx, span := s.tracer.Start(ctx, "SetStatus")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	current, err := s.queries.GetByID(ctx, id)
	if err != nil {
		err = databaseutil.WrapDBErrorWithKeyValue(err, "forms", "id", id.String(), logger, "get form by id")
		span.RecordError(err)
		return Form{}, err
	}

	if !current.Status.CanTransitionTo(next) {
		logger.Warn("rejected form status transition",
			zap.String("formID", id.String()),
			zap.String("from", string(current.Status)),
			zap.String("to", string(next)))
		return Form{}, internal.ErrStatusTransition
	}

	updated, err := s.queries.SetStatus(ctx, SetStatusParams{ID: id, Status: next})
	if err != nil {
		err = databaseutil.WrapDBError(err, logger, "set form status")
		span.RecordError(err)
		return Form{}, err
	}
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, span := s.tracer.Start(ctx, "Delete")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	err := s.queries.Delete(ctx, id)
	if err != nil {
		err = databaseutil.WrapDBErrorWithKeyValue(err, "forms", "id", id.String(), logger, "delete form")
		span.RecordError(err)
		return err
	}
	return nil
}

// GetWithSections loads the full form tree: the form, its sections in
// order, and each section's questions in order.
func (s *Service) GetWithSections(ctx context.Context, id uuid.UUID) (FormWithSections, error) {
	ctx, span := s.tracer.Start(ctx, "GetWithSections")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	f, err := s.queries.GetByID(ctx, id)
	if err != nil {
		err = databaseutil.WrapDBErrorWithKeyValue(err, "forms", "id", id.String(), logger, "get form by id")
		span.RecordError(err)
		return FormWithSections{}, err
	}

	sections, err := s.queries.ListSectionsByFormID(ctx, id)
	if err != nil {
		err = databaseutil.WrapDBError(err, logger, "list sections by form id")
		span.RecordError(err)
		return FormWithSections{}, err
	}

	tree := FormWithSections{Form: f}
	for _, section := range sections {
		questions, err := s.questionStore.ListBySectionID(ctx, section.ID)
		if err != nil {
			span.RecordError(err)
			return FormWithSections{}, err
		}
		tree.Sections = append(tree.Sections, SectionWithQuestions{
			Section:   section,
			Questions: questions,
		})
	}

	return tree, nil
}

func (s *Service) CreateSection(ctx context.Context, formID uuid.UUID, title, description string) (Section, error) {
	ctx, span := s.tracer.Start(ctx, "CreateSection")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	exists, err := s.queries.Exists(ctx, formID)
	if err != nil {
		err = databaseutil.WrapDBError(err, logger, "check form exists")
		span.RecordError(err)
		return Section{}, err
	}
	if !exists {
		return Section{}, internal.ErrFormNotFound
	}

	created, err := s.queries.CreateSection(ctx, CreateSectionParams{
		FormID:      formID,
		Title:       title,
		Description: s.sanitizer.Sanitize(description),
	})
	if err != nil {
		err = databaseutil.WrapDBError(err, logger, "create section")
		span.RecordError(err)
		return Section{}, err
	}
	return created, nil
}

func (s *Service) UpdateSection(ctx context.Context, formID, id uuid.UUID, title, description string) (Section, error) {
	ctx, span := s.tracer.Start(ctx, "UpdateSection")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	updated, err := s.queries.UpdateSection(ctx, UpdateSectionParams{
		ID:          id,
		FormID:      formID,
		Title:       title,
		Description: s.sanitizer.Sanitize(description),
	})
	if err != nil {
		err = databaseutil.WrapDBErrorWithKeyValue(err, "sections", "id", id.String(), logger, "update section")
		span.RecordError(err)
		return Section{}, err
	}
	return updated, nil
}

func (s *Service) DeleteSection(ctx context.Context, formID, id uuid.UUID) error {
	ctx, span := s.tracer.Start(ctx, "DeleteSection")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	err := s.queries.DeleteSection(ctx, formID, id)
	if err != nil {
		err = databaseutil.WrapDBErrorWithKeyValue(err, "sections", "id", id.String(), logger, "delete section")
		span.RecordError(err)
		return err
	}
	return nil
}
