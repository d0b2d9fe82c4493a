package question

import (
	"context"

	"formforge/backend/internal"

	databaseutil "github.com/NYCU-SDC/summer/pkg/database"
	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type Querier interface {
	Create(ctx context.Context, arg CreateParams) (Question, error)
	Update(ctx context.Context, arg UpdateParams) (Question, error)
	GetByID(ctx context.Context, id uuid.UUID) (Question, error)
	ListBySectionID(ctx context.Context, sectionID uuid.UUID) ([]Question, error)
	CountBySectionID(ctx context.Context, sectionID uuid.UUID) (int64, error)
	SectionExists(ctx context.Context, id uuid.UUID) (bool, error)
	SetOrder(ctx context.Context, arg SetOrderParams) (Question, error)
	DeleteAndReorder(ctx context.Context, arg DeleteAndReorderParams) error
}

type Service struct {
	logger  *zap.Logger
	queries Querier
	tracer  trace.Tracer
}

func NewService(logger *zap.Logger, db DBTX) *Service {
	return &Service{
		logger:  logger,
		queries: New(db),
		tracer:  otel.Tracer("question/service"),
	}
}

func (s *Service) Create(ctx context.Context, input CreateParams) (Question, error) {
	ctx, span := s.tracer.Start(ctx, "Create")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	exists, err := s.queries.SectionExists(ctx, input.SectionID)
	if err != nil {
		err = databaseutil.WrapDBError(err, logger, "check section exists")
		span.RecordError(err)
		return Question{}, err
	}
	if !exists {
		return Question{}, internal.ErrSectionNotFound
	}

	count, err := s.queries.CountBySectionID(ctx, input.SectionID)
	if err != nil {
		err = databaseutil.WrapDBError(err, logger, "count questions in section")
		span.RecordError(err)
		return Question{}, err
	}

	// Clamp requested order to [1, count+1]
	effectiveOrder := input.Order
	if effectiveOrder < 1 {
		effectiveOrder = 1
	}
	if effectiveOrder > int32(count+1) {
		effectiveOrder = int32(count + 1)
	}

	createInput := input
	createInput.Order = effectiveOrder

	// Insert in the middle: create at end then move into place
	if effectiveOrder <= int32(count) {
		createInput.Order = int32(count + 1)
	}
	created, err := s.queries.Create(ctx, createInput)
	if err != nil {
		err = databaseutil.WrapDBError(err, logger, "create question")
		span.RecordError(err)
		return Question{}, err
	}

	if effectiveOrder <= int32(count) {
		moved, err := s.queries.SetOrder(ctx, SetOrderParams{
			SectionID: input.SectionID,
			ID:        created.ID,
			Order:     effectiveOrder,
		})
		if err != nil {
			err = databaseutil.WrapDBError(err, logger, "update question order")
			span.RecordError(err)
			return Question{}, err
		}
		return moved, nil
	}

	return created, nil
}

// Update updates question fields and, if order differs from the current
// order, moves the question (clamped to [1, count]).
func (s *Service) Update(ctx context.Context, input UpdateParams, order int32) (Question, error) {
	ctx, span := s.tracer.Start(ctx, "Update")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	updated, err := s.queries.Update(ctx, input)
	if err != nil {
		err = databaseutil.WrapDBErrorWithKeyValue(err, "questions", "id", input.ID.String(), logger, "update question")
		span.RecordError(err)
		return Question{}, err
	}

	if updated.Order == order {
		return updated, nil
	}

	count, err := s.queries.CountBySectionID(ctx, input.SectionID)
	if err != nil {
		err = databaseutil.WrapDBError(err, logger, "count questions in section")
		span.RecordError(err)
		return Question{}, err
	}

	effectiveOrder := order
	if effectiveOrder < 1 {
		effectiveOrder = 1
	} else if effectiveOrder > int32(count) {
		effectiveOrder = int32(count)
	}

	moved, err := s.queries.SetOrder(ctx, SetOrderParams{
		SectionID: input.SectionID,
		ID:        input.ID,
		Order:     effectiveOrder,
	})
	if err != nil {
		err = databaseutil.WrapDBError(err, logger, "update question order")
		span.RecordError(err)
		return Question{}, err
	}
	return moved, nil
}

func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (Question, error) {
	ctx, span := s.tracer.Start(ctx, "GetByID")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	q, err := s.queries.GetByID(ctx, id)
	if err != nil {
		err = databaseutil.WrapDBErrorWithKeyValue(err, "questions", "id", id.String(), logger, "get question by id")
		span.RecordError(err)
		return Question{}, err
	}
	return q, nil
}

func (s *Service) ListBySectionID(ctx context.Context, sectionID uuid.UUID) ([]Question, error) {
	ctx, span := s.tracer.Start(ctx, "ListBySectionID")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	exists, err := s.queries.SectionExists(ctx, sectionID)
	if err != nil {
		err = databaseutil.WrapDBError(err, logger, "check section exists")
		span.RecordError(err)
		return nil, err
	}
	if !exists {
		return nil, internal.ErrSectionNotFound
	}

	list, err := s.queries.ListBySectionID(ctx, sectionID)
	if err != nil {
		err = databaseutil.WrapDBError(err, logger, "list questions by section id")
		span.RecordError(err)
		return nil, err
	}
	return list, nil
}

func (s *Service) DeleteAndReorder(ctx context.Context, sectionID uuid.UUID, id uuid.UUID) error {
	ctx, span := s.tracer.Start(ctx, "DeleteAndReorder")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	err := s.queries.DeleteAndReorder(ctx, DeleteAndReorderParams{
		SectionID: sectionID,
		ID:        id,
	})
	if err != nil {
		err = databaseutil.WrapDBErrorWithKeyValue(err, "questions", "id", id.String(), logger, "delete and re-index remaining questions")
		span.RecordError(err)
		return err
	}

	return nil
}
