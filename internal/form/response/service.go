package response

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
	Create(ctx context.Context, formID uuid.UUID) (Response, error)
	InsertItems(ctx context.Context, items []InsertItemParams) error
	GetByID(ctx context.Context, id uuid.UUID) (Response, error)
	ListByFormID(ctx context.Context, formID uuid.UUID) ([]Response, error)
	ListItemsByResponseID(ctx context.Context, responseID uuid.UUID) ([]Item, error)
	Delete(ctx context.Context, id uuid.UUID) error
	FormExists(ctx context.Context, id uuid.UUID) (bool, error)
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
		tracer:  otel.Tracer("response/service"),
	}
}

// Create persists a response record and its answers. A failed item write
// rolls the response record back so half-written submissions never surface
// in listings.
func (s *Service) Create(ctx context.Context, formID uuid.UUID, items []ItemParam) (Response, error) {
	ctx, span := s.tracer.Start(ctx, "Create")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	created, err := s.queries.Create(ctx, formID)
	if err != nil {
		err = databaseutil.WrapDBError(err, logger, "create response")
		span.RecordError(err)
		return Response{}, err
	}

	if len(items) == 0 {
		return created, nil
	}

	params := make([]InsertItemParams, len(items))
	for i, item := range items {
		params[i] = InsertItemParams{
			ResponseID: created.ID,
			QuestionID: item.QuestionID,
			Value:      item.Value,
		}
	}

	if err := s.queries.InsertItems(ctx, params); err != nil {
		err = databaseutil.WrapDBError(err, logger, "insert response items")
		span.RecordError(err)

		if deleteErr := s.queries.Delete(ctx, created.ID); deleteErr != nil {
			logger.Error("failed to roll back response after item insert failure",
				zap.String("responseID", created.ID.String()),
				zap.Error(deleteErr))
		}
		return Response{}, err
	}

	logger.Info("response created",
		zap.String("responseID", created.ID.String()),
		zap.String("formID", formID.String()),
		zap.Int("answerCount", len(items)))

	return created, nil
}

func (s *Service) GetWithItems(ctx context.Context, id uuid.UUID) (ResponseWithItems, error) {
	ctx, span := s.tracer.Start(ctx, "GetWithItems")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	r, err := s.queries.GetByID(ctx, id)
	if err != nil {
		err = databaseutil.WrapDBErrorWithKeyValue(err, "responses", "id", id.String(), logger, "get response by id")
		span.RecordError(err)
		return ResponseWithItems{}, err
	}

	items, err := s.queries.ListItemsByResponseID(ctx, id)
	if err != nil {
		err = databaseutil.WrapDBError(err, logger, "list response items")
		span.RecordError(err)
		return ResponseWithItems{}, err
	}

	return ResponseWithItems{Response: r, Items: items}, nil
}

func (s *Service) ListByFormID(ctx context.Context, formID uuid.UUID) ([]Response, error) {
	ctx, span := s.tracer.Start(ctx, "ListByFormID")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	exists, err := s.queries.FormExists(ctx, formID)
	if err != nil {
		err = databaseutil.WrapDBError(err, logger, "check form exists")
		span.RecordError(err)
		return nil, err
	}
	if !exists {
		return nil, internal.ErrFormNotFound
	}

	list, err := s.queries.ListByFormID(ctx, formID)
	if err != nil {
		err = databaseutil.WrapDBError(err, logger, "list responses by form id")
		span.RecordError(err)
		return nil, err
	}
	return list, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	ctx, span := s.tracer.Start(ctx, "Delete")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	err := s.queries.Delete(ctx, id)
	if err != nil {
		err = databaseutil.WrapDBErrorWithKeyValue(err, "responses", "id", id.String(), logger, "delete response")
		span.RecordError(err)
		return err
	}
	return nil
}
