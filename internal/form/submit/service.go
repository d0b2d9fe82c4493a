package submit

import (
	"context"
	"fmt"

	"formforge/backend/internal"
	"formforge/backend/internal/form"
	"formforge/backend/internal/form/response"

	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type FormStore interface {
	GetWithSections(ctx context.Context, id uuid.UUID) (form.FormWithSections, error)
}

type ResponseStore interface {
	Create(ctx context.Context, formID uuid.UUID, items []response.ItemParam) (response.Response, error)
}

type Service struct {
	logger *zap.Logger
	tracer trace.Tracer

	formStore     FormStore
	responseStore ResponseStore
}

func NewService(logger *zap.Logger, formStore FormStore, responseStore ResponseStore) *Service {
	return &Service{
		logger:        logger,
		tracer:        otel.Tracer("submit/service"),
		formStore:     formStore,
		responseStore: responseStore,
	}
}

// Submit runs one respondent's answers through a full session: load the
// form, apply every answer, validate everything, and persist when clean.
//
// Validation failures are collected across ALL questions, not just the
// first, and come back prepended with ErrValidationFailed so callers can
// classify the batch. Answers referencing unknown questions are collected
// the same way.
func (s *Service) Submit(ctx context.Context, formID uuid.UUID, answers []Answer) (response.Response, []error) {
	traceCtx, span := s.tracer.Start(ctx, "Submit")
	defer span.End()
	logger := logutil.WithContext(traceCtx, s.logger)

	tree, err := s.formStore.GetWithSections(traceCtx, formID)
	if err != nil {
		span.RecordError(err)
		return response.Response{}, []error{err}
	}

	if tree.Form.Status != form.StatusPublished {
		return response.Response{}, []error{internal.ErrFormNotPublished}
	}

	session := NewSession(formID, tree.Questions())

	collected := make([]error, 0)
	for _, ans := range answers {
		if err := session.SetAnswer(ans.QuestionID, ans.Value); err != nil {
			collected = append(collected, fmt.Errorf("question %s: %w", ans.QuestionID, err))
		}
	}

	failures, err := session.BeginSubmit()
	if err != nil {
		return response.Response{}, []error{err}
	}
	for _, failure := range failures {
		collected = append(collected, fmt.Errorf("%s: %s", failure.Title, failure.Message))
	}

	if len(collected) > 0 {
		logger.Warn("submit rejected",
			zap.String("formID", formID.String()),
			zap.Int("failureCount", len(collected)))
		span.RecordError(internal.ErrValidationFailed)
		return response.Response{}, append([]error{internal.ErrValidationFailed}, collected...)
	}

	payload := session.Payload()
	items := make([]response.ItemParam, len(payload))
	for i, ans := range payload {
		items[i] = response.ItemParam{QuestionID: ans.QuestionID, Value: ans.Value}
	}

	saved, err := s.responseStore.Create(traceCtx, formID, items)
	if err != nil {
		session.FailSubmit()
		logger.Error("failed to persist response",
			zap.String("formID", formID.String()),
			zap.Error(err))
		span.RecordError(err)
		return response.Response{}, []error{err}
	}

	session.CompleteSubmit()
	logger.Info("response submitted",
		zap.String("formID", formID.String()),
		zap.String("responseID", saved.ID.String()),
		zap.Int("answerCount", len(items)))

	return saved, nil
}
