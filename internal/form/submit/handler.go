package submit

import (
	"context"
	"errors"
	"net/http"
	"time"

	"formforge/backend/internal"
	"formforge/backend/internal/form/answer"
	"formforge/backend/internal/form/response"

	handlerutil "github.com/NYCU-SDC/summer/pkg/handler"
	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/NYCU-SDC/summer/pkg/problem"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type AnswerPayload struct {
	QuestionID uuid.UUID    `json:"questionId" validate:"required"`
	Value      answer.Value `json:"value"`
}

type Request struct {
	Answers []AnswerPayload `json:"answers" validate:"required,dive"`
}

type Response struct {
	ID          uuid.UUID `json:"id"`
	FormID      uuid.UUID `json:"formId"`
	SubmittedAt time.Time `json:"submittedAt"`
}

type FailurePayload struct {
	Message string `json:"message"`
}

type RejectionResponse struct {
	Errors []FailurePayload `json:"errors"`
}

type Operator interface {
	Submit(ctx context.Context, formID uuid.UUID, answers []Answer) (response.Response, []error)
}

type Handler struct {
	logger        *zap.Logger
	validator     *validator.Validate
	problemWriter *problem.HttpWriter
	operator      Operator
	tracer        trace.Tracer
}

func NewHandler(logger *zap.Logger, validator *validator.Validate, problemWriter *problem.HttpWriter, operator Operator) *Handler {
	return &Handler{
		logger:        logger,
		validator:     validator,
		problemWriter: problemWriter,
		operator:      operator,
		tracer:        otel.Tracer("submit/handler"),
	}
}

// SubmitHandler accepts one complete set of answers for a form. Validation
// failures come back all at once as 422 so the respondent can fix every
// field in one pass.
func (h *Handler) SubmitHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "SubmitHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	formID, err := handlerutil.ParseUUID(r.PathValue("formId"))
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	var request Request
	err = handlerutil.ParseAndValidateRequestBody(traceCtx, h.validator, r, &request)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	answers := make([]Answer, 0, len(request.Answers))
	for _, item := range request.Answers {
		answers = append(answers, Answer{
			QuestionID: item.QuestionID,
			Value:      item.Value,
		})
	}

	saved, errs := h.operator.Submit(traceCtx, formID, answers)
	if len(errs) > 0 {
		h.writeRejection(traceCtx, w, errs, logger)
		return
	}

	handlerutil.WriteJSONResponse(w, http.StatusCreated, Response{
		ID:          saved.ID,
		FormID:      saved.FormID,
		SubmittedAt: saved.SubmittedAt,
	})
}

// writeRejection renders a validation batch as 422 with every message, and
// defers anything else to the problem writer.
func (h *Handler) writeRejection(ctx context.Context, w http.ResponseWriter, errs []error, logger *zap.Logger) {
	if len(errs) < 2 || !errors.Is(errs[0], internal.ErrValidationFailed) {
		h.problemWriter.WriteError(ctx, w, errs[0], logger)
		return
	}

	rejection := RejectionResponse{}
	for _, err := range errs[1:] {
		rejection.Errors = append(rejection.Errors, FailurePayload{Message: err.Error()})
	}

	handlerutil.WriteJSONResponse(w, http.StatusUnprocessableEntity, rejection)
}
