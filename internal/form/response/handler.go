package response

import (
	"context"
	"net/http"
	"time"

	"formforge/backend/internal/form/answer"

	handlerutil "github.com/NYCU-SDC/summer/pkg/handler"
	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/NYCU-SDC/summer/pkg/problem"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type ItemPayload struct {
	QuestionID uuid.UUID    `json:"questionId"`
	Value      answer.Value `json:"value"`
	Display    string       `json:"display"`
}

type ResponsePayload struct {
	ID          uuid.UUID     `json:"id"`
	FormID      uuid.UUID     `json:"formId"`
	SubmittedAt time.Time     `json:"submittedAt"`
	Items       []ItemPayload `json:"items,omitempty"`
}

func toPayload(r Response, items []Item) ResponsePayload {
	payload := ResponsePayload{
		ID:          r.ID,
		FormID:      r.FormID,
		SubmittedAt: r.SubmittedAt,
	}
	for _, item := range items {
		payload.Items = append(payload.Items, ItemPayload{
			QuestionID: item.QuestionID,
			Value:      item.Value,
			Display:    item.Value.Display(),
		})
	}
	return payload
}

type Store interface {
	GetWithItems(ctx context.Context, id uuid.UUID) (ResponseWithItems, error)
	ListByFormID(ctx context.Context, formID uuid.UUID) ([]Response, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type Handler struct {
	logger        *zap.Logger
	problemWriter *problem.HttpWriter
	store         Store
	tracer        trace.Tracer
}

func NewHandler(logger *zap.Logger, problemWriter *problem.HttpWriter, store Store) *Handler {
	return &Handler{
		logger:        logger,
		problemWriter: problemWriter,
		store:         store,
		tracer:        otel.Tracer("response/handler"),
	}
}

func (h *Handler) ListByFormHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "ListByFormHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	formID, err := handlerutil.ParseUUID(r.PathValue("formId"))
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	list, err := h.store.ListByFormID(traceCtx, formID)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	payload := make([]ResponsePayload, len(list))
	for i, item := range list {
		payload[i] = toPayload(item, nil)
	}

	handlerutil.WriteJSONResponse(w, http.StatusOK, payload)
}

func (h *Handler) GetHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "GetHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	id, err := handlerutil.ParseUUID(r.PathValue("responseId"))
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	result, err := h.store.GetWithItems(traceCtx, id)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	handlerutil.WriteJSONResponse(w, http.StatusOK, toPayload(result.Response, result.Items))
}

func (h *Handler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "DeleteHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	id, err := handlerutil.ParseUUID(r.PathValue("responseId"))
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	if err := h.store.Delete(traceCtx, id); err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
