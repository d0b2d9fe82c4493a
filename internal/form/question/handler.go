package question

import (
	"context"
	"net/http"
	"strings"
	"time"

	handlerutil "github.com/NYCU-SDC/summer/pkg/handler"
	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/NYCU-SDC/summer/pkg/problem"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type Request struct {
	Required    *bool          `json:"required" validate:"required"`
	Type        string         `json:"type" validate:"required,oneof=SHORT_TEXT LONG_TEXT SINGLE_CHOICE MULTIPLE_CHOICE RATING SCALE DATE TIME EMAIL PHONE NUMBER FILE_UPLOAD"`
	Title       string         `json:"title" validate:"required"`
	Description string         `json:"description"`
	Order       int32          `json:"order" validate:"required,min=1"`
	// Per-type option requirements are enforced in getGenerateOptions.
	Choices     []ChoiceOption `json:"choices,omitempty" validate:"omitempty,dive"`
	Scale       ScaleOption    `json:"scale,omitempty"`
	MaxRating   int            `json:"maxRating,omitempty"`
	Validation  *Rule          `json:"validation,omitempty"`
}

type Response struct {
	ID          uuid.UUID    `json:"id"`
	SectionID   uuid.UUID    `json:"sectionId"`
	Required    bool         `json:"required"`
	Type        string       `json:"type"`
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Order       int32        `json:"order"`
	Choices     []string     `json:"choices,omitempty"`
	Scale       *ScaleOption `json:"scale,omitempty"`
	MaxRating   int          `json:"maxRating,omitempty"`
	Validation  *Rule        `json:"validation,omitempty"`
	Renderer    RendererKind `json:"renderer"`
	CreatedAt   time.Time    `json:"createdAt"`
	UpdatedAt   time.Time    `json:"updatedAt"`
}

func ToResponse(q Question) Response {
	response := Response{
		ID:          q.ID,
		SectionID:   q.SectionID,
		Required:    q.Required,
		Type:        strings.ToUpper(string(q.Type)),
		Title:       q.Title,
		Description: q.Description,
		Order:       q.Order,
		Validation:  q.Validation,
		Renderer:    SelectRenderer(q.Type),
		CreatedAt:   q.CreatedAt,
		UpdatedAt:   q.UpdatedAt,
	}

	switch q.Type {
	case QuestionTypeSingleChoice, QuestionTypeMultipleChoice:
		response.Choices = q.Choices()
	case QuestionTypeScale:
		bounds := q.ScaleBounds()
		response.Scale = &ScaleOption{
			Min:        bounds.Min,
			Max:        bounds.Max,
			Step:       bounds.Step,
			StartLabel: bounds.StartLabel,
			EndLabel:   bounds.EndLabel,
		}
	case QuestionTypeRating:
		response.MaxRating = q.MaxRating()
	}

	return response
}

// getGenerateOptions builds the stored option bag from the request, picking
// the generator for the question type. Types without options return nil.
func getGenerateOptions(req Request) ([]byte, error) {
	questionType := QuestionType(req.Type)

	switch questionType {
	case QuestionTypeSingleChoice, QuestionTypeMultipleChoice:
		return GenerateChoiceOptions(questionType, req.Choices)
	case QuestionTypeScale:
		return GenerateScaleOptions(req.Scale)
	case QuestionTypeRating:
		return GenerateRatingOptions(req.MaxRating)
	default:
		return nil, nil
	}
}

type Store interface {
	Create(ctx context.Context, input CreateParams) (Question, error)
	Update(ctx context.Context, input UpdateParams, order int32) (Question, error)
	ListBySectionID(ctx context.Context, sectionID uuid.UUID) ([]Question, error)
	DeleteAndReorder(ctx context.Context, sectionID uuid.UUID, id uuid.UUID) error
}

type Handler struct {
	logger *zap.Logger
	tracer trace.Tracer

	validator     *validator.Validate
	problemWriter *problem.HttpWriter

	store Store
}

func NewHandler(
	logger *zap.Logger,
	validator *validator.Validate,
	problemWriter *problem.HttpWriter,
	store Store,
) *Handler {
	return &Handler{
		logger:        logger,
		tracer:        otel.Tracer("question/handler"),
		validator:     validator,
		problemWriter: problemWriter,
		store:         store,
	}
}

func (h *Handler) AddHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "AddHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	sectionIDStr := r.PathValue("sectionId")
	sectionID, err := handlerutil.ParseUUID(sectionIDStr)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	var req Request
	if err := handlerutil.ParseAndValidateRequestBody(traceCtx, h.validator, r, &req); err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}
	req.Type = strings.ToLower(req.Type)

	options, err := getGenerateOptions(req)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	request := CreateParams{
		SectionID:   sectionID,
		Required:    *req.Required,
		Type:        QuestionType(req.Type),
		Title:       req.Title,
		Description: req.Description,
		Order:       req.Order,
		Options:     options,
		Validation:  req.Validation,
	}

	created, err := h.store.Create(traceCtx, request)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	handlerutil.WriteJSONResponse(w, http.StatusCreated, ToResponse(created))
}

func (h *Handler) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "UpdateHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	idStr := r.PathValue("questionId")
	id, err := handlerutil.ParseUUID(idStr)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	sectionIDStr := r.PathValue("sectionId")
	sectionID, err := handlerutil.ParseUUID(sectionIDStr)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	var req Request
	err = handlerutil.ParseAndValidateRequestBody(traceCtx, h.validator, r, &req)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}
	req.Type = strings.ToLower(req.Type)

	options, err := getGenerateOptions(req)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	request := UpdateParams{
		ID:          id,
		SectionID:   sectionID,
		Required:    *req.Required,
		Type:        QuestionType(req.Type),
		Title:       req.Title,
		Description: req.Description,
		Options:     options,
		Validation:  req.Validation,
	}

	updated, err := h.store.Update(traceCtx, request, req.Order)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	handlerutil.WriteJSONResponse(w, http.StatusOK, ToResponse(updated))
}

func (h *Handler) ListBySectionHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "ListBySectionHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	sectionIDStr := r.PathValue("sectionId")
	sectionID, err := handlerutil.ParseUUID(sectionIDStr)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	list, err := h.store.ListBySectionID(traceCtx, sectionID)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	response := make([]Response, len(list))
	for i, q := range list {
		response[i] = ToResponse(q)
	}

	handlerutil.WriteJSONResponse(w, http.StatusOK, response)
}

func (h *Handler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "DeleteHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	sectionIDStr := r.PathValue("sectionId")
	sectionID, err := handlerutil.ParseUUID(sectionIDStr)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	idStr := r.PathValue("questionId")
	id, err := handlerutil.ParseUUID(idStr)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	err = h.store.DeleteAndReorder(traceCtx, sectionID, id)
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
