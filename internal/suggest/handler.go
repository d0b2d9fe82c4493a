package suggest

import (
	"context"
	"net/http"

	"formforge/backend/internal/form/question"

	handlerutil "github.com/NYCU-SDC/summer/pkg/handler"
	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/NYCU-SDC/summer/pkg/problem"
	"github.com/go-playground/validator/v10"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type Request struct {
	Topic             string `json:"topic" validate:"required"`
	Purpose           string `json:"purpose" validate:"required"`
	TargetAudience    string `json:"targetAudience"`
	AdditionalContext string `json:"additionalContext"`
}

type QuestionPayload struct {
	Type     string   `json:"type"`
	Title    string   `json:"title"`
	Options  []string `json:"options,omitempty"`
	Required bool     `json:"required"`
}

type Response struct {
	Questions []QuestionPayload `json:"questions"`
}

type Generator interface {
	Generate(ctx context.Context, prompt Prompt) ([]SuggestedQuestion, error)
}

type Handler struct {
	logger        *zap.Logger
	validator     *validator.Validate
	problemWriter *problem.HttpWriter
	generator     Generator
	tracer        trace.Tracer
}

func NewHandler(logger *zap.Logger, validator *validator.Validate, problemWriter *problem.HttpWriter, generator Generator) *Handler {
	return &Handler{
		logger:        logger,
		validator:     validator,
		problemWriter: problemWriter,
		generator:     generator,
		tracer:        otel.Tracer("suggest/handler"),
	}
}

// SuggestHandler drafts questions for a topic. The returned types are
// already canonical, so the builder UI can create them directly.
func (h *Handler) SuggestHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "SuggestHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	var req Request
	if err := handlerutil.ParseAndValidateRequestBody(traceCtx, h.validator, r, &req); err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	suggestions, err := h.generator.Generate(traceCtx, Prompt{
		Topic:             req.Topic,
		Purpose:           req.Purpose,
		TargetAudience:    req.TargetAudience,
		AdditionalContext: req.AdditionalContext,
	})
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	response := Response{Questions: make([]QuestionPayload, 0, len(suggestions))}
	for _, suggestion := range suggestions {
		questionType := MapType(suggestion.Type)
		payload := QuestionPayload{
			Type:     string(questionType),
			Title:    suggestion.Text,
			Required: suggestion.Required,
		}
		if questionType == question.QuestionTypeSingleChoice || questionType == question.QuestionTypeMultipleChoice {
			payload.Options = suggestion.Options
		}
		response.Questions = append(response.Questions, payload)
	}

	logger.Info("questions suggested",
		zap.String("topic", req.Topic),
		zap.Int("questionCount", len(response.Questions)))

	handlerutil.WriteJSONResponse(w, http.StatusOK, response)
}
