package export

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"

	handlerutil "github.com/NYCU-SDC/summer/pkg/handler"
	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/NYCU-SDC/summer/pkg/problem"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type Exporter interface {
	WriteXLSX(ctx context.Context, formID uuid.UUID, w io.Writer) error
}

type Handler struct {
	logger        *zap.Logger
	problemWriter *problem.HttpWriter
	exporter      Exporter
	tracer        trace.Tracer
}

func NewHandler(logger *zap.Logger, problemWriter *problem.HttpWriter, exporter Exporter) *Handler {
	return &Handler{
		logger:        logger,
		problemWriter: problemWriter,
		exporter:      exporter,
		tracer:        otel.Tracer("export/handler"),
	}
}

// ExportHandler renders the workbook fully before touching the response, so
// a mid-export failure still comes back as a clean problem document.
func (h *Handler) ExportHandler(w http.ResponseWriter, r *http.Request) {
	traceCtx, span := h.tracer.Start(r.Context(), "ExportHandler")
	defer span.End()
	logger := logutil.WithContext(traceCtx, h.logger)

	formID, err := handlerutil.ParseUUID(r.PathValue("formId"))
	if err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	var buffer bytes.Buffer
	if err := h.exporter.WriteXLSX(traceCtx, formID, &buffer); err != nil {
		h.problemWriter.WriteError(traceCtx, w, err, logger)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "responses-"+formID.String()+".xlsx"))
	w.Header().Set("Content-Length", fmt.Sprintf("%d", buffer.Len()))

	if _, err := w.Write(buffer.Bytes()); err != nil {
		logger.Warn("client disconnected during export download",
			zap.String("formID", formID.String()),
			zap.Error(err))
	}
}
