// Package export renders a form's collected responses as an xlsx workbook:
// one column per question in form order, one row per response.
package export

import (
	"context"
	"fmt"
	"io"

	"formforge/backend/internal"
	"formforge/backend/internal/form"
	"formforge/backend/internal/form/answer"
	"formforge/backend/internal/form/response"

	logutil "github.com/NYCU-SDC/summer/pkg/log"
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const sheetName = "Responses"

type FormStore interface {
	GetWithSections(ctx context.Context, id uuid.UUID) (form.FormWithSections, error)
}

type ResponseStore interface {
	ListByFormID(ctx context.Context, formID uuid.UUID) ([]response.Response, error)
	GetWithItems(ctx context.Context, id uuid.UUID) (response.ResponseWithItems, error)
}

type Service struct {
	logger        *zap.Logger
	tracer        trace.Tracer
	formStore     FormStore
	responseStore ResponseStore
}

func NewService(logger *zap.Logger, formStore FormStore, responseStore ResponseStore) *Service {
	return &Service{
		logger:        logger,
		tracer:        otel.Tracer("export/service"),
		formStore:     formStore,
		responseStore: responseStore,
	}
}

// WriteXLSX streams the workbook for one form into w. The first column is
// the submission timestamp, the rest follow the form's question order.
// Unanswered questions leave the cell blank.
func (s *Service) WriteXLSX(ctx context.Context, formID uuid.UUID, w io.Writer) error {
	ctx, span := s.tracer.Start(ctx, "WriteXLSX")
	defer span.End()
	logger := logutil.WithContext(ctx, s.logger)

	tree, err := s.formStore.GetWithSections(ctx, formID)
	if err != nil {
		span.RecordError(err)
		return err
	}

	questions := tree.Questions()

	list, err := s.responseStore.ListByFormID(ctx, formID)
	if err != nil {
		span.RecordError(err)
		return err
	}

	file := excelize.NewFile()
	defer func() {
		_ = file.Close()
	}()

	index, err := file.NewSheet(sheetName)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("%w: %v", internal.ErrExportFailed, err)
	}
	file.SetActiveSheet(index)
	if err := file.DeleteSheet("Sheet1"); err != nil {
		span.RecordError(err)
		return fmt.Errorf("%w: %v", internal.ErrExportFailed, err)
	}

	header := make([]any, 0, len(questions)+1)
	header = append(header, "Submitted At")
	for _, q := range questions {
		header = append(header, q.Title)
	}
	if err := file.SetSheetRow(sheetName, "A1", &header); err != nil {
		span.RecordError(err)
		return fmt.Errorf("%w: %v", internal.ErrExportFailed, err)
	}

	for rowIndex, r := range list {
		withItems, err := s.responseStore.GetWithItems(ctx, r.ID)
		if err != nil {
			span.RecordError(err)
			return err
		}

		byQuestion := make(map[uuid.UUID]answer.Value, len(withItems.Items))
		for _, item := range withItems.Items {
			byQuestion[item.QuestionID] = item.Value
		}

		row := make([]any, 0, len(questions)+1)
		row = append(row, r.SubmittedAt)
		for _, q := range questions {
			row = append(row, byQuestion[q.ID].Display())
		}

		cell, err := excelize.CoordinatesToCellName(1, rowIndex+2)
		if err != nil {
			span.RecordError(err)
			return fmt.Errorf("%w: %v", internal.ErrExportFailed, err)
		}
		if err := file.SetSheetRow(sheetName, cell, &row); err != nil {
			span.RecordError(err)
			return fmt.Errorf("%w: %v", internal.ErrExportFailed, err)
		}
	}

	if err := file.Write(w); err != nil {
		span.RecordError(err)
		return fmt.Errorf("%w: %v", internal.ErrExportFailed, err)
	}

	logger.Info("responses exported",
		zap.String("formID", formID.String()),
		zap.Int("responseCount", len(list)),
		zap.Int("questionCount", len(questions)))

	return nil
}
