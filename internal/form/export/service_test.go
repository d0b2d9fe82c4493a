package export

import (
	"bytes"
	"context"
	"testing"
	"time"

	"formforge/backend/internal/form"
	"formforge/backend/internal/form/answer"
	"formforge/backend/internal/form/question"
	"formforge/backend/internal/form/response"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
)

type mockFormStore struct {
	mock.Mock
}

func (m *mockFormStore) GetWithSections(ctx context.Context, id uuid.UUID) (form.FormWithSections, error) {
	args := m.Called(ctx, id)
	tree, _ := args.Get(0).(form.FormWithSections)
	return tree, args.Error(1)
}

type mockResponseStore struct {
	mock.Mock
}

func (m *mockResponseStore) ListByFormID(ctx context.Context, formID uuid.UUID) ([]response.Response, error) {
	args := m.Called(ctx, formID)
	rows, _ := args.Get(0).([]response.Response)
	return rows, args.Error(1)
}

func (m *mockResponseStore) GetWithItems(ctx context.Context, id uuid.UUID) (response.ResponseWithItems, error) {
	args := m.Called(ctx, id)
	row, _ := args.Get(0).(response.ResponseWithItems)
	return row, args.Error(1)
}

func TestService_WriteXLSX(t *testing.T) {
	formID := uuid.New()
	nameQuestion := uuid.New()
	colorQuestion := uuid.New()
	responseID := uuid.New()

	formStore := new(mockFormStore)
	responseStore := new(mockResponseStore)
	service := &Service{
		logger:        zap.NewNop(),
		tracer:        noop.NewTracerProvider().Tracer("test"),
		formStore:     formStore,
		responseStore: responseStore,
	}

	formStore.On("GetWithSections", mock.Anything, formID).Return(form.FormWithSections{
		Form: form.Form{ID: formID, Status: form.StatusPublished},
		Sections: []form.SectionWithQuestions{
			{
				Section: form.Section{FormID: formID, Order: 1},
				Questions: []question.Question{
					{ID: nameQuestion, Type: question.QuestionTypeShortText, Title: "Name", Order: 1},
					{ID: colorQuestion, Type: question.QuestionTypeMultipleChoice, Title: "Colors", Order: 2},
				},
			},
		},
	}, nil)

	submittedAt := time.Date(2026, 3, 15, 10, 0, 0, 0, time.UTC)
	responseStore.On("ListByFormID", mock.Anything, formID).Return([]response.Response{
		{ID: responseID, FormID: formID, SubmittedAt: submittedAt},
	}, nil)
	responseStore.On("GetWithItems", mock.Anything, responseID).Return(response.ResponseWithItems{
		Response: response.Response{ID: responseID, FormID: formID, SubmittedAt: submittedAt},
		Items: []response.Item{
			{ResponseID: responseID, QuestionID: nameQuestion, Value: answer.Text("Ada")},
			{ResponseID: responseID, QuestionID: colorQuestion, Value: answer.Selection([]string{"Red", "Blue"})},
		},
	}, nil)

	var buffer bytes.Buffer
	err := service.WriteXLSX(context.Background(), formID, &buffer)
	require.NoError(t, err)

	workbook, err := excelize.OpenReader(&buffer)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, workbook.Close())
	}()

	rows, err := workbook.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	require.Equal(t, []string{"Submitted At", "Name", "Colors"}, rows[0])
	require.Equal(t, "Ada", rows[1][1])
	require.Equal(t, "Red, Blue", rows[1][2])
}

func TestService_WriteXLSX_NoResponses(t *testing.T) {
	formID := uuid.New()

	formStore := new(mockFormStore)
	responseStore := new(mockResponseStore)
	service := &Service{
		logger:        zap.NewNop(),
		tracer:        noop.NewTracerProvider().Tracer("test"),
		formStore:     formStore,
		responseStore: responseStore,
	}

	formStore.On("GetWithSections", mock.Anything, formID).Return(form.FormWithSections{
		Form: form.Form{ID: formID},
		Sections: []form.SectionWithQuestions{
			{Questions: []question.Question{{ID: uuid.New(), Title: "Name", Order: 1}}},
		},
	}, nil)
	responseStore.On("ListByFormID", mock.Anything, formID).Return([]response.Response{}, nil)

	var buffer bytes.Buffer
	require.NoError(t, service.WriteXLSX(context.Background(), formID, &buffer))

	workbook, err := excelize.OpenReader(&buffer)
	require.NoError(t, err)
	defer func() {
		require.NoError(t, workbook.Close())
	}()

	rows, err := workbook.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 1)
}
