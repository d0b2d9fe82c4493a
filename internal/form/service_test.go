package form

import (
	"context"
	"errors"
	"testing"

	"formforge/backend/internal"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace/noop"
	"go.uber.org/zap"
)

type mockQuerier struct {
	mock.Mock
}

func (m *mockQuerier) Create(ctx context.Context, arg CreateParams) (Form, error) {
	args := m.Called(ctx, arg)
	f, _ := args.Get(0).(Form)
	return f, args.Error(1)
}

func (m *mockQuerier) Update(ctx context.Context, arg UpdateParams) (Form, error) {
	args := m.Called(ctx, arg)
	f, _ := args.Get(0).(Form)
	return f, args.Error(1)
}

func (m *mockQuerier) GetByID(ctx context.Context, id uuid.UUID) (Form, error) {
	args := m.Called(ctx, id)
	f, _ := args.Get(0).(Form)
	return f, args.Error(1)
}

func (m *mockQuerier) GetBySlug(ctx context.Context, slug string) (Form, error) {
	args := m.Called(ctx, slug)
	f, _ := args.Get(0).(Form)
	return f, args.Error(1)
}

func (m *mockQuerier) List(ctx context.Context) ([]Form, error) {
	args := m.Called(ctx)
	list, _ := args.Get(0).([]Form)
	return list, args.Error(1)
}

func (m *mockQuerier) SetStatus(ctx context.Context, arg SetStatusParams) (Form, error) {
	args := m.Called(ctx, arg)
	f, _ := args.Get(0).(Form)
	return f, args.Error(1)
}

func (m *mockQuerier) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockQuerier) CreateSection(ctx context.Context, arg CreateSectionParams) (Section, error) {
	args := m.Called(ctx, arg)
	s, _ := args.Get(0).(Section)
	return s, args.Error(1)
}

func (m *mockQuerier) UpdateSection(ctx context.Context, arg UpdateSectionParams) (Section, error) {
	args := m.Called(ctx, arg)
	s, _ := args.Get(0).(Section)
	return s, args.Error(1)
}

func (m *mockQuerier) ListSectionsByFormID(ctx context.Context, formID uuid.UUID) ([]Section, error) {
	args := m.Called(ctx, formID)
	list, _ := args.Get(0).([]Section)
	return list, args.Error(1)
}

func (m *mockQuerier) DeleteSection(ctx context.Context, formID uuid.UUID, id uuid.UUID) error {
	args := m.Called(ctx, formID, id)
	return args.Error(0)
}

func (m *mockQuerier) Exists(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func newTestService(queries Querier) *Service {
	return &Service{
		logger:    zap.NewNop(),
		queries:   queries,
		sanitizer: bluemonday.UGCPolicy(),
		tracer:    noop.NewTracerProvider().Tracer("test"),
	}
}

func TestService_SetStatus(t *testing.T) {
	formID := uuid.New()

	t.Run("allowed transition is persisted", func(t *testing.T) {
		queries := new(mockQuerier)
		service := newTestService(queries)

		queries.On("GetByID", mock.Anything, formID).Return(Form{ID: formID, Status: StatusDraft}, nil)
		queries.On("SetStatus", mock.Anything, SetStatusParams{ID: formID, Status: StatusPublished}).
			Return(Form{ID: formID, Status: StatusPublished}, nil)

		updated, err := service.SetStatus(context.Background(), formID, StatusPublished)
		require.NoError(t, err)
		require.Equal(t, StatusPublished, updated.Status)
	})

	t.Run("archived form cannot go back to draft", func(t *testing.T) {
		queries := new(mockQuerier)
		service := newTestService(queries)

		queries.On("GetByID", mock.Anything, formID).Return(Form{ID: formID, Status: StatusArchived}, nil)

		_, err := service.SetStatus(context.Background(), formID, StatusDraft)
		require.ErrorIs(t, err, internal.ErrStatusTransition)
		queries.AssertNotCalled(t, "SetStatus", mock.Anything, mock.Anything)
	})

	t.Run("same status is rejected", func(t *testing.T) {
		queries := new(mockQuerier)
		service := newTestService(queries)

		queries.On("GetByID", mock.Anything, formID).Return(Form{ID: formID, Status: StatusPublished}, nil)

		_, err := service.SetStatus(context.Background(), formID, StatusPublished)
		require.ErrorIs(t, err, internal.ErrStatusTransition)
	})
}

func TestService_Create_SanitizesDescription(t *testing.T) {
	queries := new(mockQuerier)
	service := newTestService(queries)

	queries.On("Create", mock.Anything, mock.MatchedBy(func(arg CreateParams) bool {
		return arg.Description == "hello <b>world</b>"
	})).Return(Form{Title: "Feedback"}, nil)

	_, err := service.Create(context.Background(), "Feedback", `hello <b>world</b><script>alert(1)</script>`, "feedback")
	require.NoError(t, err)
	queries.AssertExpectations(t)
}

func TestService_Create_SurfacesStoreFailure(t *testing.T) {
	queries := new(mockQuerier)
	service := newTestService(queries)

	queries.On("Create", mock.Anything, mock.Anything).Return(Form{}, errors.New("connection reset"))

	_, err := service.Create(context.Background(), "Feedback", "", "feedback")
	require.Error(t, err)
}

func TestService_Update_SurfacesStoreFailure(t *testing.T) {
	queries := new(mockQuerier)
	service := newTestService(queries)

	formID := uuid.New()
	queries.On("Update", mock.Anything, mock.Anything).Return(Form{}, errors.New("connection reset"))

	_, err := service.Update(context.Background(), formID, "Feedback", "", "feedback")
	require.Error(t, err)
}

func TestService_CreateSection_UnknownForm(t *testing.T) {
	queries := new(mockQuerier)
	service := newTestService(queries)

	formID := uuid.New()
	queries.On("Exists", mock.Anything, formID).Return(false, nil)

	_, err := service.CreateSection(context.Background(), formID, "About you", "")
	require.ErrorIs(t, err, internal.ErrFormNotFound)
}
