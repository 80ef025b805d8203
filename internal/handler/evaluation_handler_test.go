package handler

import (
	"context"
	"encoding/json"
	"io"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/gradescan/gradescan-api/internal/dto"
	"github.com/gradescan/gradescan-api/internal/service"
	"github.com/gradescan/gradescan-api/internal/utils"
	"github.com/gradescan/gradescan-api/pkg/pdf"
)

type mockEvaluationService struct {
	response dto.EvaluationResponse
	err      error
	calls    int
}

func (m *mockEvaluationService) Evaluate(ctx context.Context, sheetID uint) (dto.EvaluationResponse, error) {
	m.calls++
	if m.err != nil {
		return dto.EvaluationResponse{}, m.err
	}
	return m.response, nil
}

func (m *mockEvaluationService) Results(ctx context.Context, sheetID uint) (dto.EvaluationResponse, error) {
	if m.err != nil {
		return dto.EvaluationResponse{}, m.err
	}
	return m.response, nil
}

func noLimit(c *fiber.Ctx) error { return c.Next() }

func newEvaluationApp(svc service.EvaluationService) *fiber.App {
	app := fiber.New()
	handler := NewEvaluationHandler(svc, zerolog.New(io.Discard))
	handler.Register(app.Group("/sheets"), noLimit)
	return app
}

func decodeResponse(t *testing.T, body io.Reader) utils.APIResponse {
	t.Helper()
	raw, err := io.ReadAll(body)
	require.NoError(t, err)
	var parsed utils.APIResponse
	require.NoError(t, json.Unmarshal(raw, &parsed))
	return parsed
}

func TestEvaluationHandlerEvaluate(t *testing.T) {
	svc := &mockEvaluationService{response: dto.EvaluationResponse{
		SheetID:     4,
		TotalScore:  3,
		MaxScore:    3,
		EvaluatedAt: time.Now().UTC(),
	}}
	app := newEvaluationApp(svc)

	resp, err := app.Test(httptest.NewRequest("POST", "/sheets/4/evaluate", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	parsed := decodeResponse(t, resp.Body)
	require.True(t, parsed.Success)
	require.Equal(t, 1, svc.calls)
}

func TestEvaluationHandlerInvalidID(t *testing.T) {
	svc := &mockEvaluationService{}
	app := newEvaluationApp(svc)

	resp, err := app.Test(httptest.NewRequest("POST", "/sheets/abc/evaluate", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	require.Zero(t, svc.calls)
}

func TestEvaluationHandlerErrorMapping(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		status int
	}{
		{"sheet not found", service.ErrAnswerSheetNotFound, fiber.StatusNotFound},
		{"evaluation in progress", service.ErrEvaluationInProgress, fiber.StatusConflict},
		{"unreadable document", pdf.ErrUnreadableDocument, fiber.StatusUnprocessableEntity},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			app := newEvaluationApp(&mockEvaluationService{err: tc.err})

			resp, err := app.Test(httptest.NewRequest("POST", "/sheets/4/evaluate", nil))
			require.NoError(t, err)
			defer resp.Body.Close()

			require.Equal(t, tc.status, resp.StatusCode)
			parsed := decodeResponse(t, resp.Body)
			require.False(t, parsed.Success)
		})
	}
}

func TestEvaluationHandlerResultsNotEvaluated(t *testing.T) {
	app := newEvaluationApp(&mockEvaluationService{err: service.ErrSheetNotEvaluated})

	resp, err := app.Test(httptest.NewRequest("GET", "/sheets/4/results", nil))
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}
