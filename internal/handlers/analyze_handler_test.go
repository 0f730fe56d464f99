package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adkrecruit/interview-pipeline/internal/models"
	"adkrecruit/interview-pipeline/internal/services"
)

func newAnalyzeApp() *fiber.App {
	scorer := services.NewRubricScorerService(nil, "", nil, nil)
	assembler := services.NewReportAssemblerService(nil, nil, nil)
	handler := NewAnalyzeHandler(scorer, assembler, nil)

	app := fiber.New()
	app.Post("/api/v1/analyze", handler.HandleAnalyze)
	return app
}

func postAnalyze(t *testing.T, app *fiber.App, body interface{}) *http.Response {
	t.Helper()

	payload, err := json.Marshal(body)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	return resp
}

func TestHandleAnalyze_ValidRequest(t *testing.T) {
	app := newAnalyzeApp()

	resp := postAnalyze(t, app, models.AnalyzeRequest{
		CandidateID: "cand-ab12cd34",
		Questions: []models.Question{
			{ID: "q1", Q: "Explain indexing", Ideal: "btree keeps data sorted"},
		},
		Transcript: "I implemented a btree so the data stays sorted.",
	})
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	var report models.Report
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(body, &report))

	assert.Equal(t, "cand-ab12cd34", report.CandidateID)
	assert.Equal(t, 1, report.QuestionsCount)
	require.Len(t, report.Result.PerQuestion, 1)
	assert.Equal(t, 9, report.Result.Aggregate.TotalScore)
	assert.Equal(t, 15, report.Result.Aggregate.MaxScore)
	assert.Equal(t, models.RecommendHold, report.Result.Aggregate.Recommendation)
}

func TestHandleAnalyze_Validation(t *testing.T) {
	app := newAnalyzeApp()

	tests := []struct {
		name string
		req  models.AnalyzeRequest
	}{
		{
			name: "missing candidate id",
			req: models.AnalyzeRequest{
				Questions:  []models.Question{{ID: "q1", Q: "Explain indexing"}},
				Transcript: "something",
			},
		},
		{
			name: "no questions",
			req: models.AnalyzeRequest{
				CandidateID: "cand-ab12cd34",
				Transcript:  "something",
			},
		},
		{
			name: "question without id",
			req: models.AnalyzeRequest{
				CandidateID: "cand-ab12cd34",
				Questions:   []models.Question{{Q: "Explain indexing"}},
				Transcript:  "something",
			},
		},
		{
			name: "question without text",
			req: models.AnalyzeRequest{
				CandidateID: "cand-ab12cd34",
				Questions:   []models.Question{{ID: "q1"}},
				Transcript:  "something",
			},
		},
		{
			name: "empty transcript",
			req: models.AnalyzeRequest{
				CandidateID: "cand-ab12cd34",
				Questions:   []models.Question{{ID: "q1", Q: "Explain indexing"}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postAnalyze(t, app, tt.req)
			defer resp.Body.Close()
			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		})
	}
}

func TestHandleAnalyze_InvalidBody(t *testing.T) {
	app := newAnalyzeApp()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/analyze", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
