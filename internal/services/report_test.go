package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adkrecruit/interview-pipeline/internal/models"
)

func sampleScoreResult() models.ScoreResult {
	return models.ScoreResult{
		PerQuestion: []models.PerQuestionScore{
			{ID: "q1", TechnicalAccuracy: 4, Depth: 4, Communication: 3, Ownership: 2, Notes: "good"},
		},
		Aggregate: models.AggregateScore{
			TotalScore:     13,
			MaxScore:       15,
			Recommendation: models.RecommendHire,
			Summary:        "Total 13/15 (86.7%) -> HIRE",
		},
	}
}

func TestAssembleAndPersist_DurableStore(t *testing.T) {
	durable := newMemArtifactStore()
	local := newMemArtifactStore()
	a := NewReportAssemblerService(durable, local, nil)

	report := a.AssembleAndPersist(context.Background(), "cand-ab12cd34", 1, sampleScoreResult())

	assert.Equal(t, "cand-ab12cd34", report.CandidateID)
	assert.Equal(t, 1, report.QuestionsCount)
	assert.Equal(t, sampleScoreResult(), report.Result)
	assert.Equal(t, "mem://cand-ab12cd34/reports/report.json", report.StorageLocation)
	assert.Empty(t, report.LocalPath)
	assert.Empty(t, report.StorageError)

	exists, err := durable.Exists("cand-ab12cd34/reports/report.json")
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestAssembleAndPersist_DurableFailureFallsBackToLocal(t *testing.T) {
	durable := newMemArtifactStore()
	durable.failPuts = true
	local := newMemArtifactStore()
	a := NewReportAssemblerService(durable, local, nil)

	report := a.AssembleAndPersist(context.Background(), "cand-ab12cd34", 1, sampleScoreResult())

	assert.Empty(t, report.StorageLocation)
	assert.NotEmpty(t, report.StorageError)
	assert.Equal(t, "mem://cand-ab12cd34/reports/report.json", report.LocalPath)
}

func TestAssembleAndPersist_BothStoresFailing_StillReturnsReport(t *testing.T) {
	durable := newMemArtifactStore()
	durable.failPuts = true
	local := newMemArtifactStore()
	local.failPuts = true
	a := NewReportAssemblerService(durable, local, nil)

	report := a.AssembleAndPersist(context.Background(), "cand-ab12cd34", 1, sampleScoreResult())

	assert.Equal(t, sampleScoreResult(), report.Result)
	assert.Empty(t, report.StorageLocation)
	assert.Empty(t, report.LocalPath)
	assert.NotEmpty(t, report.StorageError)
}

func TestAssembleAndPersist_NoStoresConfigured(t *testing.T) {
	a := NewReportAssemblerService(nil, nil, nil)

	report := a.AssembleAndPersist(context.Background(), "cand-ab12cd34", 2, sampleScoreResult())

	assert.Equal(t, "cand-ab12cd34", report.CandidateID)
	assert.Equal(t, 2, report.QuestionsCount)
	assert.Empty(t, report.StorageLocation)
	assert.Empty(t, report.LocalPath)
}
