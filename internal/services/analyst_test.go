package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"adkrecruit/interview-pipeline/internal/models"
)

func scoringQuestions() []models.Question {
	return []models.Question{
		{ID: "q1", Q: "Explain indexing", Ideal: "btree keeps data sorted"},
		{ID: "q2", Q: "Explain caching", Ideal: "redis stores hot values in memory"},
	}
}

func TestFallbackScore_KnownTranscript(t *testing.T) {
	questions := []models.Question{
		{ID: "q1", Q: "Explain indexing", Ideal: "btree keeps data sorted"},
	}
	// Tokens longer than 3 chars: btree, keeps, data, sorted, explain,
	// indexing. The transcript matches exactly three of them.
	transcript := "I implemented a btree so the data stays sorted."

	result := FallbackScore(questions, transcript)

	require.Len(t, result.PerQuestion, 1)
	entry := result.PerQuestion[0]
	assert.Equal(t, "q1", entry.ID)
	assert.Equal(t, 3, entry.TechnicalAccuracy)
	assert.Equal(t, 3, entry.Depth)
	assert.Equal(t, 2, entry.Communication)
	assert.Equal(t, 1, entry.Ownership)
	assert.Equal(t, "matches=3", entry.Notes)

	assert.Equal(t, 9, result.Aggregate.TotalScore)
	assert.Equal(t, 15, result.Aggregate.MaxScore)
	assert.Equal(t, models.RecommendHold, result.Aggregate.Recommendation)
	assert.Equal(t, "Total 9/15 (60.0%) -> HOLD", result.Aggregate.Summary)
}

func TestFallbackScore_ProjectAnswerExample(t *testing.T) {
	questions := []models.Question{
		{ID: "q1", Q: "Explain a project", Ideal: "architecture, challenges, outcomes"},
	}
	transcript := "I implemented the architecture and solved challenges resulting in measurable outcomes"

	result := FallbackScore(questions, transcript)

	require.Len(t, result.PerQuestion, 1)
	entry := result.PerQuestion[0]
	// architecture, challenges and outcomes match; communication needs four
	// matches to reach 3, so three matches score 2.
	assert.Equal(t, 3, entry.TechnicalAccuracy)
	assert.Equal(t, 3, entry.Depth)
	assert.Equal(t, 2, entry.Communication)
	assert.Equal(t, 1, entry.Ownership)
	assert.Equal(t, 9, result.Aggregate.TotalScore)
	assert.Equal(t, models.RecommendHold, result.Aggregate.Recommendation)
}

func TestFallbackScore_Bounds(t *testing.T) {
	transcripts := []string{
		"",
		"completely unrelated chatter about gardening",
		"btree keeps data sorted redis stores hot values in memory, and I implemented all of it myself",
	}

	for _, transcript := range transcripts {
		result := FallbackScore(scoringQuestions(), transcript)

		require.Len(t, result.PerQuestion, 2)
		total := 0
		for _, entry := range result.PerQuestion {
			assert.GreaterOrEqual(t, entry.TechnicalAccuracy, 0)
			assert.LessOrEqual(t, entry.TechnicalAccuracy, 5)
			assert.Equal(t, entry.TechnicalAccuracy, entry.Depth)
			assert.Contains(t, []int{0, 2, 3}, entry.Communication)
			assert.Contains(t, []int{0, 1}, entry.Ownership)
			total += entry.Total()
		}

		assert.Equal(t, total, result.Aggregate.TotalScore)
		assert.Equal(t, 30, result.Aggregate.MaxScore)
		assert.Equal(t, models.RecommendationFor(total, 30), result.Aggregate.Recommendation)
	}
}

func TestFallbackScore_Deterministic(t *testing.T) {
	transcript := "I wrote the redis cache layer and tuned btree indexes so data stayed sorted"
	first := FallbackScore(scoringQuestions(), transcript)
	second := FallbackScore(scoringQuestions(), transcript)
	assert.Equal(t, first, second)
}

func TestFallbackScore_NoQuestions(t *testing.T) {
	result := FallbackScore(nil, "anything")
	assert.Empty(t, result.PerQuestion)
	assert.Equal(t, 0, result.Aggregate.TotalScore)
	assert.Equal(t, 0, result.Aggregate.MaxScore)
	assert.Equal(t, models.RecommendNoHire, result.Aggregate.Recommendation)
}

func TestScore_NilGenerator_UsesFallback(t *testing.T) {
	s := NewRubricScorerService(nil, "", nil, nil)

	transcript := "I implemented a btree so the data stays sorted."
	got := s.Score(context.Background(), scoringQuestions(), transcript)

	assert.Equal(t, FallbackScore(scoringQuestions(), transcript), got)
}

func TestScore_BackendError_UsesFallback(t *testing.T) {
	gen := &fakeTextGenerator{err: fmt.Errorf("rate limited")}
	s := NewRubricScorerService(gen, "test-model", nil, nil)

	transcript := "I wrote the caching layer with redis"
	got := s.Score(context.Background(), scoringQuestions(), transcript)

	assert.Equal(t, FallbackScore(scoringQuestions(), transcript), got)
	assert.Equal(t, 1, gen.calls)
}

func TestScore_MalformedResponse_UsesFallback(t *testing.T) {
	responses := []string{
		"I am just a language model and cannot score this.",
		`{"per_question": []}`,
		`{"aggregate": {"total_score": 10}}`,
		`{"per_question": [{"id": "q1", "technical_accuracy": "not-a-number"}], "aggregate": {}}`,
	}

	transcript := "I implemented the service"
	want := FallbackScore(scoringQuestions(), transcript)

	for _, response := range responses {
		gen := &fakeTextGenerator{response: response}
		s := NewRubricScorerService(gen, "test-model", nil, nil)

		got := s.Score(context.Background(), scoringQuestions(), transcript)
		assert.Equal(t, want, got, "response: %s", response)
	}
}

func TestScore_ValidResponse(t *testing.T) {
	gen := &fakeTextGenerator{response: "```json\n" + `{
		"per_question": [
			{"id": "q1", "technical_accuracy": 4, "depth": "3", "communication": 2.9, "ownership": 1, "notes": "solid"},
			{"id": "q2", "technical_accuracy": 5, "depth": 5, "communication": 3, "ownership": 2, "notes": "excellent"}
		],
		"aggregate": {"total_score": 25, "max_score": 30, "recommendation": "hire", "summary": "strong candidate"}
	}` + "\n```"}
	s := NewRubricScorerService(gen, "test-model", nil, nil)

	got := s.Score(context.Background(), scoringQuestions(), "transcript text")

	require.Len(t, got.PerQuestion, 2)
	assert.Equal(t, models.PerQuestionScore{
		ID: "q1", TechnicalAccuracy: 4, Depth: 3, Communication: 2, Ownership: 1, Notes: "solid",
	}, got.PerQuestion[0])

	assert.Equal(t, 25, got.Aggregate.TotalScore)
	assert.Equal(t, 30, got.Aggregate.MaxScore)
	assert.Equal(t, models.RecommendHire, got.Aggregate.Recommendation)
	assert.Equal(t, "strong candidate", got.Aggregate.Summary)
}

func TestScore_MissingQuestionEntriesAppended(t *testing.T) {
	gen := &fakeTextGenerator{response: `{
		"per_question": [{"id": "q2", "technical_accuracy": 4, "depth": 4, "communication": 3, "ownership": 2, "notes": "good"}],
		"aggregate": {"total_score": 13, "recommendation": "HOLD", "summary": "partial"}
	}`}
	s := NewRubricScorerService(gen, "test-model", nil, nil)

	got := s.Score(context.Background(), scoringQuestions(), "transcript")

	require.Len(t, got.PerQuestion, 2)
	// Backend entries first, synthesized entries after.
	assert.Equal(t, "q2", got.PerQuestion[0].ID)
	assert.Equal(t, models.PerQuestionScore{ID: "q1", Notes: "Missing from model output"}, got.PerQuestion[1])

	// max_score omitted by the backend defaults to question count * 15.
	assert.Equal(t, 30, got.Aggregate.MaxScore)
}

func TestScore_UnknownIDsDropped(t *testing.T) {
	gen := &fakeTextGenerator{response: `{
		"per_question": [
			{"id": "q1", "technical_accuracy": 4, "depth": 4, "communication": 3, "ownership": 2, "notes": "a"},
			{"id": "q9", "technical_accuracy": 5, "depth": 5, "communication": 3, "ownership": 2, "notes": "hallucinated"},
			{"id": "q2", "technical_accuracy": 3, "depth": 3, "communication": 2, "ownership": 1, "notes": "b"}
		],
		"aggregate": {"total_score": 22, "max_score": 30, "recommendation": "HIRE", "summary": ""}
	}`}
	s := NewRubricScorerService(gen, "test-model", nil, nil)

	got := s.Score(context.Background(), scoringQuestions(), "transcript")

	require.Len(t, got.PerQuestion, 2)
	ids := []string{got.PerQuestion[0].ID, got.PerQuestion[1].ID}
	assert.Equal(t, []string{"q1", "q2"}, ids)
}

func TestScore_OutOfRangeValuesPreserved(t *testing.T) {
	gen := &fakeTextGenerator{response: `{
		"per_question": [
			{"id": "q1", "technical_accuracy": 9, "depth": -2, "communication": 3, "ownership": 1, "notes": ""},
			{"id": "q2", "technical_accuracy": 1, "depth": 1, "communication": 1, "ownership": 1, "notes": ""}
		],
		"aggregate": {"total_score": 15, "max_score": 30, "recommendation": "HOLD", "summary": ""}
	}`}
	s := NewRubricScorerService(gen, "test-model", nil, nil)

	got := s.Score(context.Background(), scoringQuestions(), "transcript")

	assert.Equal(t, 9, got.PerQuestion[0].TechnicalAccuracy)
	assert.Equal(t, -2, got.PerQuestion[0].Depth)
}

func TestScore_NotesTruncated(t *testing.T) {
	long := make([]byte, 1500)
	for i := range long {
		long[i] = 'x'
	}
	gen := &fakeTextGenerator{response: fmt.Sprintf(`{
		"per_question": [{"id": "q1", "technical_accuracy": 1, "depth": 1, "communication": 1, "ownership": 1, "notes": %q}],
		"aggregate": {"total_score": 4, "max_score": 15, "recommendation": "NO_HIRE", "summary": "weak"}
	}`, string(long))}
	s := NewRubricScorerService(gen, "test-model", nil, nil)

	questions := scoringQuestions()[:1]
	got := s.Score(context.Background(), questions, "transcript")

	require.Len(t, got.PerQuestion, 1)
	assert.Len(t, got.PerQuestion[0].Notes, 1000)
}

func TestCoerceInt(t *testing.T) {
	tests := []struct {
		name    string
		in      interface{}
		want    int
		wantErr bool
	}{
		{"float", float64(3.0), 3, false},
		{"float truncates toward zero", float64(3.9), 3, false},
		{"negative float truncates toward zero", float64(-2.7), -2, false},
		{"numeric string", "4", 4, false},
		{"padded numeric string", " 5 ", 5, false},
		{"word string", "four", 0, true},
		{"bool", true, 0, true},
		{"nil", nil, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := coerceInt(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildScoringPrompt(t *testing.T) {
	s := &rubricScorerService{generator: &fakeTextGenerator{}, model: "test-model"}

	prompt := s.buildScoringPrompt(context.Background(), scoringQuestions(), "the transcript body")

	assert.Contains(t, prompt, "technical_accuracy (0-5)")
	assert.Contains(t, prompt, "max_score = 30")
	assert.Contains(t, prompt, "id: q1")
	assert.Contains(t, prompt, "the transcript body")
	assert.Contains(t, prompt, "Return JSON now.")
}
