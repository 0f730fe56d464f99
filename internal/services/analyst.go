package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"math"
	"strconv"
	"strings"

	"adkrecruit/interview-pipeline/internal/models"
)

const (
	// transcriptPromptPrefix caps the transcript sent to the backend.
	transcriptPromptPrefix = 16000

	notesMaxLen      = 1000
	summaryMaxLen    = 2000
	scoringMaxTokens = 1400

	// missingEntryNote marks per-question entries synthesized for ids the
	// backend omitted.
	missingEntryNote = "Missing from model output"
)

// ownershipMarkers are the first-person phrases the fallback scorer treats as
// evidence of direct personal contribution.
var ownershipMarkers = []string{" i ", "i implemented", "i wrote", "my role"}

// RubricScorerService scores a candidate transcript against questions and
// their ideal answers. The generative path is primary; the deterministic
// heuristic runs whenever the backend is absent, fails, or returns output
// that cannot be normalized into the report schema. Both paths produce
// schema-identical output: exactly one entry per input question and an
// aggregate with the shared recommendation thresholds applied.
type RubricScorerService interface {
	Score(ctx context.Context, questions []models.Question, transcript string) models.ScoreResult
}

type rubricScorerService struct {
	generator TextGenerator
	model     string
	embedder  Embedder
	qdrant    QdrantService
}

func NewRubricScorerService(generator TextGenerator, model string, embedder Embedder, qdrant QdrantService) RubricScorerService {
	return &rubricScorerService{
		generator: generator,
		model:     model,
		embedder:  embedder,
		qdrant:    qdrant,
	}
}

// Score implements RubricScorerService.
func (s *rubricScorerService) Score(ctx context.Context, questions []models.Question, transcript string) models.ScoreResult {
	if s.generator == nil {
		log.Println("⚠️  Rubric scorer: generative backend not configured, using heuristic fallback")
		return FallbackScore(questions, transcript)
	}

	result, err := s.scoreWithModel(ctx, questions, transcript)
	if err != nil {
		log.Printf("⚠️  Rubric scorer: falling back to heuristic due to error: %v\n", err)
		return FallbackScore(questions, transcript)
	}

	return result
}

func (s *rubricScorerService) scoreWithModel(ctx context.Context, questions []models.Question, transcript string) (models.ScoreResult, error) {
	prompt := s.buildScoringPrompt(ctx, questions, transcript)

	response, err := s.generator.GenerateText(ctx, s.model, prompt, scoringMaxTokens, 0)
	if err != nil {
		return models.ScoreResult{}, fmt.Errorf("scoring call failed: %w", err)
	}

	var top map[string]json.RawMessage
	if err := decodeModelJSON(response, &top); err != nil {
		return models.ScoreResult{}, err
	}

	return normalizeScoreResponse(top, questions)
}

// normalizeScoreResponse validates and normalizes the backend's JSON into a
// ScoreResult. Sub-scores are coerced to integers best-effort; values the
// backend returns out of rubric range are kept as-is rather than clamped.
// Every input question id missing from the response gets a synthesized
// zero-score entry appended after the backend's entries.
func normalizeScoreResponse(top map[string]json.RawMessage, questions []models.Question) (models.ScoreResult, error) {
	rawPerQ, okPerQ := top["per_question"]
	rawAgg, okAgg := top["aggregate"]
	if !okPerQ || !okAgg {
		return models.ScoreResult{}, fmt.Errorf("%w: missing required keys 'per_question' or 'aggregate'", ErrMalformedOutput)
	}

	var items []map[string]interface{}
	if err := json.Unmarshal(rawPerQ, &items); err != nil {
		return models.ScoreResult{}, fmt.Errorf("%w: per_question is not a list of objects", ErrMalformedOutput)
	}

	known := make(map[string]struct{}, len(questions))
	for _, q := range questions {
		known[q.ID] = struct{}{}
	}

	idsSeen := make(map[string]struct{})
	perQuestion := make([]models.PerQuestionScore, 0, len(questions))
	for _, item := range items {
		entry, err := normalizePerQuestionEntry(item)
		if err != nil {
			return models.ScoreResult{}, err
		}
		// Entries for ids that were never asked are dropped so the result's
		// id set always equals the input question set.
		if _, ok := known[entry.ID]; !ok {
			continue
		}
		idsSeen[entry.ID] = struct{}{}
		perQuestion = append(perQuestion, entry)
	}

	for _, q := range questions {
		if _, seen := idsSeen[q.ID]; !seen {
			perQuestion = append(perQuestion, models.PerQuestionScore{
				ID:    q.ID,
				Notes: missingEntryNote,
			})
		}
	}

	var agg map[string]interface{}
	if err := json.Unmarshal(rawAgg, &agg); err != nil {
		return models.ScoreResult{}, fmt.Errorf("%w: aggregate is not an object", ErrMalformedOutput)
	}

	aggregate, err := normalizeAggregate(agg, len(questions))
	if err != nil {
		return models.ScoreResult{}, err
	}

	return models.ScoreResult{
		PerQuestion: perQuestion,
		Aggregate:   aggregate,
	}, nil
}

func normalizePerQuestionEntry(item map[string]interface{}) (models.PerQuestionScore, error) {
	entry := models.PerQuestionScore{
		ID:    coerceString(item["id"]),
		Notes: truncate(coerceString(item["notes"]), notesMaxLen),
	}

	for _, field := range []struct {
		key string
		dst *int
	}{
		{"technical_accuracy", &entry.TechnicalAccuracy},
		{"depth", &entry.Depth},
		{"communication", &entry.Communication},
		{"ownership", &entry.Ownership},
	} {
		v, ok := item[field.key]
		if !ok {
			continue
		}
		n, err := coerceInt(v)
		if err != nil {
			return models.PerQuestionScore{}, fmt.Errorf("%w: %s: %v", ErrMalformedOutput, field.key, err)
		}
		*field.dst = n
	}

	return entry, nil
}

func normalizeAggregate(agg map[string]interface{}, questionCount int) (models.AggregateScore, error) {
	aggregate := models.AggregateScore{
		MaxScore:       questionCount * models.MaxScorePerQuestion,
		Recommendation: models.Recommendation(strings.ToUpper(coerceString(agg["recommendation"]))),
		Summary:        truncate(coerceString(agg["summary"]), summaryMaxLen),
	}

	if v, ok := agg["total_score"]; ok {
		n, err := coerceInt(v)
		if err != nil {
			return models.AggregateScore{}, fmt.Errorf("%w: total_score: %v", ErrMalformedOutput, err)
		}
		aggregate.TotalScore = n
	}
	if v, ok := agg["max_score"]; ok {
		n, err := coerceInt(v)
		if err != nil {
			return models.AggregateScore{}, fmt.Errorf("%w: max_score: %v", ErrMalformedOutput, err)
		}
		aggregate.MaxScore = n
	}

	return aggregate, nil
}

// coerceInt converts the loosely typed values models return for numeric
// fields: JSON numbers truncate toward zero, numeric strings parse. Anything
// else fails the primary path.
func coerceInt(v interface{}) (int, error) {
	switch n := v.(type) {
	case float64:
		return int(math.Trunc(n)), nil
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, fmt.Errorf("not a number: %q", n.String())
		}
		return int(math.Trunc(f)), nil
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		if err != nil {
			return 0, fmt.Errorf("not an integer: %q", n)
		}
		return i, nil
	default:
		return 0, fmt.Errorf("unsupported type %T", v)
	}
}

func coerceString(v interface{}) string {
	switch s := v.(type) {
	case nil:
		return ""
	case string:
		return s
	case float64:
		if s == math.Trunc(s) {
			return strconv.Itoa(int(s))
		}
		return strconv.FormatFloat(s, 'g', -1, 64)
	case bool:
		return strconv.FormatBool(s)
	default:
		return fmt.Sprintf("%v", s)
	}
}

func (s *rubricScorerService) buildScoringPrompt(ctx context.Context, questions []models.Question, transcript string) string {
	maxScore := len(questions) * models.MaxScorePerQuestion

	var b strings.Builder
	b.WriteString("You are an unbiased hiring analyst.\n")
	b.WriteString("INPUT: A list of interview questions with 'ideal' answers and a candidate transcript containing their spoken answers.\n\n")
	b.WriteString("TASK: For each question, find the candidate's answer in the transcript and score it using this rubric (exact numeric ranges):\n")
	b.WriteString("- technical_accuracy (0-5): factual/technical correctness vs the ideal answer.\n")
	b.WriteString("- depth (0-5): depth, specifics, algorithms/architecture, clarity about tradeoffs.\n")
	b.WriteString("- communication (0-3): clarity, structure, conciseness.\n")
	b.WriteString("- ownership (0-2): clear personal contribution (I implemented/wrote/designed vs passive).\n\n")
	b.WriteString("Aggregate rules:\n")
	fmt.Fprintf(&b, "- total_score is the sum of per-question totals. max_score = %d.\n", maxScore)
	b.WriteString("- Recommendation thresholds: HIRE >= 73% of max; HOLD >= 50% and <73%; NO_HIRE < 50%.\n\n")

	if exemplars := s.retrieveRubricContext(ctx, questions); exemplars != "" {
		b.WriteString("SCORING GUIDELINES (reference):\n")
		b.WriteString(exemplars)
		b.WriteString("\n\n")
	}

	b.WriteString("REPLY FORMAT: Return JSON only, exactly following this example schema (no extra commentary):\n")
	b.WriteString(scoringSchemaExample)
	b.WriteString("\n\nQUESTIONS (id, q, ideal):\n")
	for _, q := range questions {
		fmt.Fprintf(&b, "- id: %s\n  q: %s\n  ideal: %s\n\n", q.ID, q.Q, q.Ideal)
	}

	b.WriteString("\nTRANSCRIPT:\n")
	b.WriteString(truncate(transcript, transcriptPromptPrefix))
	b.WriteString("\n\nReturn JSON now.")

	return b.String()
}

const scoringSchemaExample = `{
  "per_question": [
    {
      "id": "q1",
      "technical_accuracy": 0,
      "depth": 0,
      "communication": 0,
      "ownership": 0,
      "notes": "short justification"
    }
  ],
  "aggregate": {
    "total_score": 0,
    "max_score": 0,
    "recommendation": "HIRE|HOLD|NO_HIRE",
    "summary": "short summary justification"
  }
}`

// retrieveRubricContext pulls scoring-guideline chunks from the question
// bank. Failure returns ""; retrieval never changes the fallback decision.
func (s *rubricScorerService) retrieveRubricContext(ctx context.Context, questions []models.Question) string {
	if s.embedder == nil || s.qdrant == nil {
		return ""
	}

	var ideals []string
	for _, q := range questions {
		ideals = append(ideals, q.Ideal)
	}
	query := strings.Join(ideals, " ")
	if strings.TrimSpace(query) == "" {
		return ""
	}

	embedding, err := s.embedder.GenerateEmbedding(ctx, query)
	if err != nil {
		log.Printf("⚠️  Rubric scorer: guideline embedding failed: %v\n", err)
		return ""
	}

	results, err := s.qdrant.SearchSimilar(ctx, embedding, DocTypeRubric, 3)
	if err != nil {
		log.Printf("⚠️  Rubric scorer: guideline search failed: %v\n", err)
		return ""
	}

	return FormatRetrievedContext(results)
}

// FallbackScore is the deterministic heuristic scorer. For each question it
// tokenizes the ideal answer and question text into lowercase words longer
// than 3 characters and counts how many occur as substrings of the lowercased
// transcript. Sub-scores derive from that count; ownership comes from
// first-person markers. The aggregate applies the same thresholds the
// generative path is instructed to use.
func FallbackScore(questions []models.Question, transcript string) models.ScoreResult {
	tLower := strings.ToLower(transcript)

	perQuestion := make([]models.PerQuestionScore, 0, len(questions))
	total := 0

	for _, q := range questions {
		matches := countTokenMatches(q, tLower)

		technical := matches
		if technical > 5 {
			technical = 5
		}
		depth := technical

		communication := 0
		if matches >= 1 {
			communication = 2
		}
		if matches >= 4 {
			communication = 3
		}

		ownership := 0
		for _, marker := range ownershipMarkers {
			if strings.Contains(tLower, marker) {
				ownership = 1
				break
			}
		}

		entry := models.PerQuestionScore{
			ID:                q.ID,
			TechnicalAccuracy: technical,
			Depth:             depth,
			Communication:     communication,
			Ownership:         ownership,
			Notes:             fmt.Sprintf("matches=%d", matches),
		}
		perQuestion = append(perQuestion, entry)
		total += entry.Total()
	}

	maxScore := len(questions) * models.MaxScorePerQuestion
	pct := 0.0
	if maxScore > 0 {
		pct = float64(total) / float64(maxScore)
	}
	rec := models.RecommendationFor(total, maxScore)

	return models.ScoreResult{
		PerQuestion: perQuestion,
		Aggregate: models.AggregateScore{
			TotalScore:     total,
			MaxScore:       maxScore,
			Recommendation: rec,
			Summary:        fmt.Sprintf("Total %d/%d (%.1f%%) -> %s", total, maxScore, pct*100, rec),
		},
	}
}

const tokenTrimCutset = ".,()\"'[]{}:;"

func countTokenMatches(q models.Question, lowerTranscript string) int {
	tokens := make(map[string]struct{})
	for _, word := range strings.Fields(strings.ToLower(q.Ideal + " " + q.Q)) {
		tok := strings.Trim(word, tokenTrimCutset)
		if len(tok) > 3 {
			tokens[tok] = struct{}{}
		}
	}

	matches := 0
	for tok := range tokens {
		if strings.Contains(lowerTranscript, tok) {
			matches++
		}
	}
	return matches
}
