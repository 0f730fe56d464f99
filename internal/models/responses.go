package models

type PipelineStartResponse struct {
	CandidateID string     `json:"candidate_id"`
	Profile     Profile    `json:"profile"`
	Questions   []Question `json:"questions"`
	Artifacts   Artifacts  `json:"artifacts"`
}

type Artifacts struct {
	Original   string `json:"original"`
	Anonymized string `json:"anonymized"`
	Profile    string `json:"profile"`
}

type AnswerResponse struct {
	CandidateID string `json:"candidate_id"`
	QuestionID  string `json:"question_id"`
	Transcript  string `json:"transcript"`
	AudioKey    string `json:"audio_key,omitempty"`
}

type AnalyzeRequest struct {
	CandidateID string     `json:"candidate_id"`
	Questions   []Question `json:"questions"`
	Transcript  string     `json:"transcript"`
}

type ReportResponse struct {
	CandidateID    string  `json:"candidate_id"`
	QuestionsCount int     `json:"questions_count"`
	TotalScore     int     `json:"total_score"`
	MaxScore       int     `json:"max_score"`
	Recommendation string  `json:"recommendation"`
	Report         *Report `json:"report,omitempty"`
	CreatedAt      string  `json:"created_at"`
}
