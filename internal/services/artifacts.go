package services

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"adkrecruit/interview-pipeline/internal/models"
)

// ArtifactStore is the durable object storage consumed by the pipeline stages
// and the report assembler. Keys are namespaced per candidate:
// {candidate_id}/{original.pdf|anonymized.txt|profile.json|questions/{qid}.wav|
// answers/{qid}.wav|answers/{qid}.txt|reports/report.json}.
type ArtifactStore interface {
	PutBytes(key string, data []byte, contentType string) (string, error)
	PutText(key string, text string) (string, error)
	PutJSON(key string, v interface{}) (string, error)
	Get(key string) ([]byte, string, error)
	Exists(key string) (bool, error)
}

// Artifact key helpers; the per-candidate namespacing is what makes concurrent
// pipeline invocations safe to persist without coordination.
func OriginalKey(candidateID string) string   { return candidateID + "/original.pdf" }
func AnonymizedKey(candidateID string) string { return candidateID + "/anonymized.txt" }
func ProfileKey(candidateID string) string    { return candidateID + "/profile.json" }
func ReportKey(candidateID string) string     { return candidateID + "/reports/report.json" }

func QuestionAudioKey(candidateID, questionID string) string {
	return fmt.Sprintf("%s/questions/%s.wav", candidateID, questionID)
}

func AnswerAudioKey(candidateID, questionID string) string {
	return fmt.Sprintf("%s/answers/%s.wav", candidateID, questionID)
}

func AnswerTranscriptKey(candidateID, questionID string) string {
	return fmt.Sprintf("%s/answers/%s.txt", candidateID, questionID)
}

// dbArtifactStore keeps artifacts in Postgres, one row per key.
type dbArtifactStore struct {
	db *gorm.DB
}

func NewDBArtifactStore(db *gorm.DB) ArtifactStore {
	return &dbArtifactStore{db: db}
}

func (s *dbArtifactStore) PutBytes(key string, data []byte, contentType string) (string, error) {
	artifact := models.Artifact{
		Key:         key,
		ContentType: contentType,
		Data:        data,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"content_type", "data", "updated_at"}),
	}).Create(&artifact).Error
	if err != nil {
		return "", fmt.Errorf("failed to store artifact %s: %w", key, err)
	}

	return "db://" + key, nil
}

func (s *dbArtifactStore) PutText(key string, text string) (string, error) {
	return s.PutBytes(key, []byte(text), "text/plain")
}

func (s *dbArtifactStore) PutJSON(key string, v interface{}) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal artifact %s: %w", key, err)
	}
	return s.PutBytes(key, data, "application/json")
}

func (s *dbArtifactStore) Get(key string) ([]byte, string, error) {
	var artifact models.Artifact
	if err := s.db.Where("key = ?", key).First(&artifact).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, "", fmt.Errorf("artifact not found: %s", key)
		}
		return nil, "", fmt.Errorf("failed to read artifact %s: %w", key, err)
	}
	return artifact.Data, artifact.ContentType, nil
}

func (s *dbArtifactStore) Exists(key string) (bool, error) {
	var count int64
	if err := s.db.Model(&models.Artifact{}).Where("key = ?", key).Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check artifact %s: %w", key, err)
	}
	return count > 0, nil
}

// localArtifactStore writes artifacts under a root directory; it is the
// fallback target when the durable store is unreachable, and a standalone
// store for development without a database.
type localArtifactStore struct {
	rootDir string
}

func NewLocalArtifactStore(rootDir string) ArtifactStore {
	return &localArtifactStore{rootDir: rootDir}
}

func (s *localArtifactStore) path(key string) string {
	return filepath.Join(s.rootDir, filepath.FromSlash(key))
}

func (s *localArtifactStore) PutBytes(key string, data []byte, contentType string) (string, error) {
	path := s.path(key)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create artifact directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write artifact %s: %w", key, err)
	}
	return path, nil
}

func (s *localArtifactStore) PutText(key string, text string) (string, error) {
	return s.PutBytes(key, []byte(text), "text/plain")
}

func (s *localArtifactStore) PutJSON(key string, v interface{}) (string, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal artifact %s: %w", key, err)
	}
	return s.PutBytes(key, data, "application/json")
}

func (s *localArtifactStore) Get(key string) ([]byte, string, error) {
	data, err := os.ReadFile(s.path(key))
	if err != nil {
		return nil, "", fmt.Errorf("failed to read artifact %s: %w", key, err)
	}
	return data, guessContentType(key), nil
}

func (s *localArtifactStore) Exists(key string) (bool, error) {
	_, err := os.Stat(s.path(key))
	if err == nil {
		return true, nil
	}
	if os.IsNotExist(err) {
		return false, nil
	}
	return false, fmt.Errorf("failed to stat artifact %s: %w", key, err)
}

func guessContentType(key string) string {
	switch strings.ToLower(filepath.Ext(key)) {
	case ".json":
		return "application/json"
	case ".txt":
		return "text/plain"
	case ".wav":
		return "audio/wav"
	case ".pdf":
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}
