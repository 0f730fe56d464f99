package config

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Qdrant   QdrantConfig
	Gemini   GeminiConfig
	Storage  StorageConfig
	Pipeline PipelineConfig
}

type ServerConfig struct {
	Port string
	Env  string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

type QdrantConfig struct {
	URL        string
	APIKey     string
	Collection string
}

type GeminiConfig struct {
	APIKey        string
	ScoringModel  string
	QuestionModel string
	ExtractModel  string
	EmbedModel    string
}

type StorageConfig struct {
	UploadPath  string
	ArtifactDir string
	MaxFileSize int64
}

type PipelineConfig struct {
	DefaultQuestions int
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using default values.")
	}

	return &Config{
		Server: ServerConfig{
			Port: getEnv("PORT", "3000"),
			Env:  getEnv("ENV", "development"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "interview_pipeline"),
		},
		Qdrant: QdrantConfig{
			// Empty URL disables exemplar retrieval entirely.
			URL:        getEnv("QDRANT_URL", ""),
			APIKey:     getEnv("QDRANT_API_KEY", ""),
			Collection: getEnv("QDRANT_COLLECTION", "interview_question_bank"),
		},
		Gemini: GeminiConfig{
			APIKey:        getEnv("GEMINI_API_KEY", ""),
			ScoringModel:  getEnv("SCORING_MODEL", "gemini-1.5-pro"),
			QuestionModel: getEnv("QUESTION_MODEL", "gemini-1.5-flash"),
			ExtractModel:  getEnv("EXTRACT_MODEL", "gemini-1.5-flash"),
			EmbedModel:    getEnv("EMBED_MODEL", "text-embedding-004"),
		},
		Storage: StorageConfig{
			UploadPath:  getEnv("UPLOAD_PATH", "./uploads"),
			ArtifactDir: getEnv("ARTIFACT_DIR", "./artifacts"),
			MaxFileSize: getEnvAsInt64("MAX_FILE_SIZE", 10485760),
		},
		Pipeline: PipelineConfig{
			DefaultQuestions: getEnvAsInt("DEFAULT_QUESTIONS", 6),
		},
	}
}

func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.DBName,
	)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsInt64(key string, defaultValue int64) int64 {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseInt(valueStr, 10, 64); err == nil {
		return value
	}
	return defaultValue
}
