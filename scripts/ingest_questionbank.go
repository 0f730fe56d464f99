package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"strings"

	"adkrecruit/interview-pipeline/internal/config"
	"adkrecruit/interview-pipeline/internal/services"
)

func main() {
	log.Println("🚀 Starting question bank ingestion...")

	// Load configuration
	cfg := config.Load()

	// Initialize services
	geminiService, err := services.NewGeminiService(cfg.Gemini.APIKey, cfg.Gemini.EmbedModel)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini: %v", err)
	}

	qdrantService, err := services.NewQdrantService(
		cfg.Qdrant.URL,
		cfg.Qdrant.APIKey,
		cfg.Qdrant.Collection,
	)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
	}

	if err := qdrantService.InitCollection(); err != nil {
		log.Fatalf("❌ Failed to initialize collection: %v", err)
	}

	pdfParser := services.NewPDFParserService()
	chunker := services.NewTextChunker()

	ctx := context.Background()

	documents := []struct {
		Path    string
		DocType string
		Name    string
	}{
		{
			Path:    "./reference_docs/question_bank.pdf",
			DocType: services.DocTypeQuestionBank,
			Name:    "Interview Question Bank",
		},
		{
			Path:    "./reference_docs/scoring_rubric.pdf",
			DocType: services.DocTypeRubric,
			Name:    "Answer Scoring Rubric",
		},
		{
			Path:    "./reference_docs/exemplar_answers.pdf",
			DocType: services.DocTypeRubric,
			Name:    "Exemplar Scored Answers",
		},
	}

	successCount := 0
	failCount := 0

	for _, doc := range documents {
		log.Printf("\n📄 Processing: %s", doc.Name)
		log.Printf("   Path: %s", doc.Path)
		log.Printf("   Type: %s", doc.DocType)

		// Check if file exists
		if _, err := os.Stat(doc.Path); os.IsNotExist(err) {
			log.Printf("   ⚠️  File not found, skipping...")
			failCount++
			continue
		}

		// Extract text
		log.Printf("   📖 Extracting text...")
		text, err := extractText(pdfParser, doc.Path)
		if err != nil {
			log.Printf("   ❌ Failed to extract text: %v", err)
			failCount++
			continue
		}
		log.Printf("   ✅ Extracted %d characters", len(text))

		// Chunk the text
		log.Printf("   ✂️  Chunking text...")
		chunks := chunker.ChunkText(text, 1000, 200)
		log.Printf("   ✅ Created %d chunks", len(chunks))

		// Embed and store each chunk
		log.Printf("   🔄 Embedding and storing chunks...")
		for i, chunk := range chunks {
			embedding, err := geminiService.GenerateEmbedding(ctx, chunk)
			if err != nil {
				log.Printf("   ❌ Failed to generate embedding for chunk %d: %v", i+1, err)
				continue
			}

			docID := fmt.Sprintf("%s_chunk_%d", doc.DocType, i)

			if err := qdrantService.UpsertChunk(ctx, docID, doc.DocType, chunk, embedding); err != nil {
				log.Printf("   ❌ Failed to store chunk %d: %v", i+1, err)
				continue
			}

			if (i+1)%5 == 0 || i == len(chunks)-1 {
				log.Printf("   📊 Progress: %d/%d chunks stored", i+1, len(chunks))
			}
		}

		log.Printf("   ✅ Successfully ingested %s", doc.Name)
		successCount++
	}

	// Summary
	log.Println("\n" + strings.Repeat("=", 60))
	log.Printf("📊 Ingestion Summary:")
	log.Printf("   ✅ Successful: %d documents", successCount)
	log.Printf("   ❌ Failed: %d documents", failCount)
	log.Println(strings.Repeat("=", 60))

	if failCount > 0 {
		log.Println("⚠️  Some documents failed to ingest. Please check the logs above.")
		os.Exit(1)
	}

	log.Println("✅ All documents ingested successfully!")
}

// extractText handles both PDF and plain-text exemplar files.
func extractText(parser services.PDFParserService, path string) (string, error) {
	if strings.HasSuffix(strings.ToLower(path), ".txt") {
		data, err := os.ReadFile(path)
		if err != nil {
			return "", err
		}
		return services.CleanText(string(data)), nil
	}
	return parser.ExtractText(path)
}
