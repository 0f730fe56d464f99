package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"adkrecruit/interview-pipeline/internal/config"
	"adkrecruit/interview-pipeline/internal/handlers"
	"adkrecruit/interview-pipeline/internal/repositories"
	"adkrecruit/interview-pipeline/internal/services"
)

func main() {
	// Load configuration
	cfg := config.Load()
	log.Println("✅ Config loaded successfully")

	// Initialize database
	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to initialize database: %v", err)
	}

	// Initialize repositories
	candidateRepo := repositories.NewCandidateRepository(db)
	reportRepo := repositories.NewReportRepository(db)
	log.Println("✅ Repositories initialized successfully")

	// Initialize storage
	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		log.Fatalf("❌ Failed to create upload directory: %v", err)
	}

	durableArtifacts := services.NewDBArtifactStore(db)
	localArtifacts := services.NewLocalArtifactStore(cfg.Storage.ArtifactDir)
	log.Println("✅ Artifact stores initialized successfully")

	// Initialize Gemini AI. A missing key is not fatal: every consumer falls
	// back to its deterministic path.
	var geminiService services.GeminiService
	if cfg.Gemini.APIKey != "" {
		geminiService, err = services.NewGeminiService(cfg.Gemini.APIKey, cfg.Gemini.EmbedModel)
		if err != nil {
			log.Fatalf("❌ Failed to initialize Gemini AI: %v", err)
		}
		log.Println("✅ Gemini AI initialized successfully")
	} else {
		log.Println("⚠️ GEMINI_API_KEY not set, running with deterministic fallbacks only")
	}

	// Initialize Qdrant (optional; used for exemplar retrieval)
	var qdrantService services.QdrantService
	if cfg.Qdrant.URL != "" {
		qdrantService, err = services.NewQdrantService(
			cfg.Qdrant.URL,
			cfg.Qdrant.APIKey,
			cfg.Qdrant.Collection,
		)
		if err != nil {
			log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
		}
		if err := qdrantService.InitCollection(); err != nil {
			log.Fatalf("❌ Failed to initialize Qdrant collection: %v", err)
		}
		log.Println("✅ Qdrant initialized successfully")
	} else {
		log.Println("⚠️ QDRANT_URL not set, exemplar retrieval disabled")
	}

	var textGen services.TextGenerator
	var embedder services.Embedder
	var transcriber services.AudioTranscriber
	if geminiService != nil {
		textGen = geminiService
		embedder = geminiService
		transcriber = geminiService
	}

	// Initialize services
	pdfParser := services.NewPDFParserService()
	redactor := services.NewRedactorService(nil)
	extractor := services.NewProfileExtractorService(textGen, cfg.Gemini.ExtractModel)
	tts := services.NewLocalTTSService()
	stt := services.NewSpeechToTextService(transcriber)
	questionGen := services.NewQuestionGeneratorService(
		textGen,
		cfg.Gemini.QuestionModel,
		embedder,
		qdrantService,
		tts,
		durableArtifacts,
	)
	scorer := services.NewRubricScorerService(textGen, cfg.Gemini.ScoringModel, embedder, qdrantService)
	assembler := services.NewReportAssemblerService(durableArtifacts, localArtifacts, reportRepo)
	pipeline := services.NewPipelineService(
		pdfParser,
		redactor,
		extractor,
		questionGen,
		durableArtifacts,
		candidateRepo,
	)
	log.Println("✅ Services initialized successfully")

	// Initialize handlers
	pipelineHandler := handlers.NewPipelineHandler(
		pipeline,
		storageService,
		candidateRepo,
		cfg.Storage.MaxFileSize,
		cfg.Pipeline.DefaultQuestions,
	)
	answerHandler := handlers.NewAnswerHandler(stt, durableArtifacts, storageService)
	analyzeHandler := handlers.NewAnalyzeHandler(scorer, assembler, candidateRepo)
	reportHandler := handlers.NewReportHandler(reportRepo)
	audioHandler := handlers.NewAudioHandler(durableArtifacts)
	log.Println("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Interview Pipeline API",
		ReadTimeout:  60 * time.Second,
		WriteTimeout: 60 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize),
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	// Routes
	api := app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	// API endpoints
	api.Post("/pipeline/start", pipelineHandler.HandleStart)
	api.Post("/answer", answerHandler.HandleAnswer)
	api.Post("/analyze", analyzeHandler.HandleAnalyze)
	api.Get("/report/:candidateID", reportHandler.HandleGetReport)
	api.Get("/audio/*", audioHandler.HandleGetAudio)

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Interview Pipeline API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/pipeline/start",
				"POST /api/v1/answer",
				"POST /api/v1/analyze",
				"GET /api/v1/report/:candidateID",
				"GET /api/v1/audio/*",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		if err := app.Shutdown(); err != nil {
			log.Printf("❌ Server forced to shutdown: %v", err)
		}
	}()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("🚀 Server starting on %s\n", addr)

	if err := app.Listen(addr); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}
