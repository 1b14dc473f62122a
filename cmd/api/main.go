package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"go.uber.org/zap"

	"resumatch/resume-analyzer/internal/config"
	"resumatch/resume-analyzer/internal/handlers"
	"resumatch/resume-analyzer/internal/logger"
	"resumatch/resume-analyzer/internal/repositories"
	"resumatch/resume-analyzer/internal/services"
)

func main() {
	cfg := config.Load()

	log, err := logger.New(cfg.Server.Env)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	db, err := config.InitDatabase(cfg)
	if err != nil {
		log.Fatal("failed to initialize database", zap.Error(err))
	}
	log.Info("database connected and migrated")

	docRepo := repositories.NewDocumentRepository(db)
	analysisRepo := repositories.NewAnalysisRepository(db)

	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		log.Fatal("failed to create upload directory", zap.Error(err))
	}

	extractor := services.NewTextExtractor()
	catalog := services.NewSkillCatalog(cfg.Skills.HardSkillsPath, log)
	parser := services.NewResumeParser(cfg.Skills.SkillsCSVPath, services.NewProseRecognizer(), log)

	embedder, err := services.NewGeminiEmbedder(cfg.Gemini.APIKey, cfg.Gemini.EmbedModel, log)
	if err != nil {
		log.Fatal("failed to initialize embedder", zap.Error(err))
	}

	scorer := services.NewScoringEngine(embedder, catalog)

	predictor, err := services.NewRolePredictor(
		cfg.Artifacts.VectorizerPath,
		cfg.Artifacts.ClassifierPath,
		cfg.Artifacts.LabelsPath,
	)
	if err != nil {
		log.Fatal("failed to load role classifier artifacts", zap.Error(err))
	}
	log.Info("role classifier loaded", zap.Int("labels", len(predictor.Labels())))

	var vectorStore services.VectorStore
	if cfg.Qdrant.Enabled {
		vectorStore, err = services.NewQdrantStore(
			cfg.Qdrant.URL,
			cfg.Qdrant.APIKey,
			cfg.Qdrant.Collection,
			cfg.Qdrant.VectorSize,
			log,
		)
		if err != nil {
			log.Fatal("failed to initialize qdrant", zap.Error(err))
		}
		if err := vectorStore.InitCollection(); err != nil {
			log.Fatal("failed to initialize qdrant collection", zap.Error(err))
		}
		log.Info("qdrant initialized", zap.String("collection", cfg.Qdrant.Collection))
	} else {
		log.Info("qdrant disabled, resume search unavailable")
	}

	analyzerService := services.NewAnalyzer(
		analysisRepo,
		docRepo,
		extractor,
		parser,
		scorer,
		predictor,
		embedder,
		vectorStore,
		cfg.Worker.RetryMaxAttempts,
		log,
	)

	worker := services.NewWorker(analysisRepo, analyzerService, cfg.Worker.Concurrency, log)
	worker.Start(context.Background())

	uploadHandler := handlers.NewUploadHandler(docRepo, storageService, cfg.Storage.MaxFileSize)
	extractHandler := handlers.NewExtractHandler(extractor, parser)
	analyzeHandler := handlers.NewAnalyzeHandler(scorer, analysisRepo, docRepo, worker)
	predictHandler := handlers.NewPredictHandler(predictor)
	resultHandler := handlers.NewResultHandler(analysisRepo)
	searchHandler := handlers.NewSearchHandler(embedder, vectorStore)

	app := fiber.New(fiber.Config{
		AppName:      "Resume Analyzer API",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		BodyLimit:    int(cfg.Storage.MaxFileSize),
		ErrorHandler: customErrorHandler,
	})

	app.Use(recover.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		Format:     "[${time}] ${status} - ${latency} ${method} ${path}\n",
		TimeFormat: "2006-01-02 15:04:05",
	}))

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	api := app.Group("/api/v1")

	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	api.Post("/resumes/extract", extractHandler.HandleExtract)
	api.Post("/analyze", analyzeHandler.HandleAnalyze)
	api.Post("/predict", predictHandler.HandlePredict)
	api.Post("/upload", uploadHandler.HandleUpload)
	api.Post("/analyses", analyzeHandler.HandleCreateAnalysis)
	api.Get("/analyses/:id", resultHandler.HandleGetResult)
	api.Post("/search", searchHandler.HandleSearch)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Resume Analyzer API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/resumes/extract",
				"POST /api/v1/analyze",
				"POST /api/v1/predict",
				"POST /api/v1/upload",
				"POST /api/v1/analyses",
				"GET  /api/v1/analyses/:id",
				"POST /api/v1/search",
			},
		})
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Info("shutting down server")
		worker.Stop()
		if err := app.Shutdown(); err != nil {
			log.Error("server forced to shutdown", zap.Error(err))
		}
	}()

	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Info("server starting", zap.String("addr", addr))

	if err := app.Listen(addr); err != nil {
		log.Fatal("failed to start server", zap.Error(err))
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
