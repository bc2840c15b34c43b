package main

import (
	"context"
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

	"resume-optimizer/internal/config"
	"resume-optimizer/internal/handlers"
	"resume-optimizer/internal/repositories"
	"resume-optimizer/internal/services"
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
	docRepo := repositories.NewDocumentRepository(db)
	jobRepo := repositories.NewJobRepository(db)
	optRepo := repositories.NewOptimizationRepository(db)
	userRepo := repositories.NewUserRepository(db)
	log.Println("✅ Repositories initialized successfully")

	// Initialize services
	storageService := services.NewStorageService(cfg.Storage.UploadPath)
	if err := storageService.EnsureUploadDir(); err != nil {
		log.Fatalf("❌ Failed to create upload directory: %v", err)
	}

	extractor := services.NewPDFExtractorService()
	renderer := services.NewPDFRendererService()
	jobFetcher := services.NewJobFetcherService()
	chunker := services.NewTextChunker()
	log.Println("✅ Services initialized successfully")

	// Initialize Gemini AI
	geminiService, err := services.NewGeminiService(cfg.Gemini.APIKey)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Gemini AI: %v", err)
	}
	log.Println("✅ Gemini AI initialized successfully")

	// Initialize the job vector index
	jobIndex, err := services.NewJobIndexService(
		cfg.Qdrant.URL,
		cfg.Qdrant.APIKey,
		cfg.Qdrant.Collection,
	)
	if err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant: %v", err)
	}

	if err := jobIndex.InitCollection(); err != nil {
		log.Fatalf("❌ Failed to initialize Qdrant collection: %v", err)
	}
	log.Println("✅ Qdrant initialized successfully")

	// Initialize optimizer
	optimizerService := services.NewOptimizerService(
		optRepo,
		docRepo,
		jobRepo,
		geminiService,
		extractor,
		renderer,
		cfg.Worker.RetryMaxAttempts,
	)
	log.Println("✅ Optimizer service initialized")

	// Initialize worker
	worker := services.NewWorker(
		optRepo,
		optimizerService,
		cfg.Worker.Concurrency,
		cfg.Worker.PollInterval,
	)
	log.Println("✅ Worker initialized successfully")

	// Start worker
	ctx := context.Background()
	worker.Start(ctx)

	// Initialize handlers
	resumeHandler := handlers.NewResumeHandler(
		docRepo,
		storageService,
		cfg.Storage.MaxFileSize,
	)
	jobHandler := handlers.NewJobHandler(
		jobRepo,
		jobFetcher,
		geminiService,
		jobIndex,
		chunker,
	)
	optimizeHandler := handlers.NewOptimizeHandler(
		optRepo,
		docRepo,
		jobRepo,
		userRepo,
		optimizerService,
		worker,
		cfg.Credits.InitialBalance,
	)
	userHandler := handlers.NewUserHandler(userRepo, cfg.Credits.InitialBalance)
	log.Println("✅ Handlers initialized")

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "Resume Optimizer API",
		ReadTimeout:  30 * time.Second,
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
		AllowHeaders: "Origin, Content-Type, Accept, Authorization, X-User-ID",
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

	// Resumes
	api.Post("/resumes", resumeHandler.HandleUpload)
	api.Get("/resumes", resumeHandler.HandleList)
	api.Delete("/resumes/:id", resumeHandler.HandleDelete)

	// Job postings
	api.Post("/jobs", jobHandler.HandleCreate)
	api.Get("/jobs", jobHandler.HandleList)
	api.Delete("/jobs/:id", jobHandler.HandleDelete)
	api.Get("/jobs/:id/similar", jobHandler.HandleSimilar)

	// Optimizations
	api.Post("/optimize", optimizeHandler.HandleOptimize)
	api.Get("/optimizations", optimizeHandler.HandleList)
	api.Get("/optimizations/:id", optimizeHandler.HandleGetResult)
	api.Get("/optimizations/:id/download", optimizeHandler.HandleDownload)
	api.Post("/optimizations/:id/cover-letter", optimizeHandler.HandleCoverLetter)

	// Users
	api.Get("/users/me", userHandler.HandleMe)

	// Root route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Resume Optimizer API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /api/v1/resumes",
				"POST /api/v1/jobs",
				"POST /api/v1/optimize",
				"GET /api/v1/optimizations/:id",
				"GET /api/v1/optimizations/:id/download",
				"POST /api/v1/optimizations/:id/cover-letter",
			},
		})
	})

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		log.Println("\n🛑 Shutting down server...")
		worker.Stop()
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
