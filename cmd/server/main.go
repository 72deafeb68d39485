package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"folio/internal/ai"
	"folio/internal/auth"
	"folio/internal/casestudy/render"
	"folio/internal/casestudy/schema"
	"folio/internal/config"
	"folio/internal/domain"
	"folio/internal/domain/models"
	"folio/internal/handler"
	"folio/internal/middleware"
	"folio/internal/repository/postgres"
	"folio/internal/service"
	"folio/internal/storage"

	md "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func main() {
	// Load .env file (silently ignore if it doesn't exist - for production)
	_ = godotenv.Load()

	// Load configuration
	cfg := config.Load()

	// Setup structured logging
	logLevel := slog.LevelInfo
	if cfg.Environment == "dev" {
		logLevel = slog.LevelDebug
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	logger.Info("server starting",
		"environment", cfg.Environment,
		"port", cfg.Port,
		"table_prefix", cfg.TablePrefix,
	)

	// Create JWT verifier for Supabase authentication
	jwtVerifier, err := auth.NewJWTVerifier(cfg.SupabaseJWKSURL, logger)
	if err != nil {
		log.Fatalf("Failed to create JWT verifier: %v", err)
	}
	defer jwtVerifier.Close()

	// Create pgx connection pool
	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.SupabaseDBURL)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	logger.Info("database connected",
		"max_conns", 25,
		"min_conns", 5,
	)

	// Create table names
	tables := postgres.NewTableNames(cfg.TablePrefix)

	// Create repositories
	repoConfig := &postgres.RepositoryConfig{
		Pool:   pool,
		Tables: tables,
		Logger: logger,
	}
	caseStudyRepo := postgres.NewCaseStudyRepository(repoConfig)
	storyRepo := postgres.NewStoryRepository(repoConfig)
	carouselRepo := postgres.NewCarouselRepository(repoConfig)
	settingsRepo := postgres.NewSettingsRepository(repoConfig)
	txManager := postgres.NewTransactionManager(pool)

	// Load the section schema and build the renderer registry from it
	sections := schema.MustLoad()
	renderers, err := render.NewRegistry(sections)
	if err != nil {
		log.Fatalf("Failed to build renderer registry: %v", err)
	}
	logger.Info("section schema loaded", "sections", len(sections.Ordered()))

	// AI client boots from stored settings; configured defaults apply when
	// nothing has been persisted yet.
	aiDefaults := &models.AISettings{
		Model:       cfg.DefaultModel,
		DefaultTone: cfg.DefaultTone,
	}
	aiSettings, err := settingsRepo.GetAISettings(ctx)
	if errors.Is(err, domain.ErrNotFound) {
		aiSettings = aiDefaults
	} else if err != nil {
		log.Fatalf("Failed to load AI settings: %v", err)
	}
	aiClient, err := ai.NewClient(cfg.AnthropicAPIKey, aiSettings, logger)
	if err != nil {
		log.Fatalf("Failed to create AI client: %v", err)
	}

	// Asset storage
	uploader := storage.NewSupabaseStorage(cfg.SupabaseURL, cfg.SupabaseKey, cfg.StorageBucket)

	// Markdown export converter
	mdConverter := md.NewConverter("", true, nil)

	// Create services
	caseStudyService := service.NewCaseStudyService(caseStudyRepo, txManager, sections, renderers, mdConverter, logger)
	storyService := service.NewStoryService(storyRepo, logger)
	carouselService := service.NewCarouselService(carouselRepo, logger)
	settingsService := service.NewSettingsService(settingsRepo, aiClient, aiDefaults, logger)
	assistService := service.NewAssistService(aiClient, sections, logger)

	// Create handlers
	caseStudyHandler := handler.NewCaseStudyHandler(caseStudyService, sections, logger)
	publicHandler := handler.NewPublicHandler(caseStudyService, storyService, carouselService, logger)
	contentHandler := handler.NewContentHandler(storyService, carouselService, settingsService, logger)
	assistHandler := handler.NewAssistHandler(assistService, logger)
	assetHandler := handler.NewAssetHandler(uploader, logger)

	logger.Info("services initialized")

	// Create HTTP router (Go 1.22+ enhanced patterns)
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", caseStudyHandler.HealthCheck)

	// Case-study routes
	mux.HandleFunc("GET /api/case-studies/schema", caseStudyHandler.GetSchema) // Must come before {id} route
	mux.HandleFunc("GET /api/case-studies", caseStudyHandler.ListCaseStudies)
	mux.HandleFunc("POST /api/case-studies", caseStudyHandler.CreateCaseStudy)
	mux.HandleFunc("GET /api/case-studies/{id}", caseStudyHandler.GetCaseStudy)
	mux.HandleFunc("PATCH /api/case-studies/{id}", caseStudyHandler.UpdateCaseStudy)
	mux.HandleFunc("DELETE /api/case-studies/{id}", caseStudyHandler.DeleteCaseStudy)
	mux.HandleFunc("PATCH /api/case-studies/{id}/sections/{name}", caseStudyHandler.UpdateSection)
	mux.HandleFunc("POST /api/case-studies/{id}/save", caseStudyHandler.SaveCaseStudy)
	mux.HandleFunc("POST /api/case-studies/{id}/publish", caseStudyHandler.PublishCaseStudy)
	mux.HandleFunc("GET /api/case-studies/{id}/preview", caseStudyHandler.PreviewCaseStudy)
	mux.HandleFunc("GET /api/case-studies/{id}/export", caseStudyHandler.ExportCaseStudy)

	// Story routes
	mux.HandleFunc("GET /api/story", contentHandler.GetStory)
	mux.HandleFunc("PUT /api/story", contentHandler.UpsertStory)

	// Carousel routes
	mux.HandleFunc("GET /api/carousel", contentHandler.ListCarousel)
	mux.HandleFunc("POST /api/carousel", contentHandler.CreateCarouselItem)
	mux.HandleFunc("PUT /api/carousel/order", contentHandler.ReorderCarousel) // Must come before {id} route
	mux.HandleFunc("PUT /api/carousel/{id}", contentHandler.UpdateCarouselItem)
	mux.HandleFunc("DELETE /api/carousel/{id}", contentHandler.DeleteCarouselItem)

	// Settings routes
	mux.HandleFunc("GET /api/settings/ai", contentHandler.GetAISettings)
	mux.HandleFunc("PUT /api/settings/ai", contentHandler.UpdateAISettings)

	// AI assist
	mux.HandleFunc("POST /api/assist", assistHandler.Assist)

	// Asset uploads
	mux.HandleFunc("POST /api/assets", assetHandler.UploadAsset)

	// Public routes (no auth; see middleware.Auth)
	mux.HandleFunc("GET /api/public/case-studies", publicHandler.ListCaseStudies)
	mux.HandleFunc("GET /api/public/case-studies/{slug}", publicHandler.GetCaseStudy)
	mux.HandleFunc("GET /api/public/story", publicHandler.GetStory)
	mux.HandleFunc("GET /api/public/carousel", publicHandler.GetCarousel)

	// Build middleware chain
	var httpHandler http.Handler = mux

	// Apply middleware in reverse order (they wrap each other)
	// Order: CORS → Recovery → Auth → Routes
	httpHandler = middleware.Auth(jwtVerifier)(httpHandler)
	httpHandler = middleware.Recovery(logger)(httpHandler)

	// CORS - Must be before auth to handle OPTIONS pre-flight requests
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   strings.Split(cfg.CORSOrigins, ","),
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		AllowCredentials: true,
	})
	httpHandler = corsHandler.Handler(httpHandler)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      httpHandler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server
	logger.Info("server listening", "port", cfg.Port)
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("Failed to start server: %v", err)
	}
}
