package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/overruled/mocktrial-backend/internal/clients/redis"
	"github.com/overruled/mocktrial-backend/internal/db"
	"github.com/overruled/mocktrial-backend/internal/handlers"
	"github.com/overruled/mocktrial-backend/internal/llm"
	"github.com/overruled/mocktrial-backend/internal/logger"
	"github.com/overruled/mocktrial-backend/internal/middleware"
	"github.com/overruled/mocktrial-backend/internal/observability"
	"github.com/overruled/mocktrial-backend/internal/repos"
	"github.com/overruled/mocktrial-backend/internal/server"
	"github.com/overruled/mocktrial-backend/internal/services"
	"github.com/overruled/mocktrial-backend/internal/utils"
)

func main() {
	_ = godotenv.Load()

	// Logger
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Fatal("Postgres init failed", "error", err)
	}
	if err = postgresService.AutoMigrateAll(); err != nil {
		log.Fatal("Postgres auto migration failed", "error", err)
	}
	thePG := postgresService.DB()

	// Redis judgment cache; degrade to always-miss when unavailable.
	cache, err := redis.NewJudgmentCache(log)
	if err != nil {
		log.Warn("Judgment cache unavailable, running without caching", "error", err)
		cache = redis.NewNopCache()
	}

	// Metrics
	registry := prometheus.NewRegistry()
	metrics := observability.NewMetrics(registry)

	// Generation backend
	llmConfig, err := llm.ConfigFromEnv(log)
	if err != nil {
		log.Fatal("Could not resolve LLM config", "error", err)
	}
	generator, err := llm.NewClient(llmConfig, log, metrics)
	if err != nil {
		log.Fatal("Could not init LLM client", "error", err)
	}
	promptPolicy := llm.ParsePromptRetryPolicy(utils.GetEnv("LLM_PROMPT_RETRY_POLICY", "replay", log))

	// Repos
	log.Info("Setting up repos...")
	caseRepo := repos.NewCaseRepo(thePG, log)
	judgmentRepo := repos.NewJudgmentRepo(thePG, log)
	argumentRepo := repos.NewArgumentRepo(thePG, log)

	// Services
	log.Info("Setting up services...")
	caseService := services.NewCaseService(thePG, log, caseRepo)
	verdictService := services.NewVerdictService(thePG, log, caseRepo, judgmentRepo, argumentRepo, cache, generator, promptPolicy)
	documentService := services.NewDocumentService(log)

	// Handlers
	caseHandler := handlers.NewCaseHandler(caseService)
	judgmentHandler := handlers.NewJudgmentHandler(verdictService)
	argumentHandler := handlers.NewArgumentHandler(verdictService)
	documentHandler := handlers.NewDocumentHandler(documentService)

	// Rate limiter over the generation endpoints.
	generationRPS := utils.GetEnvAsInt("GENERATION_RATE_LIMIT_RPS", 2, log)
	generationBurst := utils.GetEnvAsInt("GENERATION_RATE_LIMIT_BURST", 5, log)
	rateLimit := middleware.NewGenerationRateLimit(log, float64(generationRPS), generationBurst)

	router := server.NewRouter(server.RouterConfig{
		CaseHandler:     caseHandler,
		JudgmentHandler: judgmentHandler,
		ArgumentHandler: argumentHandler,
		DocumentHandler: documentHandler,
		RateLimit:       rateLimit,
		MetricsGatherer: registry,
	})

	port := utils.GetEnv("PORT", "8080", log)
	log.Info("Starting server", "port", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatal("Server exited", "error", err)
	}
}
