package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/overruled/mocktrial-backend/internal/handlers"
	"github.com/overruled/mocktrial-backend/internal/middleware"
)

type RouterConfig struct {
	CaseHandler     *handlers.CaseHandler
	JudgmentHandler *handlers.JudgmentHandler
	ArgumentHandler *handlers.ArgumentHandler
	DocumentHandler *handlers.DocumentHandler
	RateLimit       *middleware.GenerationRateLimit
	MetricsGatherer prometheus.Gatherer
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins: []string{
			"http://localhost:3000",
			"http://localhost:5173",
		},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", handlers.HealthCheck)
	if cfg.MetricsGatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(cfg.MetricsGatherer, promhttp.HandlerOpts{})))
	}

	api := router.Group("/api")
	{
		api.POST("/cases", cfg.CaseHandler.CreateCase)
		api.GET("/cases/:id", cfg.CaseHandler.GetCase)
		api.GET("/cases/:id/arguments", cfg.ArgumentHandler.GetArguments)
		api.GET("/cases/:id/judgments", cfg.JudgmentHandler.GetJudgments)
		api.POST("/documents/extract", cfg.DocumentHandler.ExtractText)

		// Generation endpoints share one rate limiter; each call holds an
		// LLM round-trip open for seconds.
		generation := api.Group("/")
		generation.Use(cfg.RateLimit.Limit())
		generation.POST("/cases/:id/judgment", cfg.JudgmentHandler.GenerateJudgment)
		generation.POST("/cases/:id/arguments", cfg.ArgumentHandler.SubmitArgument)
		generation.POST("/cases/:id/verdict", cfg.JudgmentHandler.GenerateFinalVerdict)
	}

	return router
}
