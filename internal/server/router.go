package server

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/yungbote/roadmaphub-backend/internal/http/handlers"
	"github.com/yungbote/roadmaphub-backend/internal/http/middleware"
	"github.com/yungbote/roadmaphub-backend/internal/pkg/logger"
	"github.com/yungbote/roadmaphub-backend/internal/platform/envutil"
)

type RouterConfig struct {
	Log *logger.Logger

	HealthHandler         *handlers.HealthHandler
	ReactionHandler       *handlers.ReactionHandler
	ProgressHandler       *handlers.ProgressHandler
	ScoreHandler          *handlers.ScoreHandler
	RecommendationHandler *handlers.RecommendationHandler
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(cfg.Log))
	router.Use(otelgin.Middleware(envutil.String("OTEL_SERVICE_NAME", "roadmaphub-backend")))

	router.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	router.GET("/healthcheck", cfg.HealthHandler.HealthCheck)

	api := router.Group("/api")
	{
		// Reactions
		api.POST("/reactions/toggle", cfg.ReactionHandler.Toggle)
		api.POST("/reactions", cfg.ReactionHandler.Store)
		api.GET("/reactions", cfg.ReactionHandler.List)
		api.GET("/reactions/counts", cfg.ReactionHandler.Counts)

		// Progress
		api.GET("/roadmaps/:id/progress", cfg.ProgressHandler.RoadmapProgress)
		api.GET("/users/:id/completed-roadmaps", cfg.ProgressHandler.CompletedRoadmaps)
		api.POST("/nodes/:id/completion/toggle", cfg.ProgressHandler.ToggleNodeCompletion)

		// Scores
		api.POST("/score/recalculate", cfg.ScoreHandler.Recalculate)
		api.GET("/users/:id/score", cfg.ScoreHandler.CurrentScore)

		// Recommendations
		api.GET("/roadmaps/recommendations", cfg.RecommendationHandler.Recommend)
	}

	return router
}

func allowedOrigins() []string {
	raw := envutil.String("CORS_ALLOWED_ORIGINS", "http://localhost:3000,http://localhost:5173")
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}
