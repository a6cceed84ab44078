package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/roadmaphub-backend/internal/http/response"
	"github.com/yungbote/roadmaphub-backend/internal/pkg/logger"
	"github.com/yungbote/roadmaphub-backend/internal/services"
)

type RecommendationHandler struct {
	log *logger.Logger

	recommendationService services.RecommendationService
}

func NewRecommendationHandler(log *logger.Logger, recommendationService services.RecommendationService) *RecommendationHandler {
	return &RecommendationHandler{
		log:                   log.With("handler", "RecommendationHandler"),
		recommendationService: recommendationService,
	}
}

// GET /api/roadmaps/recommendations?topic=&limit=
func (h *RecommendationHandler) Recommend(c *gin.Context) {
	topic := c.Query("topic")

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			respondServiceError(c, invalidParam("limit", err))
			return
		}
		limit = n
	}

	results, err := h.recommendationService.Recommend(c.Request.Context(), topic, limit)
	if err != nil {
		h.log.Error("Recommend failed", "error", err, "topic", topic, "limit", limit)
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"recommendations": results})
}
