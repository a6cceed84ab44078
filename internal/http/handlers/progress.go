package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/roadmaphub-backend/internal/domain"
	"github.com/yungbote/roadmaphub-backend/internal/http/response"
	"github.com/yungbote/roadmaphub-backend/internal/pkg/dbctx"
	"github.com/yungbote/roadmaphub-backend/internal/pkg/logger"
	"github.com/yungbote/roadmaphub-backend/internal/services"
)

type ProgressHandler struct {
	log *logger.Logger

	progressService services.ProgressService
}

func NewProgressHandler(log *logger.Logger, progressService services.ProgressService) *ProgressHandler {
	return &ProgressHandler{
		log:             log.With("handler", "ProgressHandler"),
		progressService: progressService,
	}
}

// GET /api/roadmaps/:id/progress?user_id=
func (h *ProgressHandler) RoadmapProgress(c *gin.Context) {
	roadmapID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondServiceError(c, invalidParam("roadmap id", err))
		return
	}
	userID, err := uuid.Parse(c.Query("user_id"))
	if err != nil {
		respondServiceError(c, invalidParam("user_id", err))
		return
	}

	dbc := dbctx.Context{Ctx: c.Request.Context()}
	progress, err := h.progressService.RoadmapProgress(dbc, userID, roadmapID)
	if err != nil {
		h.log.Error("RoadmapProgress failed", "error", err, "roadmap_id", roadmapID, "user_id", userID)
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, progress)
}

// GET /api/users/:id/completed-roadmaps
func (h *ProgressHandler) CompletedRoadmaps(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondServiceError(c, invalidParam("user id", err))
		return
	}

	dbc := dbctx.Context{Ctx: c.Request.Context()}
	roadmaps, err := h.progressService.CompletedRoadmaps(dbc, userID)
	if err != nil {
		h.log.Error("CompletedRoadmaps failed", "error", err, "user_id", userID)
		respondServiceError(c, err)
		return
	}
	if roadmaps == nil {
		roadmaps = []*domain.Roadmap{}
	}
	response.RespondOK(c, gin.H{"roadmaps": roadmaps})
}

type completionToggleRequest struct {
	UserID uuid.UUID `json:"user_id" binding:"required"`
}

// POST /api/nodes/:id/completion/toggle
//
// Flips completion state directly without touching reactions.
func (h *ProgressHandler) ToggleNodeCompletion(c *gin.Context) {
	nodeID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondServiceError(c, invalidParam("node id", err))
		return
	}
	var req completionToggleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	dbc := dbctx.Context{Ctx: c.Request.Context()}
	result, err := h.progressService.ToggleNodeCompletion(dbc, req.UserID, nodeID)
	if err != nil {
		h.log.Error("ToggleNodeCompletion failed", "error", err, "node_id", nodeID, "user_id", req.UserID)
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, result)
}
