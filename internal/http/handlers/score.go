package handlers

import (
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yungbote/roadmaphub-backend/internal/http/response"
	"github.com/yungbote/roadmaphub-backend/internal/pkg/dbctx"
	"github.com/yungbote/roadmaphub-backend/internal/pkg/logger"
	"github.com/yungbote/roadmaphub-backend/internal/services"
)

type ScoreHandler struct {
	log *logger.Logger

	scoreService services.ScoreService
}

func NewScoreHandler(log *logger.Logger, scoreService services.ScoreService) *ScoreHandler {
	return &ScoreHandler{
		log:          log.With("handler", "ScoreHandler"),
		scoreService: scoreService,
	}
}

type recalculateRequest struct {
	// Nil means recalculate every user.
	UserID *uuid.UUID `json:"user_id"`
}

// POST /api/score/recalculate
//
// An empty body recalculates every user.
func (h *ScoreHandler) Recalculate(c *gin.Context) {
	var req recalculateRequest
	if err := c.ShouldBindJSON(&req); err != nil && err != io.EOF {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}

	if req.UserID == nil {
		summary, err := h.scoreService.RecalculateAll(c.Request.Context())
		if err != nil {
			h.log.Error("Recalculate failed (batch)", "error", err)
			respondServiceError(c, err)
			return
		}
		response.RespondOK(c, summary)
		return
	}

	dbc := dbctx.Context{Ctx: c.Request.Context()}
	result, err := h.scoreService.Recalculate(dbc, *req.UserID)
	if err != nil {
		h.log.Error("Recalculate failed", "error", err, "user_id", *req.UserID)
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, result)
}

// GET /api/users/:id/score
func (h *ScoreHandler) CurrentScore(c *gin.Context) {
	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondServiceError(c, invalidParam("user id", err))
		return
	}

	dbc := dbctx.Context{Ctx: c.Request.Context()}
	score, err := h.scoreService.CurrentScore(dbc, userID)
	if err != nil {
		h.log.Error("CurrentScore failed", "error", err, "user_id", userID)
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"user_id": userID, "score": score})
}
