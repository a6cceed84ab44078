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

type ReactionHandler struct {
	log *logger.Logger

	cascadeService  services.CascadeService
	reactionService services.ReactionService
}

func NewReactionHandler(
	log *logger.Logger,
	cascadeService services.CascadeService,
	reactionService services.ReactionService,
) *ReactionHandler {
	return &ReactionHandler{
		log:             log.With("handler", "ReactionHandler"),
		cascadeService:  cascadeService,
		reactionService: reactionService,
	}
}

type reactionRequest struct {
	UserID     uuid.UUID `json:"user_id" binding:"required"`
	EntityType string    `json:"entity_type" binding:"required"`
	EntityID   uuid.UUID `json:"entity_id" binding:"required"`
	Kind       string    `json:"kind" binding:"required"`
}

func (r *reactionRequest) resolve() (domain.EntityRef, domain.ReactionKind, error) {
	et, err := domain.ParseEntityType(r.EntityType)
	if err != nil {
		return domain.EntityRef{}, "", err
	}
	kind, err := domain.ParseReactionKind(r.Kind)
	if err != nil {
		return domain.EntityRef{}, "", err
	}
	return domain.EntityRef{Type: et, ID: r.EntityID}, kind, nil
}

// POST /api/reactions/toggle
//
// The cascading toggle: likes on nodes and roadmaps propagate into
// completion state.
func (h *ReactionHandler) Toggle(c *gin.Context) {
	var req reactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	ref, kind, err := req.resolve()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	dbc := dbctx.Context{Ctx: c.Request.Context()}
	result, err := h.cascadeService.ToggleReaction(dbc, req.UserID, ref, kind)
	if err != nil {
		h.log.Error("Toggle failed", "error", err, "user_id", req.UserID, "entity_type", ref.Type, "entity_id", ref.ID, "kind", kind)
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, result)
}

// POST /api/reactions
//
// Non-toggling store: adds the reaction, 409 if the tuple already exists.
// Never cascades.
func (h *ReactionHandler) Store(c *gin.Context) {
	var req reactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
		return
	}
	ref, kind, err := req.resolve()
	if err != nil {
		respondServiceError(c, err)
		return
	}

	dbc := dbctx.Context{Ctx: c.Request.Context()}
	created, err := h.reactionService.Store(dbc, req.UserID, ref, kind)
	if err != nil {
		h.log.Error("Store failed", "error", err, "user_id", req.UserID, "entity_type", ref.Type, "entity_id", ref.ID, "kind", kind)
		respondServiceError(c, err)
		return
	}
	response.RespondCreated(c, created)
}

// GET /api/reactions?user_id=&entity_type=&entity_id=
func (h *ReactionHandler) List(c *gin.Context) {
	userID, ref, err := queryTuple(c)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	dbc := dbctx.Context{Ctx: c.Request.Context()}
	rows, err := h.reactionService.ListForEntity(dbc, userID, ref)
	if err != nil {
		h.log.Error("List failed", "error", err, "user_id", userID, "entity_type", ref.Type, "entity_id", ref.ID)
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"reactions": rows})
}

// GET /api/reactions/counts?entity_type=&entity_id=
func (h *ReactionHandler) Counts(c *gin.Context) {
	ref, err := queryEntity(c)
	if err != nil {
		respondServiceError(c, err)
		return
	}

	dbc := dbctx.Context{Ctx: c.Request.Context()}
	counts, err := h.reactionService.CountsForEntity(dbc, ref)
	if err != nil {
		h.log.Error("Counts failed", "error", err, "entity_type", ref.Type, "entity_id", ref.ID)
		respondServiceError(c, err)
		return
	}
	response.RespondOK(c, gin.H{"counts": counts})
}

func queryTuple(c *gin.Context) (uuid.UUID, domain.EntityRef, error) {
	userID, err := uuid.Parse(c.Query("user_id"))
	if err != nil {
		return uuid.Nil, domain.EntityRef{}, invalidParam("user_id", err)
	}
	ref, err := queryEntity(c)
	if err != nil {
		return uuid.Nil, domain.EntityRef{}, err
	}
	return userID, ref, nil
}

func queryEntity(c *gin.Context) (domain.EntityRef, error) {
	et, err := domain.ParseEntityType(c.Query("entity_type"))
	if err != nil {
		return domain.EntityRef{}, err
	}
	entityID, err := uuid.Parse(c.Query("entity_id"))
	if err != nil {
		return domain.EntityRef{}, invalidParam("entity_id", err)
	}
	return domain.EntityRef{Type: et, ID: entityID}, nil
}
