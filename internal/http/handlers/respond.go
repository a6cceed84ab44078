package handlers

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/roadmaphub-backend/internal/http/response"
	pkgerrors "github.com/yungbote/roadmaphub-backend/internal/pkg/errors"
	"github.com/yungbote/roadmaphub-backend/internal/platform/apierr"
)

// respondServiceError maps service errors onto HTTP statuses. Sentinel
// wrapping is the contract: services return errors wrapped around the
// shared sentinels and handlers never inspect message text.
func respondServiceError(c *gin.Context, err error) {
	var ae *apierr.Error
	if errors.As(err, &ae) {
		response.RespondError(c, ae.Status, ae.Code, ae.Err)
		return
	}

	switch {
	case errors.Is(err, pkgerrors.ErrNotFound):
		response.RespondError(c, http.StatusNotFound, "not_found", err)
	case errors.Is(err, pkgerrors.ErrConflict):
		response.RespondError(c, http.StatusConflict, "conflict", err)
	case errors.Is(err, pkgerrors.ErrInvalidArgument):
		response.RespondError(c, http.StatusBadRequest, "invalid_request", err)
	default:
		response.RespondError(c, http.StatusInternalServerError, "internal_error", err)
	}
}

func invalidParam(name string, err error) error {
	return fmt.Errorf("%w: %s: %v", pkgerrors.ErrInvalidArgument, name, err)
}
