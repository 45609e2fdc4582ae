package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/MohammedIbrahim8887/helix/pkg/security"
)

// Me handles GET /api/me. The account row is created on the first
// authenticated call, i.e. on first sign-in.
func (h *Handler) Me(c *gin.Context) {
	userID := c.GetString(security.ContextUserID)
	if userID == "" {
		respondError(c, http.StatusUnauthorized, "Unauthorized")
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	acc, err := h.accounts.Ensure(ctx, userID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "Failed to resolve account")
		return
	}

	respondSuccess(c, http.StatusOK, acc, "Account fetched successfully")
}
