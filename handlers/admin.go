package handlers

import (
	"net/http"

	"tiffin-api/apperrors"

	"github.com/gin-gonic/gin"
)

// AdminStats returns dashboard counters, recomputed on every call.
func (h *Handler) AdminStats(c *gin.Context) {
	stats, err := h.Admin.Stats(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// AdminListUsers returns every user without password digests.
func (h *Handler) AdminListUsers(c *gin.Context) {
	users, err := h.Admin.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list(users))
}

// AdminToggleUserStatus activates or deactivates an account.
func (h *Handler) AdminToggleUserStatus(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		respondError(c, apperrors.ErrUserNotFound)
		return
	}
	user, err := h.Admin.ToggleUserStatus(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user":    gin.H{"id": user.ID, "isActive": user.IsActive},
	})
}
