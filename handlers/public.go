package handlers

import (
	"net/http"
	"time"

	"tiffin-api/apperrors"
	"tiffin-api/statemachine"

	"github.com/gin-gonic/gin"
)

// ListDishes returns the available dishes in menu order.
func (h *Handler) ListDishes(c *gin.Context) {
	dishes, err := h.Catalog.ListAvailableDishes(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list(dishes))
}

func (h *Handler) GetDish(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		respondError(c, apperrors.ErrDishNotFound)
		return
	}
	dish, err := h.Catalog.GetDish(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dish)
}

// GetStateMachineInfo documents the canonical order lifecycle.
func (h *Handler) GetStateMachineInfo(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"state_machine":   statemachine.GetAllTransitions(),
		"terminal_states": statemachine.TerminalStatuses,
		"description":     "Tiffin order lifecycle. Transitions outside this table are accepted and logged.",
	})
}

// Health reports liveness and uptime in seconds.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":      "OK",
		"timestamp":   time.Now().UTC().Format(time.RFC3339Nano),
		"uptime":      time.Since(h.StartedAt).Seconds(),
		"environment": h.Env,
	})
}
