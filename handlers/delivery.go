package handlers

import (
	"net/http"

	"tiffin-api/apperrors"
	"tiffin-api/middleware"
	"tiffin-api/models"

	"github.com/gin-gonic/gin"
)

// DeliveryLogin authenticates delivery partners only.
func (h *Handler) DeliveryLogin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Email and password are required")
		return
	}
	res, err := h.Auth.AuthenticateByPassword(c.Request.Context(), req.Email, req.Password, models.RoleDeliveryPartner)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"token":   res.Token,
		"partner": gin.H{
			"id":    res.User.ID,
			"name":  res.User.Name,
			"email": res.User.Email,
			"phone": res.User.Phone,
		},
	})
}

// DeliveryOrders returns claimable orders plus the partner's own
// deliveries.
func (h *Handler) DeliveryOrders(c *gin.Context) {
	orders, err := h.Delivery.AvailableForPartner(c.Request.Context(), middleware.GetSession(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list(orders))
}

func (h *Handler) DeliveryStats(c *gin.Context) {
	stats, err := h.Delivery.PartnerStats(c.Request.Context(), middleware.GetSession(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *Handler) DeliveryProfile(c *gin.Context) {
	profile, err := h.Delivery.Profile(c.Request.Context(), middleware.GetSession(c).UserID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile)
}

// DeliveryOrderDetail returns one order the partner may see: a claimable
// order or one assigned to them.
func (h *Handler) DeliveryOrderDetail(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		respondError(c, apperrors.ErrOrderNotFound)
		return
	}
	order, err := h.Orders.GetOrder(c.Request.Context(), middleware.GetSession(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// DeliveryAcceptOrder claims a CONFIRMED order for the calling partner.
func (h *Handler) DeliveryAcceptOrder(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		respondError(c, apperrors.ErrOrderNotFound)
		return
	}
	order, err := h.Orders.AcceptOrder(c.Request.Context(), middleware.GetSession(c), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "order": order})
}

type onlineRequest struct {
	IsOnline *bool `json:"isOnline" binding:"required"`
}

func (h *Handler) DeliverySetStatus(c *gin.Context) {
	var req onlineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "isOnline is required")
		return
	}
	profile, err := h.Delivery.SetOnline(c.Request.Context(), middleware.GetSession(c).UserID, *req.IsOnline)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "isOnline": profile.IsOnline})
}

type locationRequest struct {
	Lat *float64 `json:"lat" binding:"required"`
	Lng *float64 `json:"lng" binding:"required"`
}

func (h *Handler) DeliveryUpdateLocation(c *gin.Context) {
	var req locationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "lat and lng are required")
		return
	}
	loc, err := h.Delivery.UpdateLocation(c.Request.Context(), middleware.GetSession(c).UserID,
		models.Location{Lat: *req.Lat, Lng: *req.Lng})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "location": loc})
}
