package handlers

import (
	"net/http"

	"tiffin-api/apperrors"
	"tiffin-api/middleware"
	"tiffin-api/models"
	"tiffin-api/services"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type OrderItemRequest struct {
	DishID   uint            `json:"dishId"`
	Name     string          `json:"name"`
	Price    decimal.Decimal `json:"price"`
	Quantity int             `json:"quantity" binding:"required,min=1"`
}

type PlaceOrderRequest struct {
	Items               []OrderItemRequest `json:"items" binding:"required,min=1,dive"`
	DeliveryAddress     string             `json:"deliveryAddress"`
	PaymentMethod       string             `json:"paymentMethod"`
	SpecialInstructions string             `json:"specialInstructions"`
}

type UpdateOrderStatusRequest struct {
	Status models.OrderStatus `json:"status" binding:"required"`
}

// ListOrders returns the orders the caller may see.
func (h *Handler) ListOrders(c *gin.Context) {
	orders, err := h.Orders.ListOrders(c.Request.Context(), middleware.GetSession(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list(orders))
}

// PlaceOrder creates an order for the caller. Line prices are taken from
// the request as sent.
func (h *Handler) PlaceOrder(c *gin.Context) {
	var req PlaceOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}

	items := make([]services.OrderItemInput, len(req.Items))
	for i, it := range req.Items {
		items[i] = services.OrderItemInput{
			DishID:   it.DishID,
			Name:     it.Name,
			Price:    it.Price,
			Quantity: it.Quantity,
		}
	}
	session := middleware.GetSession(c)
	order, err := h.Orders.CreateOrder(c.Request.Context(), session.UserID, services.CreateOrderInput{
		Items:               items,
		DeliveryAddress:     req.DeliveryAddress,
		PaymentMethod:       req.PaymentMethod,
		SpecialInstructions: req.SpecialInstructions,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "order": order})
}

// GetOrderDetail returns one order with its status history.
func (h *Handler) GetOrderDetail(c *gin.Context) {
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
	c.JSON(http.StatusOK, gin.H{"success": true, "order": order})
}

// UpdateOrderStatus sets an order's status. Customers may only touch their
// own orders; a delivery partner moving an order out for delivery is
// assigned to it.
func (h *Handler) UpdateOrderStatus(c *gin.Context) {
	id, err := paramID(c, "id")
	if err != nil {
		respondError(c, apperrors.ErrOrderNotFound)
		return
	}
	var req UpdateOrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Status is required")
		return
	}
	order, err := h.Orders.TransitionStatus(c.Request.Context(), middleware.GetSession(c), id, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "order": order})
}
