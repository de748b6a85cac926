package handlers

import (
	"net/http"

	"tiffin-api/middleware"
	"tiffin-api/models"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type CreatePaymentRequest struct {
	Amount        *decimal.Decimal `json:"amount" binding:"required"`
	Currency      string           `json:"currency"`
	PaymentMethod string           `json:"paymentMethod"`
}

type VerifyPaymentRequest struct {
	PaymentID string `json:"paymentId"`
	OrderID   string `json:"orderId"`
	Signature string `json:"signature"`
}

// CreatePayment creates a gateway order and reports the payment method,
// defaulting it when absent.
func (h *Handler) CreatePayment(c *gin.Context) {
	h.createPaymentOrder(c, true)
}

// CreatePaymentOrder creates a gateway order without a payment method.
func (h *Handler) CreatePaymentOrder(c *gin.Context) {
	h.createPaymentOrder(c, false)
}

func (h *Handler) createPaymentOrder(c *gin.Context, withMethod bool) {
	var req CreatePaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "Amount is required")
		return
	}
	var method string
	if withMethod {
		method = req.PaymentMethod
		if method == "" {
			method = models.DefaultPaymentMethod
		}
	}
	po, err := h.Payments.CreatePaymentOrder(c.Request.Context(), *req.Amount, req.Currency, method)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, po)
}

// VerifyPayment marks the referenced order paid and confirmed.
func (h *Handler) VerifyPayment(c *gin.Context) {
	var req VerifyPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err.Error())
		return
	}
	err := h.Payments.VerifyPayment(c.Request.Context(), middleware.GetSession(c), req.PaymentID, req.OrderID, req.Signature)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Payment verified successfully"})
}
