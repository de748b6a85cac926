package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"tiffin-api/apperrors"
	"tiffin-api/auth"
	"tiffin-api/middleware"
	"tiffin-api/services"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler holds the services behind every HTTP endpoint.
type Handler struct {
	Auth          *auth.Service
	Catalog       *services.CatalogService
	Orders        *services.OrderService
	Delivery      *services.DeliveryService
	Payments      *services.PaymentService
	Admin         *services.AdminService
	Notifications *services.NotificationService

	Env       string
	StartedAt time.Time
}

// respondError writes the JSON error envelope for err. Internal faults are
// logged with the request id and answered with a generic message.
func respondError(c *gin.Context, err error) {
	httpErr := apperrors.MapErrorToHTTP(err)
	if httpErr.StatusCode >= http.StatusInternalServerError {
		middleware.Logger(c).Error("request failed",
			zap.String("path", c.FullPath()),
			zap.Error(err))
	}
	c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
}

func badRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, apperrors.NewHTTPError(http.StatusBadRequest, message, "INVALID_INPUT").ToErrorResponse())
}

var errBadID = errors.New("invalid id")

func paramID(c *gin.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		return 0, errBadID
	}
	return uint(id), nil
}

// list keeps empty collections as [] rather than null.
func list[T any](items []T) []T {
	if items == nil {
		return []T{}
	}
	return items
}
