package routes

import (
	"net/http"

	"tiffin-api/apperrors"
	"tiffin-api/auth"
	"tiffin-api/handlers"
	"tiffin-api/metrics"
	"tiffin-api/middleware"
	"tiffin-api/models"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// New builds the engine with the middleware chain and every route.
func New(h *handlers.Handler, tokens *auth.TokenService, m *metrics.Metrics, log *zap.Logger) *gin.Engine {
	r := gin.New()
	r.Use(
		gin.CustomRecovery(recovered),
		middleware.RequestID(log),
		middleware.AccessLog(),
		m.Middleware(),
		middleware.CORS(),
	)

	r.GET("/health", h.Health)
	r.GET("/metrics", gin.WrapH(m.Handler()))

	SetupRoutes(r, h, tokens)
	return r
}

// recovered answers a panicking request with the standard 500 envelope.
func recovered(c *gin.Context, rec any) {
	middleware.Logger(c).Error("panic recovered",
		zap.Any("panic", rec),
		zap.String("path", c.Request.URL.Path))
	c.AbortWithStatusJSON(http.StatusInternalServerError, apperrors.MapErrorToHTTP(nil).ToErrorResponse())
}

func SetupRoutes(r *gin.Engine, h *handlers.Handler, tokens *auth.TokenService) {
	// ── Public routes ──────────────────────────────────────────────
	public := r.Group("/api")
	{
		// Auth
		public.POST("/auth/send-otp", h.SendOTP)
		public.POST("/auth/verify-otp", h.VerifyOTP)
		public.POST("/auth/login", h.Login)
		public.POST("/auth/signup", h.Signup)
		public.POST("/delivery/auth/login", h.DeliveryLogin)

		// Menu
		public.GET("/menu/dishes", h.ListDishes)
		public.GET("/menu/dishes/:id", h.GetDish)

		// State machine info
		public.GET("/state-machine", h.GetStateMachineInfo)
	}

	// ── Authenticated routes (any role) ────────────────────────────
	authed := r.Group("/api")
	authed.Use(middleware.AuthRequired(tokens))
	{
		authed.GET("/profile", h.GetProfile)

		authed.GET("/orders", h.ListOrders)
		authed.POST("/orders", h.PlaceOrder)
		authed.GET("/orders/:id", h.GetOrderDetail)
		authed.PUT("/orders/:id/status", h.UpdateOrderStatus)

		authed.POST("/payments", h.CreatePayment)
		authed.POST("/payments/create-order", h.CreatePaymentOrder)
		authed.POST("/payments/verify", h.VerifyPayment)

		authed.GET("/notifications", h.ListNotifications)
	}

	// ── Delivery partner routes ────────────────────────────────────
	delivery := r.Group("/api/delivery")
	delivery.Use(middleware.AuthRequired(tokens), middleware.RoleRequired(models.RoleDeliveryPartner))
	{
		delivery.GET("/orders", h.DeliveryOrders)
		delivery.GET("/orders/:id", h.DeliveryOrderDetail)
		delivery.PUT("/orders/:id/accept", h.DeliveryAcceptOrder)
		delivery.GET("/stats", h.DeliveryStats)
		delivery.GET("/profile", h.DeliveryProfile)
		delivery.PUT("/status", h.DeliverySetStatus)
		delivery.PUT("/location", h.DeliveryUpdateLocation)
	}

	// ── Admin routes ───────────────────────────────────────────────
	admin := r.Group("/api/admin")
	admin.Use(middleware.AuthRequired(tokens), middleware.RoleRequired(models.RoleAdmin))
	{
		admin.GET("/stats", h.AdminStats)
		admin.GET("/users", h.AdminListUsers)
		admin.PUT("/users/:id/toggle-status", h.AdminToggleUserStatus)
	}
}
