package metrics

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"tiffin-api/events"
	"tiffin-api/models"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMiddlewareCountsRouteTemplates(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New("test")
	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/api/orders/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })
	r.GET("/metrics", gin.WrapH(m.Handler()))

	for _, p := range []string{"/api/orders/1", "/api/orders/2", "/nope"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, p, nil))
	}

	assert.Equal(t, 2.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "/api/orders/:id", "204")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.HTTPRequestsTotal.WithLabelValues("GET", "unmatched", "404")))

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "test_http_requests_total")
}

func TestPublishCountsEvents(t *testing.T) {
	m := New("test")
	ctx := context.Background()

	require.NoError(t, m.Publish(ctx, events.OrderCreated, events.OrderEvent{ToStatus: models.StatusPending, TotalAmount: decimal.RequireFromString("20.50")}))
	require.NoError(t, m.Publish(ctx, events.OrderStatusChanged, events.OrderEvent{ToStatus: models.StatusConfirmed}))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.OrderEventsTotal.WithLabelValues(events.OrderCreated, "PENDING")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OrderEventsTotal.WithLabelValues(events.OrderStatusChanged, "CONFIRMED")))
	assert.InDelta(t, 20.5, testutil.ToFloat64(m.OrderValueTotal), 1e-9)
}
