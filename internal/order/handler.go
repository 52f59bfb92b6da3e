package order

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"ordergate/internal/logger"
	"ordergate/pkg/errors"
	"ordergate/pkg/metrics"
)

type Handler struct {
	service Service
	logger  logger.Logger
}

func NewHandler(service Service, log logger.Logger) *Handler {
	return &Handler{
		service: service,
		logger:  log,
	}
}

func (h *Handler) RegisterRoutes(router *gin.Engine) {
	g := router.Group("/order-service")
	{
		g.GET("/health_check", h.HealthCheck)
		g.POST("/:userId/orders", h.CreateOrder)
		g.GET("/:userId/orders", h.GetOrders)
	}
}

func (h *Handler) HandleError(c *gin.Context, err error) {
	h.logger.ErrorwCtx(c.Request.Context(), "Request error", "error", err, "path", c.Request.URL.Path)

	status := errors.ToHTTPStatus(err)
	c.JSON(status, errors.ToErrorResponse(err))
}

func (h *Handler) HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "It's working in Order Service on %s", c.Request.Host)
}

func (h *Handler) CreateOrder(c *gin.Context) {
	start := time.Now()
	userID := c.Param("userId")

	var req CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errors.ToErrorResponse(errors.ErrValidation.WithCause(err)))
		return
	}

	result, err := h.service.CreateOrder(c.Request.Context(), userID, req)
	observeRequest("create", start, err)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toResponse(result.Order, result.EventStatus))
}

func (h *Handler) GetOrders(c *gin.Context) {
	start := time.Now()
	userID := c.Param("userId")

	orders, err := h.service.GetOrdersByUserID(c.Request.Context(), userID)
	observeRequest("list", start, err)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	result := make([]OrderResponse, 0, len(orders))
	for i := range orders {
		result = append(result, toResponse(&orders[i], ""))
	}

	c.JSON(http.StatusOK, result)
}

func observeRequest(method string, start time.Time, err error) {
	status := "ok"
	if err != nil {
		status = strconv.Itoa(errors.ToHTTPStatus(err))
	}
	metrics.OrderRequestDuration.WithLabelValues(method, status).
		Observe(float64(time.Since(start).Milliseconds()))
}
