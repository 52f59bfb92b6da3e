package order

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ordergate/internal/logger"
)

func newTestRouter(repo *fakeRepository, pub *fakePublisher) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()

	svc := NewService(repo, pub, logger.NopLogger())
	NewHandler(svc, logger.NopLogger()).RegisterRoutes(router)
	return router
}

func TestHandler_CreateOrder(t *testing.T) {
	repo := &fakeRepository{}
	pub := &fakePublisher{}
	router := newTestRouter(repo, pub)

	body := bytes.NewBufferString(`{"productId":"p1","qty":2,"unitPrice":50}`)
	req := httptest.NewRequest(http.MethodPost, "/order-service/u1/orders", body)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp OrderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp.OrderID)
	assert.Equal(t, "u1", resp.UserID)
	assert.Equal(t, "p1", resp.ProductID)
	assert.Equal(t, 2, resp.Qty)
	assert.Equal(t, 50.0, resp.UnitPrice)
	assert.Equal(t, 100.0, resp.TotalPrice)
	assert.Equal(t, "published", resp.EventStatus)

	// Exactly one event, correlated to the record by order identifier.
	events := pub.published()
	require.Len(t, events, 1)
	assert.Equal(t, resp.OrderID, events[0].OrderID)
}

func TestHandler_CreateOrder_InvalidBody(t *testing.T) {
	repo := &fakeRepository{}
	pub := &fakePublisher{}
	router := newTestRouter(repo, pub)

	req := httptest.NewRequest(http.MethodPost, "/order-service/u1/orders", bytes.NewBufferString(`{`))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, repo.count())
	assert.Empty(t, pub.published())
}

func TestHandler_CreateOrder_ValidationError(t *testing.T) {
	repo := &fakeRepository{}
	pub := &fakePublisher{}
	router := newTestRouter(repo, pub)

	body := bytes.NewBufferString(`{"productId":"p1","qty":0,"unitPrice":50}`)
	req := httptest.NewRequest(http.MethodPost, "/order-service/u1/orders", body)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "VALIDATION_ERROR")
	assert.Equal(t, 0, repo.count())
}

func TestHandler_CreateOrder_PublishPending(t *testing.T) {
	repo := &fakeRepository{}
	pub := &fakePublisher{err: assert.AnError}
	router := newTestRouter(repo, pub)

	body := bytes.NewBufferString(`{"productId":"p1","qty":1,"unitPrice":10}`)
	req := httptest.NewRequest(http.MethodPost, "/order-service/u1/orders", body)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp OrderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "pending", resp.EventStatus)
	assert.Equal(t, 1, repo.count())
}

func TestHandler_GetOrders(t *testing.T) {
	repo := &fakeRepository{}
	pub := &fakePublisher{}
	router := newTestRouter(repo, pub)

	for _, payload := range []string{
		`{"productId":"p1","qty":2,"unitPrice":50}`,
		`{"productId":"p2","qty":1,"unitPrice":9.99}`,
	} {
		req := httptest.NewRequest(http.MethodPost, "/order-service/u1/orders", bytes.NewBufferString(payload))
		req.Header.Set("Content-Type", "application/json")
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	req := httptest.NewRequest(http.MethodGet, "/order-service/u1/orders", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp []OrderResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp, 2)
}

func TestHandler_GetOrders_EmptyList(t *testing.T) {
	router := newTestRouter(&fakeRepository{}, &fakePublisher{})

	req := httptest.NewRequest(http.MethodGet, "/order-service/nobody/orders", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestHandler_HealthCheck(t *testing.T) {
	router := newTestRouter(&fakeRepository{}, &fakePublisher{})

	req := httptest.NewRequest(http.MethodGet, "/order-service/health_check", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Order Service")
}
