package gateway

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"ordergate/internal/config"
	"ordergate/internal/filter"
	"ordergate/internal/logger"
)

type headerFactory struct{}

func (f *headerFactory) Name() string { return "header" }

func (f *headerFactory) Apply(cfg filter.Config) (filter.Middleware, error) {
	value := cfg.GetString("value")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			r.Header.Set("X-Filtered-By", value)
			next.ServeHTTP(w, r)
		})
	}, nil
}

type denyFactory struct{}

func (f *denyFactory) Name() string { return "deny" }

func (f *denyFactory) Apply(cfg filter.Config) (filter.Middleware, error) {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		})
	}, nil
}

func testRegistry(t *testing.T) *filter.Registry {
	t.Helper()
	registry := filter.NewRegistry()
	registry.MustRegister(&headerFactory{})
	registry.MustRegister(&denyFactory{})
	return registry
}

func TestBuildHandler_ProxiesThroughChain(t *testing.T) {
	var seenHeader, seenPath string
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenHeader = r.Header.Get("X-Filtered-By")
		seenPath = r.URL.Path
		w.WriteHeader(http.StatusCreated)
	}))
	defer upstream.Close()

	cfg := config.GatewayConfig{
		Routes: []config.RouteConfig{
			{
				Name:       "orders",
				PathPrefix: "/order-service",
				Upstream:   upstream.URL,
				Filters: []config.FilterSpec{
					{Name: "header", Config: map[string]interface{}{"value": "chain"}},
				},
			},
		},
	}

	handler, err := BuildHandler(cfg, testRegistry(t), logger.NopLogger())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/order-service/u1/orders", nil))

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "chain", seenHeader)
	assert.Equal(t, "/order-service/u1/orders", seenPath)
	assert.NotEmpty(t, rec.Header().Get("X-Request-ID"))
}

func TestBuildHandler_FilterShortCircuitSkipsUpstream(t *testing.T) {
	upstreamCalled := false
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		upstreamCalled = true
	}))
	defer upstream.Close()

	cfg := config.GatewayConfig{
		Routes: []config.RouteConfig{
			{
				Name:       "orders",
				PathPrefix: "/order-service",
				Upstream:   upstream.URL,
				Filters:    []config.FilterSpec{{Name: "deny"}},
			},
		},
	}

	handler, err := BuildHandler(cfg, testRegistry(t), logger.NopLogger())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/order-service/u1/orders", nil))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.False(t, upstreamCalled)
}

func TestBuildHandler_UnknownFilterFailsAssembly(t *testing.T) {
	cfg := config.GatewayConfig{
		Routes: []config.RouteConfig{
			{
				Name:       "orders",
				PathPrefix: "/order-service",
				Upstream:   "http://localhost:8081",
				Filters:    []config.FilterSpec{{Name: "missing"}},
			},
		},
	}

	_, err := BuildHandler(cfg, testRegistry(t), logger.NopLogger())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown filter")
}

func TestBuildHandler_UnreachableUpstream(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	upstream.Close() // nothing listens here anymore

	cfg := config.GatewayConfig{
		Routes: []config.RouteConfig{
			{
				Name:       "orders",
				PathPrefix: "/order-service",
				Upstream:   upstream.URL,
			},
		},
	}

	handler, err := BuildHandler(cfg, testRegistry(t), logger.NopLogger())
	require.NoError(t, err)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/order-service/u1/orders", nil))

	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestRecovery(t *testing.T) {
	handler := Recovery(logger.NopLogger())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("filter blew up")
	}))

	rec := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}
