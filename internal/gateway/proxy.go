package gateway

import (
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"
	"strconv"
	"strings"

	"ordergate/internal/config"
	"ordergate/internal/filter"
	"ordergate/internal/logger"
	"ordergate/pkg/metrics"
)

// BuildHandler assembles the gateway's routing table: for every configured
// route, a reverse proxy to the upstream wrapped by that route's filter
// chain. Assembly happens once at startup; a bad route fails the process
// instead of serving a half-built chain.
func BuildHandler(cfg config.GatewayConfig, registry *filter.Registry, log logger.Logger) (http.Handler, error) {
	mux := http.NewServeMux()

	for _, route := range cfg.Routes {
		handler, err := buildRoute(route, registry, log)
		if err != nil {
			return nil, fmt.Errorf("route %q: %w", route.Name, err)
		}

		prefix := strings.TrimSuffix(route.PathPrefix, "/")
		mux.Handle(prefix+"/", handler)
		if prefix != "" {
			mux.Handle(prefix, handler)
		}
	}

	return mux, nil
}

func buildRoute(route config.RouteConfig, registry *filter.Registry, log logger.Logger) (http.Handler, error) {
	chain, err := registry.Build(route.Filters)
	if err != nil {
		return nil, err
	}

	target, err := url.Parse(route.Upstream)
	if err != nil {
		return nil, fmt.Errorf("invalid upstream %q: %w", route.Upstream, err)
	}

	proxy := httputil.NewSingleHostReverseProxy(target)
	proxy.ErrorHandler = func(w http.ResponseWriter, r *http.Request, err error) {
		log.ErrorwCtx(r.Context(), "Upstream proxy error",
			"route", route.Name,
			"upstream", route.Upstream,
			"error", err,
		)
		http.Error(w, "bad gateway", http.StatusBadGateway)
	}

	composed := chain.Then(proxy)
	routeName := route.Name

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r, rc := filter.EnterChain(r)
		w.Header().Set("X-Request-ID", rc.ID)

		rec := &statusWriter{ResponseWriter: w, status: http.StatusOK}
		composed.ServeHTTP(rec, r)

		metrics.GatewayRequestsTotal.WithLabelValues(routeName, strconv.Itoa(rec.status)).Inc()
	}), nil
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Recovery keeps a panicking chain from taking the listener down. It sits
// outside every chain so filter failures still propagate unaltered to it.
func Recovery(log logger.Logger) filter.Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if recovered := recover(); recovered != nil {
					log.ErrorwCtx(r.Context(), "Panic recovered",
						"error", recovered,
						"path", r.URL.Path,
						"method", r.Method,
					)
					http.Error(w, "internal server error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
