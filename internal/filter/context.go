package filter

import (
	"context"
	"net"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"ordergate/pkg/logging"
)

// RequestContext identifies one in-flight request. It is created once at
// chain entry and owned by that request's flow; filters read it, nothing
// mutates it concurrently.
type RequestContext struct {
	ID     string
	Method string
	Path   string
	Origin string
	Header http.Header
}

type requestContextKey struct{}

// EnterChain builds the RequestContext for a request, assigning a request
// identifier if the caller did not send one, and returns the request with
// the context attached.
func EnterChain(r *http.Request) (*http.Request, *RequestContext) {
	requestID := r.Header.Get("X-Request-ID")
	if requestID == "" {
		requestID = uuid.New().String()
	}

	rc := &RequestContext{
		ID:     requestID,
		Method: r.Method,
		Path:   r.URL.Path,
		Origin: clientOrigin(r),
		Header: r.Header,
	}

	ctx := context.WithValue(r.Context(), requestContextKey{}, rc)
	ctx = logging.WithRequestID(ctx, requestID)
	return r.WithContext(ctx), rc
}

func RequestContextFrom(ctx context.Context) *RequestContext {
	if rc, ok := ctx.Value(requestContextKey{}).(*RequestContext); ok {
		return rc
	}
	return nil
}

func clientOrigin(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		if ip := strings.TrimSpace(parts[0]); ip != "" {
			return ip
		}
	}

	host, _, err := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}
