package filter

import (
	"encoding/json"
	"net/http"
	"net/netip"
	"strings"

	"ordergate/internal/auth"
	"ordergate/internal/config"
	"ordergate/internal/logger"
	"ordergate/pkg/errors"
	"ordergate/pkg/metrics"
)

const bearerPrefix = "bearer"

var defaultExemptPrefixes = []string{"/health_check", "/actuator/", "/metrics"}

// AuthFilter runs two gates in order: the origin gate (allow-listed network
// origins skip authentication) and the identity gate (bearer credential
// verified, principal attached to the request context). Exempt path
// prefixes bypass both gates and are checked first.
type AuthFilter struct {
	verifier auth.Verifier
	logger   logger.Logger
	defaults config.AuthConfig
}

func NewAuthFilter(verifier auth.Verifier, log logger.Logger, defaults config.AuthConfig) *AuthFilter {
	return &AuthFilter{
		verifier: verifier,
		logger:   log,
		defaults: defaults,
	}
}

func (f *AuthFilter) Name() string {
	return "auth"
}

func (f *AuthFilter) Apply(cfg Config) (Middleware, error) {
	exempt := cfg.GetStringSlice("exempt_prefixes")
	if exempt == nil {
		exempt = f.defaults.ExemptPrefixes
	}
	if exempt == nil {
		exempt = defaultExemptPrefixes
	}

	origins := cfg.GetStringSlice("allowed_origins")
	if origins == nil {
		origins = f.defaults.AllowedOrigins
	}
	allowed, err := parseOrigins(origins)
	if err != nil {
		return nil, err
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rc := RequestContextFrom(r.Context())
			path := r.URL.Path
			if rc != nil {
				path = rc.Path
			}

			if isExempt(path, exempt) {
				next.ServeHTTP(w, r)
				return
			}

			if rc != nil && originAllowed(rc.Origin, allowed) {
				next.ServeHTTP(w, r)
				return
			}

			token, ok := bearerToken(r)
			if !ok {
				f.reject(w, r, "missing_credential")
				return
			}

			principal, err := f.verifier.Verify(token)
			if err != nil {
				f.logger.WarnwCtx(r.Context(), "Credential verification failed", "error", err)
				f.reject(w, r, "invalid_credential")
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithPrincipal(r.Context(), principal)))
		})
	}, nil
}

func (f *AuthFilter) reject(w http.ResponseWriter, r *http.Request, reason string) {
	metrics.FilterRejectionsTotal.WithLabelValues(f.Name(), reason).Inc()
	f.logger.WarnwCtx(r.Context(), "Request rejected by authentication filter",
		"reason", reason,
		"path", r.URL.Path,
	)

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_ = json.NewEncoder(w).Encode(errors.ToErrorResponse(errors.ErrUnauthorized))
}

func isExempt(path string, prefixes []string) bool {
	for _, prefix := range prefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

// parseOrigins accepts CIDR prefixes and bare addresses; a bare address
// becomes a host-length prefix.
func parseOrigins(origins []string) ([]netip.Prefix, error) {
	prefixes := make([]netip.Prefix, 0, len(origins))
	for _, origin := range origins {
		if strings.Contains(origin, "/") {
			p, err := netip.ParsePrefix(origin)
			if err != nil {
				return nil, err
			}
			prefixes = append(prefixes, p)
			continue
		}

		addr, err := netip.ParseAddr(origin)
		if err != nil {
			return nil, err
		}
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}

// originAllowed treats a malformed origin as a gate failure, never a crash.
func originAllowed(origin string, allowed []netip.Prefix) bool {
	addr, err := netip.ParseAddr(origin)
	if err != nil {
		return false
	}
	for _, prefix := range allowed {
		if prefix.Contains(addr) {
			return true
		}
	}
	return false
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}

	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], bearerPrefix) {
		return "", false
	}
	return parts[1], true
}
