package filter

import (
	"net/http"

	"ordergate/internal/logger"
)

// LoggingFilter logs around the rest of the chain. Its config carries a
// free-form base message and two flags selecting pre and post logging.
type LoggingFilter struct {
	logger logger.Logger
}

func NewLoggingFilter(log logger.Logger) *LoggingFilter {
	return &LoggingFilter{logger: log}
}

func (f *LoggingFilter) Name() string {
	return "logging"
}

func (f *LoggingFilter) Apply(cfg Config) (Middleware, error) {
	baseMessage := cfg.GetString("base_message")
	preLogger := cfg.GetBool("pre_logger")
	postLogger := cfg.GetBool("post_logger")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rc := RequestContextFrom(r.Context())

			if baseMessage != "" {
				f.logger.InfowCtx(r.Context(), baseMessage)
			}
			if preLogger && rc != nil {
				f.logger.InfowCtx(r.Context(), "Filter chain start",
					"method", rc.Method,
					"path", rc.Path,
				)
			}

			rec := newStatusRecorder(w)
			next.ServeHTTP(rec, r)

			if postLogger {
				f.logger.InfowCtx(r.Context(), "Filter chain end",
					"status", rec.Status(),
				)
			}
		})
	}, nil
}
