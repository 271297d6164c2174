package middleware

import (
	"context"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/tourhub-io/tourhub-backend/api/responses"
	"github.com/tourhub-io/tourhub-backend/pkg/config"
	pkgerrors "github.com/tourhub-io/tourhub-backend/pkg/errors"
	"github.com/tourhub-io/tourhub-backend/pkg/logger"
)

type windowLimiter interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, int64, error)
}

// RateLimit throttles all API traffic per client IP with a fixed window.
func RateLimit(cfg config.RateLimitConfig, limiter windowLimiter, wr responses.Writer, logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if limiter == nil || cfg.APILimit <= 0 || cfg.APIWindow <= 0 {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			ip := clientIP(r)

			allowed, count, err := limiter.FixedWindowAllow(ctx, "api:"+ip, int64(cfg.APILimit), cfg.APIWindow)
			if err != nil {
				wr.WriteError(ctx, w, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "rate limiting"))
				return
			}
			if !allowed {
				if logg != nil {
					logCtx := logg.WithFields(ctx, map[string]any{
						"ip":             ip,
						"attempts":       count,
						"limit":          cfg.APILimit,
						"window_seconds": int(cfg.APIWindow.Seconds()),
					})
					logg.Warn(logCtx, "rate_limit.blocked")
				}
				wr.WriteError(ctx, w, pkgerrors.New(pkgerrors.CodeRateLimit, "too many requests from this IP, please try again in an hour"))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

func clientIP(r *http.Request) string {
	if r == nil {
		return ""
	}
	if header := r.Header.Get("X-Forwarded-For"); header != "" {
		for _, part := range strings.Split(header, ",") {
			if ip := strings.TrimSpace(part); ip != "" {
				return ip
			}
		}
	}
	if ip := strings.TrimSpace(r.Header.Get("X-Real-IP")); ip != "" {
		return ip
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err == nil && host != "" {
		return host
	}
	return r.RemoteAddr
}
