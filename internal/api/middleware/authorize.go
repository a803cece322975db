package middleware

import (
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/organizae/users-service/internal/core/domain"
	"github.com/organizae/users-service/internal/pkg/metrics"
)

// Authorize runs the authorization guard for policy. The resource id is the
// raw :id path parameter; routes without one pass an empty id.
func Authorize(policy domain.Policy, log zerolog.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal := Principal(c)
			decision := domain.Authorize(policy, principal, c.Param("id"))
			metrics.AuthzDecisionsTotal.WithLabelValues(string(decision.Reason)).Inc()

			if !decision.Allowed {
				ev := log.Warn().
					Str("method", c.Request().Method).
					Str("route", c.Path()).
					Str("reason", string(decision.Reason))
				if principal != nil {
					ev = ev.Int64("user_id", principal.UserID).Str("role", principal.Role)
				}
				ev.Msg("access denied")
				return decision.Err()
			}

			log.Debug().
				Str("route", c.Path()).
				Str("reason", string(decision.Reason)).
				Msg("access granted")
			return next(c)
		}
	}
}
