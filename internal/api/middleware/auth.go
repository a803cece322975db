package middleware

import (
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/organizae/users-service/internal/core/domain"
	"github.com/organizae/users-service/internal/core/ports"
)

// PrincipalKey is the echo context key holding the authenticated
// *domain.Principal.
const PrincipalKey = "principal"

// Auth validates the bearer token and injects the resulting principal into
// the request context. Missing or invalid tokens end the request with 401.
func Auth(verifier ports.TokenVerifier) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get(echo.HeaderAuthorization)
			if authHeader == "" {
				return domain.ErrUnauthenticated
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") || strings.TrimSpace(parts[1]) == "" {
				return domain.ErrUnauthenticated
			}

			principal, err := verifier.Verify(strings.TrimSpace(parts[1]))
			if err != nil {
				return domain.ErrUnauthenticated
			}

			c.Set(PrincipalKey, principal)
			return next(c)
		}
	}
}

// Principal returns the principal stored by Auth, or nil.
func Principal(c echo.Context) *domain.Principal {
	p, _ := c.Get(PrincipalKey).(*domain.Principal)
	return p
}
