package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/organizae/users-service/internal/api/middleware"
	"github.com/organizae/users-service/internal/core/domain"
)

// principalFrom returns the principal injected by the Auth middleware. A
// missing principal means the route was wired without Auth and is reported
// as unauthenticated.
func principalFrom(c echo.Context) (*domain.Principal, error) {
	p := middleware.Principal(c)
	if p == nil {
		return nil, domain.ErrUnauthenticated
	}
	return p, nil
}
