package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/oficiosya/hires-api/internal/core/domain"
)

// ctxActor builds the acting identity from the claims injected by the Auth
// middleware. A missing user_id means the middleware did not run or the
// token carried no identity; either way the request is rejected with 401.
// The professional record id is resolved later by the service layer.
func ctxActor(c echo.Context) (domain.Actor, error) {
	userID, _ := c.Get("user_id").(string)
	role, _ := c.Get("role").(string)
	if userID == "" || role == "" {
		return domain.Actor{}, echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}

	return domain.Actor{
		UserID:         userID,
		IsProfessional: role == domain.RoleProfessional,
	}, nil
}
