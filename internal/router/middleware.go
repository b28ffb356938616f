package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"coursecatalog/internal/auth"
	"coursecatalog/internal/errors"
	"coursecatalog/internal/handler"
	"coursecatalog/internal/repository"
)

// ActiveUser resolves the validated token claims to a live user row and
// stores it in the request context. Requests with a blacklisted token, an
// unknown subject or a deactivated account are rejected; the echo-jwt layer
// has already rejected missing, tampered and expired tokens.
func ActiveUser(userRepo repository.UserRepository, tokenStore auth.TokenStoreInterface) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			claims, ok := c.Get("user").(*auth.Claims)
			if !ok || claims.Username == "" {
				return unauthenticated()
			}

			ctx := c.Request().Context()

			if claims.ID != "" {
				if blacklisted, _ := tokenStore.IsAccessTokenBlacklisted(ctx, claims.ID); blacklisted {
					return unauthenticated()
				}
			}

			user, err := userRepo.FindByUsername(ctx, claims.Username)
			if err != nil {
				return unauthenticated()
			}
			if !user.IsActive {
				return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
					Error: errors.ErrUserInactive.Error(),
					Code:  "UNAUTHENTICATED",
				})
			}

			c.Set(handler.CurrentUserKey, user)
			return next(c)
		}
	}
}

func unauthenticated() *echo.HTTPError {
	return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
		Error: errors.ErrUnauthenticated.Error(),
		Code:  "UNAUTHENTICATED",
	})
}
