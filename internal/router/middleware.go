package router

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/Immortalsoul21/StackForge/internal/auth"
	apperrors "github.com/Immortalsoul21/StackForge/internal/errors"
	"github.com/Immortalsoul21/StackForge/internal/service"
)

// AccessMiddleware runs behind the JWT signature check. It rejects revoked
// tokens, resolves the token's identity against the user store and attaches
// the resolved user to the request context. It keeps no per-request state
// beyond the context entry.
type AccessMiddleware struct {
	authService service.AuthService
	tokenStore  auth.TokenStoreInterface
}

// NewAccessMiddleware creates a new access middleware.
func NewAccessMiddleware(authService service.AuthService, tokenStore auth.TokenStoreInterface) *AccessMiddleware {
	return &AccessMiddleware{
		authService: authService,
		tokenStore:  tokenStore,
	}
}

// ResolveUser attaches the user referenced by the verified token claims.
func (m *AccessMiddleware) ResolveUser(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		token, ok := c.Get("user").(*jwt.Token)
		if !ok {
			return apperrors.ErrNotAuthorized
		}
		claims, ok := token.Claims.(*auth.Claims)
		if !ok {
			return apperrors.ErrNotAuthorized
		}

		ctx := c.Request().Context()

		if claims.ID != "" {
			revoked, _ := m.tokenStore.IsTokenBlacklisted(ctx, claims.ID)
			if revoked {
				return apperrors.ErrNotAuthorized
			}
		}

		user, err := m.authService.GetCurrentUser(ctx, claims.UserID)
		if err != nil {
			return err
		}

		c.Set(auth.ContextUserKey, user)
		return next(c)
	}
}
