package auth

import (
	"github.com/labstack/echo/v4"

	apperrors "github.com/Immortalsoul21/StackForge/internal/errors"
	"github.com/Immortalsoul21/StackForge/internal/model"
)

// ContextUserKey is the echo context key under which the access middleware
// stores the resolved user.
const ContextUserKey = "currentUser"

// CurrentUser returns the user attached to the request by the access middleware.
func CurrentUser(c echo.Context) (*model.User, error) {
	user, ok := c.Get(ContextUserKey).(*model.User)
	if !ok || user == nil {
		return nil, apperrors.ErrNotAuthorized
	}
	return user, nil
}
