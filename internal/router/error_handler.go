package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/Immortalsoul21/StackForge/internal/config"
	apperrors "github.com/Immortalsoul21/StackForge/internal/errors"
)

// NewHTTPErrorHandler returns the single error translation stage. Every error
// escaping a handler funnels through here; no handler formats its own error
// body. Outside development mode, unexpected errors collapse to a generic
// message with no internals exposed.
func NewHTTPErrorHandler(cfg *config.Config) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status := http.StatusInternalServerError
		message := "Server Error"

		switch e := err.(type) {
		case *echo.HTTPError:
			status = e.Code
			if msg, ok := e.Message.(string); ok {
				message = msg
			}
		default:
			apiErr := apperrors.Translate(err)
			status = apiErr.StatusCode
			message = apiErr.Message
			if status == http.StatusInternalServerError {
				c.Logger().Error(err)
				if cfg.IsDevelopment() {
					message = err.Error()
				}
			}
		}

		if err := c.JSON(status, apperrors.ErrorResponse{
			Success: false,
			Message: message,
		}); err != nil {
			c.Logger().Error(err)
		}
	}
}
