package api

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/hrcadm/sleeptracker/internal"
	"github.com/hrcadm/sleeptracker/internal/response"
	"github.com/hrcadm/sleeptracker/internal/storage"
	"github.com/hrcadm/sleeptracker/internal/token"
)

// HandleError renders a tagged error as an envelope and logs it.
func HandleError(c *gin.Context, logger internal.Logger, appErr *internal.AppError) {
	logger.Warnf("[request_id=%s] %s %s -> %d: %s", c.GetString("request_id"), c.Request.Method, c.Request.URL.Path, appErr.Status(), appErr.Message)
	c.JSON(appErr.Status(), response.FromAppError(appErr))
}

// HandleSuccess renders data in the success envelope.
func HandleSuccess(c *gin.Context, status int, message string, data interface{}) {
	c.JSON(status, response.Success(status, message, data))
}

// TranslateError maps any failure to the closed error taxonomy. Expected
// failures arrive as *AppError already; the remaining arms cover storage and
// token errors that escape the handlers.
func TranslateError(err error) *internal.AppError {
	var appErr *internal.AppError
	switch {
	case errors.As(err, &appErr):
		return appErr
	case errors.Is(err, storage.ErrNotFound):
		return internal.NotFound("Resource not found")
	case errors.Is(err, storage.ErrDuplicate):
		return internal.BadRequest("email already exists")
	case errors.Is(err, token.ErrExpired):
		return internal.Unauthorized("Token expired")
	case errors.Is(err, token.ErrInvalid):
		return internal.Unauthorized("Invalid token")
	default:
		return internal.Internal("")
	}
}
