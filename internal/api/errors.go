package api

import (
	"github.com/gin-gonic/gin"

	"github.com/hrcadm/sleeptracker/internal"
	"github.com/hrcadm/sleeptracker/internal/response"
)

// ErrorTranslator is the last-resort handler: any error attached to the
// context that no handler rendered is translated into the envelope's error
// shape. Clients never see a raw error page.
func ErrorTranslator(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}
		appErr := TranslateError(c.Errors.Last().Err)
		HandleError(c, app.Logger(), appErr)
	}
}

// Recovery converts panics into an Internal envelope instead of a bare 500.
func Recovery(app App) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, err any) {
		app.Logger().Errorf("panic recovered: %v", err)
		appErr := internal.Internal("")
		c.AbortWithStatusJSON(appErr.Status(), response.FromAppError(appErr))
	})
}
