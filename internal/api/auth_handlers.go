package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hrcadm/sleeptracker/internal"
	"github.com/hrcadm/sleeptracker/internal/auth"
	"github.com/hrcadm/sleeptracker/internal/service"
)

func Register(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.RegisterRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleError(c, app.Logger(), internal.BadRequest("Invalid request body"))
			return
		}
		user, appErr := service.Register(c.Request.Context(), app.Users(), &req)
		if appErr != nil {
			HandleError(c, app.Logger(), appErr)
			return
		}
		sendTokenResponse(c, app, user, http.StatusCreated, "User registered successfully")
	}
}

func Login(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req service.LoginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleError(c, app.Logger(), internal.BadRequest("Please provide email and password"))
			return
		}
		user, appErr := service.Login(c.Request.Context(), app.Users(), &req)
		if appErr != nil {
			HandleError(c, app.Logger(), appErr)
			return
		}
		sendTokenResponse(c, app, user, http.StatusOK, "Login successful")
	}
}

func Me(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := auth.CurrentUser(c)
		profile := map[string]any{
			"id":        user.ID,
			"name":      user.Name,
			"email":     user.Email,
			"isActive":  user.IsActive,
			"createdAt": user.CreatedAt,
			"updatedAt": user.UpdatedAt,
		}
		HandleSuccess(c, http.StatusOK, "User profile retrieved successfully", profile)
	}
}

// Logout clears the session cookie. Tokens are stateless, so any copy the
// client kept stays valid until natural expiry.
func Logout(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.SetCookie(auth.CookieName, "none", 10, "/", "", app.Config().IsProduction(), true)
		HandleSuccess(c, http.StatusOK, "User logged out successfully", nil)
	}
}

// sendTokenResponse issues a token, sets it as an HTTP-only cookie and writes
// the envelope carrying the token and a minimal user projection.
func sendTokenResponse(c *gin.Context, app App, user *internal.User, status int, message string) {
	tok, err := app.Tokens().Issue(user.ID)
	if err != nil {
		app.Logger().Errorf("failed to issue token: %v", err)
		HandleError(c, app.Logger(), internal.Internal(""))
		return
	}

	maxAge := app.Config().CookieExpireDays * 24 * 60 * 60
	c.SetCookie(auth.CookieName, tok, maxAge, "/", "", app.Config().IsProduction(), true)

	HandleSuccess(c, status, message, map[string]any{
		"token": tok,
		"user":  user.Projection(),
	})
}
