package api

import (
	"fmt"
	"net/http"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/hrcadm/sleeptracker/internal/auth"
	"github.com/hrcadm/sleeptracker/internal/response"
)

const version = "1.0.0"

// Router builds the gin engine with the full middleware chain and route
// table.
func Router(app App) *gin.Engine {
	if app.Config().IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(Recovery(app))
	r.Use(corsMiddleware(app.Config().FrontendURL))
	r.Use(RequestIDMiddleware())
	r.Use(RequestLogger(app))
	r.Use(ErrorTranslator(app))

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, response.NotFound(fmt.Sprintf("Route %s not found", c.Request.URL.Path)))
	})

	r.GET("/", Root(app))

	v1 := r.Group("/v1")
	v1.GET("/healthcheck", HealthCheck(app))

	authGate := auth.Middleware(app.Tokens(), app.Users(), app.Logger())

	authGroup := v1.Group("/auth")
	authGroup.POST("/register", Register(app))
	authGroup.POST("/login", Login(app))
	authGroup.GET("/me", authGate, Me(app))
	authGroup.POST("/logout", authGate, Logout(app))

	sleep := v1.Group("/sleep", authGate)
	sleep.GET("", ListSleep(app))
	sleep.POST("", CreateSleep(app))
	sleep.GET("/:id", GetSleep(app))
	sleep.PUT("/:id", UpdateSleep(app))
	sleep.DELETE("/:id", DeleteSleep(app))

	return r
}

// Root returns service metadata and an endpoint index.
func Root(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		data := map[string]any{
			"message": "Sleep Tracker API v1",
			"version": version,
			"status":  "active",
			"endpoints": map[string]any{
				"healthcheck": "/v1/healthcheck",
				"auth": map[string]string{
					"register": "POST /v1/auth/register",
					"login":    "POST /v1/auth/login",
					"logout":   "POST /v1/auth/logout",
					"profile":  "GET /v1/auth/me",
				},
				"sleep": map[string]string{
					"list":   "GET /v1/sleep",
					"create": "POST /v1/sleep",
					"get":    "GET /v1/sleep/:id",
					"update": "PUT /v1/sleep/:id",
					"delete": "DELETE /v1/sleep/:id",
				},
			},
		}
		HandleSuccess(c, http.StatusOK, "API is running", data)
	}
}

func corsMiddleware(origin string) gin.HandlerFunc {
	cfg := cors.DefaultConfig()
	cfg.AllowHeaders = append(cfg.AllowHeaders, "Authorization")
	if origin == "*" || origin == "" {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = []string{origin}
		cfg.AllowCredentials = true
	}
	return cors.New(cfg)
}
