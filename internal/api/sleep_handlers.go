package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/hrcadm/sleeptracker/internal"
	"github.com/hrcadm/sleeptracker/internal/auth"
	"github.com/hrcadm/sleeptracker/internal/service"
)

func CreateSleep(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := auth.CurrentUser(c)

		var req service.CreateSleepRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleError(c, app.Logger(), internal.BadRequest("Invalid request body"))
			return
		}
		entry, appErr := service.CreateEntry(c.Request.Context(), app.Sleep(), user, &req)
		if appErr != nil {
			HandleError(c, app.Logger(), appErr)
			return
		}
		HandleSuccess(c, http.StatusCreated, "Sleep entry created successfully", entry)
	}
}

func ListSleep(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := auth.CurrentUser(c)
		entries, appErr := service.ListEntries(c.Request.Context(), app.Sleep(), user)
		if appErr != nil {
			HandleError(c, app.Logger(), appErr)
			return
		}
		HandleSuccess(c, http.StatusOK, "Sleep entries retrieved successfully", entries)
	}
}

func GetSleep(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := auth.CurrentUser(c)
		entry, appErr := service.GetEntry(c.Request.Context(), app.Sleep(), user, c.Param("id"))
		if appErr != nil {
			HandleError(c, app.Logger(), appErr)
			return
		}
		HandleSuccess(c, http.StatusOK, "Sleep entry retrieved successfully", entry)
	}
}

func UpdateSleep(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := auth.CurrentUser(c)

		var req service.UpdateSleepRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			HandleError(c, app.Logger(), internal.BadRequest("Invalid request body"))
			return
		}
		entry, appErr := service.UpdateEntry(c.Request.Context(), app.Sleep(), user, c.Param("id"), &req)
		if appErr != nil {
			HandleError(c, app.Logger(), appErr)
			return
		}
		HandleSuccess(c, http.StatusOK, "Sleep entry updated successfully", entry)
	}
}

func DeleteSleep(app App) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := auth.CurrentUser(c)
		if appErr := service.DeleteEntry(c.Request.Context(), app.Sleep(), user, c.Param("id")); appErr != nil {
			HandleError(c, app.Logger(), appErr)
			return
		}
		HandleSuccess(c, http.StatusOK, "Sleep entry deleted successfully", nil)
	}
}
