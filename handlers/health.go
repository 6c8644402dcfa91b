package handlers

import (
	"net/http"

	"timetable/utils"

	"github.com/gin-gonic/gin"
)

// HealthHandler reports the latest health snapshot.
func HealthHandler(c *gin.Context) {
	status := utils.GetHealthStatus()
	code := http.StatusOK
	if !status.Store {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, status)
}
