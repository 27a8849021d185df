package handler

import (
	"net/http"
	"strconv"

	"admincore/pkg/response"

	"github.com/gin-gonic/gin"
)

// respond writes an envelope using its own code as the HTTP status. Delete
// envelopes carry code 204 but are written as 200 so the body survives.
func respond(c *gin.Context, env response.Envelope) {
	status := env.Code
	if status == http.StatusNoContent {
		status = http.StatusOK
	}
	c.JSON(status, env)
}

// parseID reads a positive integer path parameter.
func parseID(c *gin.Context, name string) (uint, bool) {
	id, err := strconv.ParseUint(c.Param(name), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusUnprocessableEntity,
			response.Error(http.StatusUnprocessableEntity, "invalid "+name+" parameter"))
		return 0, false
	}
	return uint(id), true
}
