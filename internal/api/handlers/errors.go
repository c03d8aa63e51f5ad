package handlers

import (
	"github.com/gin-gonic/gin"

	"pvs-dispatch/internal/api/models"
)

func abortWithError(c *gin.Context, status int, code, msg string) {
	c.AbortWithStatusJSON(status, models.ErrorResponse{
		Error: models.ErrorDetail{
			Code:    code,
			Message: msg,
		},
	})
}
