package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// UUIDParamMiddleware parses the named path params as UUIDs and stores each
// parsed value in the context under the param name.
func UUIDParamMiddleware(params ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		for _, param := range params {
			parsed, err := uuid.Parse(c.Param(param))
			if err != nil {
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid " + param})
				return
			}
			c.Set(param, parsed)
		}
		c.Next()
	}
}

// UUIDParam reads a value stored by UUIDParamMiddleware.
func UUIDParam(c *gin.Context, param string) uuid.UUID {
	id, _ := c.MustGet(param).(uuid.UUID)
	return id
}
