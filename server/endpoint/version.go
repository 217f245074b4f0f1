package endpoint

import (
	"github.com/gin-gonic/gin"

	"github.com/kbukum/resultkit/response"
	"github.com/kbukum/resultkit/result"
	"github.com/kbukum/resultkit/version"
)

// Version returns a handler that reports the running build in the
// response envelope.
func Version() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(response.Map(result.Success(version.Get())))
	}
}
