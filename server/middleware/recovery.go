package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/resultkit/errors"
	"github.com/kbukum/resultkit/logger"
	"github.com/kbukum/resultkit/result"
)

// Recovery returns a Gin middleware that turns a panic into a Generic
// failure. The envelope message is the active provider's ErrorMessage for
// the panic value.
func Recovery(log *logger.Logger) gin.HandlerFunc {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return func(c *gin.Context) {
		defer func() {
			if rec := recover(); rec != nil {
				detail := fmt.Sprint(rec)
				log.WithContext(c.Request.Context()).Error("Panic recovered", logger.Fields(
					logger.FieldError, detail,
					"stack", string(debug.Stack()),
					"path", c.Request.URL.Path,
					"method", c.Request.Method,
				))
				msg := result.MessagesFrom(c.Request.Context()).ErrorMessage(detail)
				abortWith(c, errors.Generic(msg))
			}
		}()
		c.Next()
	}
}
