// Package endpoint provides built-in HTTP endpoints.
package endpoint

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/resultkit/component"
	"github.com/kbukum/resultkit/response"
	"github.com/kbukum/resultkit/result"
)

// HealthChecker aggregates component health into a result.
// component.Registry.Check satisfies it.
type HealthChecker func(ctx context.Context) result.Result[[]component.Health]

// Report is the payload of a healthy response.
type Report struct {
	Service    string             `json:"service"`
	Timestamp  string             `json:"timestamp"`
	Components []component.Health `json:"components"`
}

// Health returns a handler that reports service health. A failed check is
// answered with 503 and the failure message.
func Health(serviceName string, checker HealthChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		checks := result.Success([]component.Health{})
		if checker != nil {
			checks = checker(c.Request.Context())
		}
		report := result.Map(checks, func(hs []component.Health) Report {
			return Report{
				Service:    serviceName,
				Timestamp:  time.Now().UTC().Format(time.RFC3339),
				Components: hs,
			}
		})

		status, body := response.Map(report)
		if report.IsFailure() {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, body)
	}
}
