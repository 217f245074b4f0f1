package bootstrap

import (
	"context"
	"time"

	"github.com/kbukum/resultkit/component"
	"github.com/kbukum/resultkit/di"
	"github.com/kbukum/resultkit/logger"
)

// logSummary logs one line per component with its live health and a
// closing line with startup totals.
func logSummary(ctx context.Context, log *logger.Logger, name, version string, registry *component.Registry, container di.Container, took time.Duration) {
	healthy := 0
	healths := registry.HealthAll(ctx)
	for _, h := range healths {
		fields := logger.Fields(
			logger.FieldComponent, h.Name,
			"status", string(h.Status),
		)
		if h.Message != "" {
			fields[logger.FieldMessage] = h.Message
		}
		if h.Status == component.StatusHealthy {
			healthy++
			log.Info("Component ready", fields)
		} else {
			log.Warn("Component not healthy", fields)
		}
	}

	var keys []string
	if container != nil {
		for _, r := range container.Registrations() {
			keys = append(keys, r.Key+"("+r.Mode.String()+")")
		}
	}

	log.Info("Application started", logger.Fields(
		"name", name,
		"version", version,
		"startup", took.String(),
		"components", len(healths),
		"healthy", healthy,
		"registrations", keys,
	))
}
