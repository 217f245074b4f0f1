package events

import (
	"context"

	"github.com/kbukum/resultkit/logger"
)

// LogPublisher writes every event as a structured log line.
type LogPublisher struct {
	log *logger.Logger
}

// NewLogPublisher creates a publisher logging through log, or the global
// logger when log is nil.
func NewLogPublisher(log *logger.Logger) *LogPublisher {
	if log == nil {
		log = logger.GetGlobalLogger()
	}
	return &LogPublisher{log: log.WithComponent("events")}
}

// Publish logs e at info for successes and warn for failures.
func (p *LogPublisher) Publish(ctx context.Context, e Event) error {
	fields := logger.Fields(
		"event_id", e.ID,
		logger.FieldEvent, e.Name,
		logger.FieldOperation, e.Operation,
		logger.FieldSuccess, e.Success,
		logger.FieldMessage, e.Message,
	)
	log := p.log.WithContext(ctx)
	if e.Success {
		log.Info("Event published", fields)
		return nil
	}
	fields[logger.FieldErrorKind] = e.ErrorKind
	log.Warn("Event published", fields)
	return nil
}
