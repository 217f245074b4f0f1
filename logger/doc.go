// Package logger provides structured logging for resultkit services using
// zerolog.
//
// It supports JSON and console output, level configuration, component-scoped
// loggers and map-based structured fields.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.WithComponent("users")
//	log.Info("user created", logger.Fields("id", id))
package logger
