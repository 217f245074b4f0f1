// Package config loads service configuration with Viper.
//
// Sources, in increasing precedence: registered defaults, a YAML config
// file, a .env file (godotenv) and the process environment. Environment
// variables are matched against known keys, so RESULTKIT_MESSAGES_ERROR_FORMAT
// sets messages.error_format when loaded with WithEnvPrefix("RESULTKIT").
//
// # Usage
//
//	var cfg AppConfig
//	err := config.LoadConfig("resultd", &cfg,
//	    config.WithEnvPrefix("RESULTKIT"),
//	    config.WithDefaults(map[string]any{"server.port": 8080}),
//	)
package config
