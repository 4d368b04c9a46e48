// Package logging provides structured logging for dptctl.
//
// It wraps log/slog and adds the service and version fields to every entry.
//
// Configuration:
//
//	logging:
//	  level: "info"      # debug, info, warn, error
//	  format: "json"     # json, text
//	  output: "stderr"   # stdout, stderr
//
// Usage:
//
//	logger := logging.New(cfg.Logging, version)
//	logger.Info("monitor started", "topic", topic)
package logging
