// Package logger provides a structured logging facility based on Zap.
//
// It offers a configured logger instance that supports different environments
// (development vs production) and integrates with the Fiber web framework.
//
// # Context Awareness
//
// The WithRayID helper extracts the RayID (request id) from a Fiber context
// and attaches it to the log entry, so all logs related to a specific request
// can be correlated. WithSync does the same for one menu sync pass: every
// processor log line carries the sync id and the POS restaurant id.
//
// # Configuration
//
// The package supports configuration for:
//   - Level: debug, info, warn, error
//   - Encoding: json (production) or console (development)
//
// # Usage
//
//	log, _ := logger.New(&logger.Config{Level: "info"})
//	log.Info("Server started")
//
//	// Inside a sync:
//	l := logger.WithSync(log, syncID, posRestaurantID)
//	l.Info("categories reconciled")
package logger
