// Package server holds the HTTP server configuration: listen port, the POS
// partner API key required on snapshot pushes, and the partner tag stamped
// on reconciled rows.
package server
