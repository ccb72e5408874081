// Package database manages the relational database connection.
//
// It wraps GORM connection setup for the menu schema. MySQL is
// the production driver; an sqlite mode backs tests and local replays.
// Connection pooling, DSN timeouts and an initial ping are handled here so
// callers receive a verified *gorm.DB or an error.
package database
