// Package config loads application configuration from the environment.
//
// Configuration is assembled from partial Config structs owned by each core
// package (server, database, storage, logger) plus the menu sync engine.
// Defaults are declared as struct tags and registered in Viper by
// reflection, so SERVER_PORT=9090 overrides server.port, and a local .env
// file is overlaid for development.
package config
