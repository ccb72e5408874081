package server

// Config holds configuration for the HTTP server.
type Config struct {
	// Port is the port where the server will listen.
	Port string `mapstructure:"port" default:"8080"`
	// ApiKey is the shared secret the POS partner must send on sync pushes.
	ApiKey string `mapstructure:"api_key" default:""`
	// Partner is the POS partner tag stamped on every reconciled row.
	Partner string `mapstructure:"partner" default:"petpooja"`
}
