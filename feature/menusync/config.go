package menusync

// Config holds configuration for the menu reconciliation engine.
type Config struct {
	// SearchRefreshURL is where affected menu item ids are posted after a
	// committed sync. Empty disables the refresh signal.
	SearchRefreshURL string `mapstructure:"search_refresh_url" default:""`
	// RefreshTimeoutSeconds bounds the post-commit refresh call. The
	// signal is fire-and-forget either way.
	RefreshTimeoutSeconds int `mapstructure:"refresh_timeout_seconds" default:"5"`
}
