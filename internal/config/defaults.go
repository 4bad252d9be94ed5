package config

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:        "https://app.ticketmaster.com/discovery/v2",
			APIKey:         "",
			PageSize:       20,
			TimeoutSeconds: 15,
			RetryAttempts:  2,
			StaleSeconds:   300,
		},
		Storage: StorageConfig{
			Backend:    "sqlite",
			Path:       "~/.config/eventspot",
			SQLiteFile: "eventspot.db",
			RedisURL:   "",
			KeyPrefix:  "eventspot",
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
		},
		Defaults: DefaultsConfig{
			Region: "US",
			Sort:   "date,asc",
		},
	}
}
