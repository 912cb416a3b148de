package config

import "time"

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		BaseDir: DefaultBaseDir(),

		Remote: RemoteConfig{
			// API URL/key come from env vars in Load()
			PhotoBucket: "work-order-photos",
			RateLimit:   120,
		},

		Sync: SyncConfig{
			Interval:     30 * time.Second,
			RetryCeiling: 5,
		},
	}
}
