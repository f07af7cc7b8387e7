package rates

// Config holds the rate tier policy.
type Config struct {
	// CeilingFactor scales a profile rate into the shaped maximum.
	CeilingFactor float64 `mapstructure:"ceiling_factor" default:"1.15"`
	// FloorFactor scales a maximum into the guaranteed minimum.
	FloorFactor float64 `mapstructure:"floor_factor" default:"0.5"`
	// MinimumMbps is the lowest tier ever written for either direction.
	MinimumMbps int `mapstructure:"minimum_mbps" default:"2"`
	// FallbackDownload is used when a rate-limit string cannot be parsed.
	FallbackDownload float64 `mapstructure:"fallback_download" default:"3"`
	// FallbackUpload is used when a rate-limit string cannot be parsed.
	FallbackUpload float64 `mapstructure:"fallback_upload" default:"3"`
	// CacheSize bounds the memoised rate-limit parses.
	CacheSize int `mapstructure:"cache_size" default:"32"`
}

// DefaultConfig returns the policy used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		CeilingFactor:    1.15,
		FloorFactor:      0.5,
		MinimumMbps:      2,
		FallbackDownload: 3,
		FallbackUpload:   3,
		CacheSize:        32,
	}
}
