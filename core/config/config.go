package config

import (
	"reflect"
	"strings"
	"time"

	"shaper-sync/core/archive"
	"shaper-sync/core/database"
	"shaper-sync/core/logger"
	"shaper-sync/core/rates"
	"shaper-sync/core/reload"
	"shaper-sync/core/server"
	"shaper-sync/core/storage"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application.
// It is divided into partial configurations for better modularity.
type Config struct {
	// Server holds configuration for the HTTP status API.
	Server server.Config `mapstructure:"server"`
	// Log holds configuration for the logger.
	Log logger.Config `mapstructure:"log"`
	// Sync holds file locations and loop timing.
	Sync SyncConfig `mapstructure:"sync"`
	// Rates holds the rate tier policy.
	Rates rates.Config `mapstructure:"rates"`
	// Reload holds the shaper reload command.
	Reload reload.Config `mapstructure:"reload"`
	// Storage holds configuration for the object storage (e.g., S3, Minio).
	Storage storage.Config `mapstructure:"storage"`
	// Archive holds snapshot archiving settings.
	Archive archive.Config `mapstructure:"archive"`
	// Database holds configuration for the cycle journal database.
	Database database.Config `mapstructure:"database"`
}

// SyncConfig holds the settings of the reconcile loop.
type SyncConfig struct {
	// RoutersFile is the YAML file listing the routers to poll.
	RoutersFile string `mapstructure:"routers_file" default:"routers.yaml"`
	// InventoryFile is the shaped devices CSV.
	InventoryFile string `mapstructure:"inventory_file" default:"ShapedDevices.csv"`
	// TopologyFile is the network tree JSON.
	TopologyFile string `mapstructure:"topology_file" default:"network.json"`
	// ScanInterval is the pause after a successful cycle.
	ScanInterval time.Duration `mapstructure:"scan_interval" default:"600s"`
	// ErrorRetryInterval is the pause after a failed cycle.
	ErrorRetryInterval time.Duration `mapstructure:"error_retry_interval" default:"30s"`
	// DefaultRateLimit applies to PPP profiles without a usable rate.
	DefaultRateLimit string `mapstructure:"default_rate_limit" default:"50M/50M"`
	// DialTimeoutSeconds bounds connecting and logging in to a router.
	DialTimeoutSeconds int `mapstructure:"dial_timeout_seconds" default:"10"`
	// TLSSkipVerify accepts self-signed router certificates on API-SSL.
	TLSSkipVerify bool `mapstructure:"tls_skip_verify" default:"true"`
}

// DialTimeout returns the dial timeout as a duration.
func (s SyncConfig) DialTimeout() time.Duration {
	if s.DialTimeoutSeconds <= 0 {
		return 10 * time.Second
	}
	return time.Duration(s.DialTimeoutSeconds) * time.Second
}

// LoadConfig loads configuration from environment variables and .env file.
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env file if it exists
	envPath := path + "/.env"
	if path == "." {
		envPath = ".env"
	}

	// Ignore error if file doesn't exist (e.g. production)
	_ = godotenv.Overload(envPath)

	v := viper.New()

	// Recursively parse struct tags to set default values
	bindValues(v, Config{}, "")

	// Map environment variables to nested keys (e.g. SYNC_SCAN_INTERVAL -> sync.scan_interval)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}

// bindValues uses reflection to iterate over the struct and set default values in Viper
// based on the 'default' and 'mapstructure' tags.
func bindValues(v *viper.Viper, iface any, prefix string) {
	t := reflect.TypeOf(iface)

	// If it's a pointer, get the element
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		tag := field.Tag.Get("mapstructure")

		// Skip if no tag
		if tag == "" {
			continue
		}

		// Build the key
		key := tag
		if prefix != "" {
			key = prefix + "." + tag
		}

		// If it's a nested struct, recurse
		if field.Type.Kind() == reflect.Struct {
			bindValues(v, reflect.New(field.Type).Elem().Interface(), key)
			continue
		}

		defaultValue := field.Tag.Get("default")
		// Always set default (even if empty) to register the key for AutomaticEnv
		v.SetDefault(key, defaultValue)
	}
}
