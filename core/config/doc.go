// Package config provides configuration management for shaper-sync.
//
// It utilizes Viper for loading configuration from environment variables
// and an optional .env file, and yaml.v3 for the routers file.
//
// # Configuration Structure
//
// The Config struct is the central repository for all application settings, divided into subsections:
//   - Server: HTTP status API (enabled, port, API key)
//   - Log: Logging level and format
//   - Sync: file locations, scan and retry intervals, default PPP rate
//   - Rates: tier factors, minimum and fallback rates
//   - Reload: command run after a dirty cycle
//   - Storage / Archive: S3/MinIO snapshot archive
//   - Database: cycle journal connection
//
// # Routers File
//
// The routers file is read again at the start of every cycle, so edits apply
// without a restart:
//
//	hierarchical: false
//	topology:
//	  router_bandwidth_mbps: 2000
//	routers:
//	  - name: r1
//	    address: 10.0.0.1
//	    username: api
//	    password: secret
//	    pppoe: {enabled: true, per_plan_node: true}
//	    hotspot: {enabled: true, download_limit_mbps: 10, upload_limit_mbps: 5}
//	    dhcp: {enabled: false, servers: ["*"]}
//
// # Usage
//
//	cfg, err := config.LoadConfig(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	routers, err := config.LoadRouters(cfg.Sync.RoutersFile)
package config
