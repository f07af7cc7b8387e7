package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"shaper-sync/core/topology"

	"gopkg.in/yaml.v3"
)

// RoutersFile is the parsed routers YAML file.
type RoutersFile struct {
	// Hierarchical nests service and plan nodes under a per-router node.
	Hierarchical bool `yaml:"hierarchical"`
	// Topology sizes nodes created for new routers, services and plans.
	Topology TopologyDefaults `yaml:"topology"`
	// Routers lists the routers to poll, in order.
	Routers []Router `yaml:"routers"`
}

// TopologyDefaults holds node sizes. Zero values fall back to the defaults.
type TopologyDefaults struct {
	RouterBandwidthMbps  float64 `yaml:"router_bandwidth_mbps"`
	ServiceBandwidthMbps float64 `yaml:"service_bandwidth_mbps"`
	PlanBandwidthMbps    float64 `yaml:"plan_bandwidth_mbps"`
}

// Router is one polled MikroTik router.
type Router struct {
	Name     string `yaml:"name"`
	Address  string `yaml:"address"`
	Port     int    `yaml:"port"`
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	TLS      bool   `yaml:"tls"`

	PPPoE   PPPoEConfig   `yaml:"pppoe"`
	Hotspot HotspotConfig `yaml:"hotspot"`
	DHCP    DHCPConfig    `yaml:"dhcp"`
}

// PPPoEConfig enables PPPoE session collection.
type PPPoEConfig struct {
	Enabled bool `yaml:"enabled"`
	// PerPlanNode parents circuits under PLAN-<profile>-<router>.
	PerPlanNode bool `yaml:"per_plan_node"`
}

// HotspotConfig enables hotspot session collection.
type HotspotConfig struct {
	Enabled bool `yaml:"enabled"`
	// IncludeMAC keys circuits by MAC instead of user name.
	IncludeMAC        bool    `yaml:"include_mac"`
	DownloadLimitMbps float64 `yaml:"download_limit_mbps"`
	UploadLimitMbps   float64 `yaml:"upload_limit_mbps"`
}

// DHCPConfig enables DHCP lease collection.
type DHCPConfig struct {
	Enabled bool `yaml:"enabled"`
	// Servers restricts leases to these DHCP server names. Empty or "*" means all.
	Servers           []string `yaml:"servers"`
	DownloadLimitMbps float64  `yaml:"download_limit_mbps"`
	UploadLimitMbps   float64  `yaml:"upload_limit_mbps"`
}

// Layout returns the topology layout described by the file.
func (f *RoutersFile) Layout() topology.Layout {
	layout := topology.DefaultLayout()
	layout.Hierarchical = f.Hierarchical
	if f.Topology.RouterBandwidthMbps > 0 {
		layout.RouterBandwidthMbps = f.Topology.RouterBandwidthMbps
	}
	if f.Topology.ServiceBandwidthMbps > 0 {
		layout.ServiceBandwidthMbps = f.Topology.ServiceBandwidthMbps
	}
	if f.Topology.PlanBandwidthMbps > 0 {
		layout.PlanBandwidthMbps = f.Topology.PlanBandwidthMbps
	}
	return layout
}

// Router returns the router with the given name.
func (f *RoutersFile) Router(name string) (Router, bool) {
	for _, r := range f.Routers {
		if r.Name == name {
			return r, true
		}
	}
	return Router{}, false
}

// LoadRouters reads and validates the routers file.
func LoadRouters(path string) (*RoutersFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read routers file: %w", err)
	}
	return ParseRouters(data)
}

// ParseRouters decodes and validates routers YAML.
func ParseRouters(data []byte) (*RoutersFile, error) {
	var f RoutersFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse routers file: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate checks names, addresses and the fixed limits of hotspot and DHCP
// blocks. All problems are reported together.
func (f *RoutersFile) Validate() error {
	var errs []error
	seen := make(map[string]bool, len(f.Routers))

	for i, r := range f.Routers {
		name := strings.TrimSpace(r.Name)
		switch {
		case name == "":
			errs = append(errs, fmt.Errorf("router #%d: name is required", i+1))
		case seen[name]:
			errs = append(errs, fmt.Errorf("router %s: duplicate name", name))
		default:
			seen[name] = true
		}
		if strings.TrimSpace(r.Address) == "" {
			errs = append(errs, fmt.Errorf("router %s: address is required", r.Name))
		}
		if r.Port < 0 || r.Port > 65535 {
			errs = append(errs, fmt.Errorf("router %s: invalid port %d", r.Name, r.Port))
		}
		if r.Hotspot.Enabled {
			errs = append(errs, checkLimits(r.Name, "hotspot", r.Hotspot.DownloadLimitMbps, r.Hotspot.UploadLimitMbps)...)
		}
		if r.DHCP.Enabled {
			errs = append(errs, checkLimits(r.Name, "dhcp", r.DHCP.DownloadLimitMbps, r.DHCP.UploadLimitMbps)...)
		}
	}

	return errors.Join(errs...)
}

// checkLimits rejects fixed limits that would shape a circuit below 1 Mbps.
func checkLimits(router, service string, down, up float64) []error {
	var errs []error
	if down < 1 {
		errs = append(errs, fmt.Errorf("router %s: %s download_limit_mbps must be at least 1, got %v", router, service, down))
	}
	if up < 1 {
		errs = append(errs, fmt.Errorf("router %s: %s upload_limit_mbps must be at least 1, got %v", router, service, up))
	}
	return errs
}

// AllServers reports whether the DHCP scope covers every server.
func (d DHCPConfig) AllServers() bool {
	if len(d.Servers) == 0 {
		return true
	}
	for _, s := range d.Servers {
		if s == "*" {
			return true
		}
	}
	return false
}

// InScope reports whether a lease from server is collected.
func (d DHCPConfig) InScope(server string) bool {
	if d.AllServers() {
		return true
	}
	for _, s := range d.Servers {
		if s == server {
			return true
		}
	}
	return false
}
