package dhcp

import (
	"context"
	"testing"

	"shaper-sync/core/config"
	"shaper-sync/core/rates"
	"shaper-sync/core/routeros"
	"shaper-sync/core/routeros/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newSource(t *testing.T) *Source {
	conv, err := rates.NewConverter(rates.DefaultConfig(), zap.NewNop())
	require.NoError(t, err)
	return NewSource(conv, zap.NewNop())
}

var leases = []routeros.Row{
	{"mac-address": "AA:BB:CC:00:00:01", "address": "192.168.1.10", "host-name": "laptop", "server": "lan"},
	{"mac-address": "AA:BB:CC:00:00:02", "address": "192.168.1.11", "server": "lan"},
	{"mac-address": "AA:BB:CC:00:00:03", "address": "192.168.2.10", "server": "guests"},
	{"mac-address": "AA:BB:CC:00:00:04", "address": "192.168.1.12", "server": "lan", "disabled": "true"},
	{"address": "192.168.1.13", "server": "lan"},
	{"mac-address": "AA:BB:CC:00:00:05", "address": "192.168.1.14", "active-address": "192.168.1.99", "server": "lan"},
}

func dhcpRouter(servers ...string) config.Router {
	return config.Router{
		Name: "router1",
		DHCP: config.DHCPConfig{
			Enabled:           true,
			Servers:           servers,
			DownloadLimitMbps: 20,
			UploadLimitMbps:   10,
		},
	}
}

func TestCollect_Scoped(t *testing.T) {
	s := new(mocks.Session)
	s.On("FetchResource", mock.Anything, PathLease, "").Return(leases, nil)

	sessions, err := newSource(t).Collect(context.Background(), s, dhcpRouter("lan"))
	require.NoError(t, err)
	require.Len(t, sessions, 3)

	assert.Equal(t, "DHCP-laptop", sessions[0].Code)
	assert.Equal(t, "laptop", sessions[0].Comment)
	assert.Equal(t, "DHCP-router1", sessions[0].ParentNode)
	assert.Equal(t, 20, sessions[0].DownloadMaxMbps)
	assert.Equal(t, 10, sessions[0].DownloadMinMbps)
	assert.Equal(t, 5, sessions[0].UploadMinMbps)

	assert.Equal(t, "DHCP-AABBCC000002", sessions[1].Code)
	assert.Equal(t, "DHCP", sessions[1].Comment)

	assert.Equal(t, "192.168.1.99", sessions[2].IPv4)
}

func TestCollect_AllServers(t *testing.T) {
	for _, scope := range [][]string{nil, {"*"}} {
		s := new(mocks.Session)
		s.On("FetchResource", mock.Anything, PathLease, "").Return(leases, nil)

		sessions, err := newSource(t).Collect(context.Background(), s, dhcpRouter(scope...))
		require.NoError(t, err)
		assert.Len(t, sessions, 4)
	}
}

func TestSource_Metadata(t *testing.T) {
	src := newSource(t)
	assert.Equal(t, "dhcp", src.Name())
	assert.Equal(t, "DHCP-r9", src.ServiceNode("r9"))
	assert.True(t, src.Enabled(dhcpRouter()))
	assert.False(t, src.Enabled(config.Router{}))
}
