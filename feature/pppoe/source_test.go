package pppoe

import (
	"context"
	"errors"
	"testing"

	"shaper-sync/core/config"
	"shaper-sync/core/identity"
	"shaper-sync/core/inventory"
	"shaper-sync/core/rates"
	"shaper-sync/core/reconcile"
	"shaper-sync/core/routeros"
	"shaper-sync/core/routeros/mocks"
	"shaper-sync/core/topology"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newSource(t *testing.T) *Source {
	conv, err := rates.NewConverter(rates.DefaultConfig(), zap.NewNop())
	require.NoError(t, err)
	return NewSource(conv, "50M/50M", zap.NewNop())
}

func mockRouter(secrets, active, profiles []routeros.Row) *mocks.Session {
	s := new(mocks.Session)
	s.On("FetchResource", mock.Anything, PathSecret, "").Return(secrets, nil)
	s.On("FetchResource", mock.Anything, PathActive, "").Return(active, nil)
	s.On("FetchResource", mock.Anything, PathProfile, "").Return(profiles, nil)
	return s
}

var router1 = config.Router{Name: "router1", PPPoE: config.PPPoEConfig{Enabled: true}}

func TestSource_Metadata(t *testing.T) {
	src := newSource(t)
	assert.Equal(t, "pppoe", src.Name())
	assert.Equal(t, "PPP-router1", src.ServiceNode("router1"))
	assert.True(t, src.Enabled(router1))
	assert.False(t, src.Enabled(config.Router{}))
}

func TestCollect_GoldProfileCreatesRecord(t *testing.T) {
	session := mockRouter(
		[]routeros.Row{{"name": "alice", "profile": "gold"}},
		[]routeros.Row{{"name": "alice", "address": "10.0.0.5"}},
		[]routeros.Row{{"name": "gold", "rate-limit": "20M/5M"}},
	)

	sessions, err := newSource(t).Collect(context.Background(), session, router1)
	require.NoError(t, err)
	require.Len(t, sessions, 1)

	inv := inventory.New()
	res := reconcile.NewEngine(inv, identity.NewAllocator(), zap.NewNop()).Merge(sessions)
	require.True(t, res.Changed)
	require.Equal(t, 1, inv.Len())

	rec, _ := inv.Get("alice")
	assert.Equal(t, "PPP-router1", rec.ParentNode)
	assert.Equal(t, "10.0.0.5", rec.IPv4)
	assert.Equal(t, 23, rec.DownloadMaxMbps)
	// floor(5 * 1.15) = 5
	assert.Equal(t, 5, rec.UploadMaxMbps)
	assert.Equal(t, "PPP", rec.Comment)
	for _, pair := range [][2]int{{rec.DownloadMinMbps, rec.DownloadMaxMbps}, {rec.UploadMinMbps, rec.UploadMaxMbps}} {
		assert.GreaterOrEqual(t, pair[0], 2)
		assert.LessOrEqual(t, pair[0], pair[1])
	}
}

func TestCollect_JoinAndFilters(t *testing.T) {
	session := mockRouter(
		[]routeros.Row{
			{"name": "alice", "profile": "gold", "comment": "Alice Ltd"},
			{"name": "bob"},
			{"name": "carol", "disabled": "true"},
			{"name": "dave", "profile": "silver"},
			{"name": ""},
		},
		[]routeros.Row{
			{"name": "alice", "address": "10.0.0.5"},
			{"name": "bob", "address": "10.0.0.6"},
			{"name": "carol", "address": "10.0.0.7"},
			{"name": "dave"},
			{"name": "eve", "address": "10.0.0.9"},
		},
		[]routeros.Row{
			{"name": "gold", "rate-limit": "20M/5M 25M/6M 18M/4M 8 1M/1M"},
			{"name": "default", "comment": "10M/10M"},
		},
	)

	sessions, err := newSource(t).Collect(context.Background(), session, router1)
	require.NoError(t, err)
	require.Len(t, sessions, 2)

	assert.Equal(t, "alice", sessions[0].Code)
	assert.Equal(t, "Alice Ltd", sessions[0].Comment)
	assert.Equal(t, 23, sessions[0].DownloadMaxMbps)

	assert.Equal(t, "bob", sessions[1].Code)
	assert.Equal(t, "PPP", sessions[1].Comment)
	// default profile comment 10M/10M -> floor(11.5) = 11
	assert.Equal(t, 11, sessions[1].DownloadMaxMbps)
	assert.Equal(t, 5, sessions[1].DownloadMinMbps)
}

func TestCollect_RateFallbacks(t *testing.T) {
	session := mockRouter(
		[]routeros.Row{
			{"name": "a", "profile": "nocomment"},
			{"name": "b", "profile": "prose"},
			{"name": "c", "profile": "missing"},
			{"name": "d", "profile": "broken"},
		},
		[]routeros.Row{
			{"name": "a", "address": "10.0.0.1"},
			{"name": "b", "address": "10.0.0.2"},
			{"name": "c", "address": "10.0.0.3"},
			{"name": "d", "address": "10.0.0.4"},
		},
		[]routeros.Row{
			{"name": "nocomment"},
			{"name": "prose", "comment": "legacy plan"},
			{"name": "broken", "rate-limit": "fast"},
		},
	)

	sessions, err := newSource(t).Collect(context.Background(), session, router1)
	require.NoError(t, err)
	require.Len(t, sessions, 4)

	// 50M/50M default -> floor(57.5) = 57
	assert.Equal(t, 57, sessions[0].DownloadMaxMbps)
	assert.Equal(t, 57, sessions[1].DownloadMaxMbps)
	assert.Equal(t, 57, sessions[2].DownloadMaxMbps)
	// malformed -> fallback (3,3) -> floor(3.45) = 3
	assert.Equal(t, 3, sessions[3].DownloadMaxMbps)
	assert.Equal(t, 2, sessions[3].DownloadMinMbps)
}

func TestCollect_PerPlanNode(t *testing.T) {
	session := mockRouter(
		[]routeros.Row{{"name": "alice", "profile": "gold"}, {"name": "bob"}},
		[]routeros.Row{{"name": "alice", "address": "10.0.0.5"}, {"name": "bob", "address": "10.0.0.6"}},
		nil,
	)
	router := router1
	router.PPPoE.PerPlanNode = true

	sessions, err := newSource(t).Collect(context.Background(), session, router)
	require.NoError(t, err)
	require.Len(t, sessions, 2)

	assert.Equal(t, "PLAN-gold-router1", sessions[0].ParentNode)
	assert.Equal(t, topology.TypePlan, sessions[0].ParentType)
	assert.Equal(t, "PLAN-default-router1", sessions[1].ParentNode)
}

func TestCollect_ResourceErrors(t *testing.T) {
	t.Run("Profile Fetch Fails", func(t *testing.T) {
		s := new(mocks.Session)
		s.On("FetchResource", mock.Anything, PathSecret, "").Return([]routeros.Row{{"name": "alice", "profile": "gold"}}, nil)
		s.On("FetchResource", mock.Anything, PathActive, "").Return([]routeros.Row{{"name": "alice", "address": "10.0.0.5"}}, nil)
		s.On("FetchResource", mock.Anything, PathProfile, "").Return(nil, &routeros.ResourceError{Path: PathProfile, Err: errors.New("timeout")})

		sessions, err := newSource(t).Collect(context.Background(), s, router1)
		require.NoError(t, err)
		require.Len(t, sessions, 1)
		assert.Equal(t, 57, sessions[0].DownloadMaxMbps)
	})

	t.Run("Active Fetch Fails", func(t *testing.T) {
		s := new(mocks.Session)
		s.On("FetchResource", mock.Anything, PathSecret, "").Return([]routeros.Row{{"name": "alice"}}, nil)
		s.On("FetchResource", mock.Anything, PathActive, "").Return(nil, &routeros.ResourceError{Path: PathActive, Err: errors.New("trap")})
		s.On("FetchResource", mock.Anything, PathProfile, "").Return(nil, nil)

		sessions, err := newSource(t).Collect(context.Background(), s, router1)
		require.NoError(t, err)
		assert.Empty(t, sessions)
	})

	t.Run("Connection Lost", func(t *testing.T) {
		s := new(mocks.Session)
		s.On("FetchResource", mock.Anything, PathSecret, "").Return(nil, &routeros.ConnectionError{Router: "router1", Err: errors.New("EOF")})

		_, err := newSource(t).Collect(context.Background(), s, router1)
		require.Error(t, err)
		assert.True(t, routeros.IsConnectionError(err))
	})
}
