package reconcile_test

import (
	"context"
	"errors"
	"testing"

	"shaper-sync/core/reconcile"
	"shaper-sync/core/routeros"
	"shaper-sync/core/routeros/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestFetchOrEmpty(t *testing.T) {
	ctx := context.Background()

	t.Run("Rows", func(t *testing.T) {
		s := new(mocks.Session)
		s.On("FetchResource", mock.Anything, "/ppp/active", "").Return([]routeros.Row{{"name": "alice"}}, nil)

		rows, err := reconcile.FetchOrEmpty(ctx, s, "/ppp/active", "", zap.NewNop())
		require.NoError(t, err)
		assert.Len(t, rows, 1)
	})

	t.Run("Resource Error Is Empty", func(t *testing.T) {
		s := new(mocks.Session)
		s.On("FetchResource", mock.Anything, "/ppp/active", "").
			Return(nil, &routeros.ResourceError{Path: "/ppp/active", Err: errors.New("no such command")})

		rows, err := reconcile.FetchOrEmpty(ctx, s, "/ppp/active", "", zap.NewNop())
		require.NoError(t, err)
		assert.Empty(t, rows)
	})

	t.Run("Connection Error Propagates", func(t *testing.T) {
		s := new(mocks.Session)
		s.On("FetchResource", mock.Anything, "/ppp/active", "").
			Return(nil, &routeros.ConnectionError{Router: "r1", Err: errors.New("reset")})

		_, err := reconcile.FetchOrEmpty(ctx, s, "/ppp/active", "", zap.NewNop())
		assert.True(t, routeros.IsConnectionError(err))
	})
}
