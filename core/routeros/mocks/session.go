package mocks

import (
	"context"

	"shaper-sync/core/routeros"

	"github.com/stretchr/testify/mock"
)

// Session is a mock implementation of routeros.Session
type Session struct {
	mock.Mock
}

func (m *Session) FetchResource(ctx context.Context, path, nameFilter string) ([]routeros.Row, error) {
	args := m.Called(ctx, path, nameFilter)
	if rows, ok := args.Get(0).([]routeros.Row); ok {
		return rows, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *Session) Close() error {
	args := m.Called()
	return args.Error(0)
}

// Dialer is a mock implementation of routeros.Dialer
type Dialer struct {
	mock.Mock
}

func (m *Dialer) Dial(ctx context.Context, target routeros.Target) (routeros.Session, error) {
	args := m.Called(ctx, target)
	if s, ok := args.Get(0).(routeros.Session); ok {
		return s, args.Error(1)
	}
	return nil, args.Error(1)
}
