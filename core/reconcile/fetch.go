package reconcile

import (
	"context"

	"shaper-sync/core/routeros"

	"go.uber.org/zap"
)

// FetchOrEmpty fetches a resource. A *routeros.ResourceError is logged and
// reported as no rows so the rest of the pass continues; any other error is
// returned.
func FetchOrEmpty(ctx context.Context, session routeros.Session, path, nameFilter string, logger *zap.Logger) ([]routeros.Row, error) {
	rows, err := session.FetchResource(ctx, path, nameFilter)
	if err == nil {
		return rows, nil
	}
	if routeros.IsResourceError(err) {
		logger.Warn("Resource fetch failed, treating as empty", zap.String("path", path), zap.Error(err))
		return nil, nil
	}
	return nil, err
}
