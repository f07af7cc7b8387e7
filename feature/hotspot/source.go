package hotspot

import (
	"context"
	"fmt"
	"math"

	"shaper-sync/core/config"
	"shaper-sync/core/rates"
	"shaper-sync/core/reconcile"
	"shaper-sync/core/routeros"
	"shaper-sync/core/topology"
	"shaper-sync/core/utils"

	"go.uber.org/zap"
)

// ServicePrefix names hotspot circuits and the per-router node.
const ServicePrefix = "HS"

// Comment is written on hotspot circuits.
const Comment = "Hotspot"

// Source collects hotspot sessions with the router's fixed limits.
type Source struct {
	rates  *rates.Converter
	logger *zap.Logger
}

// NewSource creates a hotspot source.
func NewSource(conv *rates.Converter, logger *zap.Logger) *Source {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Source{rates: conv, logger: logger}
}

func (s *Source) Name() string {
	return "hotspot"
}

func (s *Source) Enabled(router config.Router) bool {
	return router.Hotspot.Enabled
}

func (s *Source) ServiceNode(router string) string {
	return topology.ServiceNodeName(ServicePrefix, router)
}

// Collect converts every active row. Rows with neither a user nor a MAC are skipped.
func (s *Source) Collect(ctx context.Context, session routeros.Session, router config.Router) ([]reconcile.Session, error) {
	l := s.logger.With(zap.String("router", router.Name), zap.String("source", s.Name()))

	rows, err := reconcile.FetchOrEmpty(ctx, session, PathActive, "", l)
	if err != nil {
		return nil, fmt.Errorf("hotspot: %w", err)
	}

	maxRx := int(math.Floor(router.Hotspot.DownloadLimitMbps))
	maxTx := int(math.Floor(router.Hotspot.UploadLimitMbps))
	minRx, minTx := s.rates.DeriveMinRates(maxRx, maxTx)

	sessions := make([]reconcile.Session, 0, len(rows))
	for _, row := range rows {
		a := activeFromRow(row)
		code := sessionCode(a, router.Hotspot.IncludeMAC)
		if code == "" {
			l.Debug("Skipping hotspot row without user or MAC", zap.String("address", a.Address))
			continue
		}

		sessions = append(sessions, reconcile.Session{
			Code:            code,
			Router:          router.Name,
			ParentNode:      s.ServiceNode(router.Name),
			ParentType:      topology.TypeSite,
			MAC:             a.MAC,
			IPv4:            a.Address,
			DownloadMinMbps: minRx,
			UploadMinMbps:   minTx,
			DownloadMaxMbps: maxRx,
			UploadMaxMbps:   maxTx,
			Comment:         Comment,
		})
	}

	return sessions, nil
}

// sessionCode prefers the MAC when includeMAC is set, then the user name,
// then the MAC anyway.
func sessionCode(a Active, includeMAC bool) string {
	mac := utils.CompactMAC(a.MAC)
	switch {
	case includeMAC && mac != "":
		return ServicePrefix + "-" + mac
	case a.User != "":
		return ServicePrefix + "-" + a.User
	case mac != "":
		return ServicePrefix + "-" + mac
	default:
		return ""
	}
}
