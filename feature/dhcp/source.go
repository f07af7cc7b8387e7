package dhcp

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

// ServicePrefix names DHCP circuits, the per-router node and the default comment.
const ServicePrefix = "DHCP"

// Source collects DHCP leases of the configured server scopes.
type Source struct {
	rates  *rates.Converter
	logger *zap.Logger
}

// NewSource creates a DHCP source.
func NewSource(conv *rates.Converter, logger *zap.Logger) *Source {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Source{rates: conv, logger: logger}
}

func (s *Source) Name() string {
	return "dhcp"
}

func (s *Source) Enabled(router config.Router) bool {
	return router.DHCP.Enabled
}

func (s *Source) ServiceNode(router string) string {
	return topology.ServiceNodeName(ServicePrefix, router)
}

// Collect converts leases that have a MAC, are not disabled and belong to an
// in-scope server.
func (s *Source) Collect(ctx context.Context, session routeros.Session, router config.Router) ([]reconcile.Session, error) {
	l := s.logger.With(zap.String("router", router.Name), zap.String("source", s.Name()))

	rows, err := reconcile.FetchOrEmpty(ctx, session, PathLease, "", l)
	if err != nil {
		return nil, fmt.Errorf("dhcp: %w", err)
	}

	maxRx := int(math.Floor(router.DHCP.DownloadLimitMbps))
	maxTx := int(math.Floor(router.DHCP.UploadLimitMbps))
	minRx, minTx := s.rates.DeriveMinRates(maxRx, maxTx)

	var sessions []reconcile.Session
	for _, row := range rows {
		lease := leaseFromRow(row)
		if lease.MAC == "" || lease.Disabled || !router.DHCP.InScope(lease.Server) {
			continue
		}

		code := ServicePrefix + "-" + utils.CompactMAC(lease.MAC)
		comment := ServicePrefix
		if lease.HostName != "" {
			code = ServicePrefix + "-" + lease.HostName
			comment = lease.HostName
		}

		sessions = append(sessions, reconcile.Session{
			Code:            code,
			Router:          router.Name,
			ParentNode:      s.ServiceNode(router.Name),
			ParentType:      topology.TypeSite,
			MAC:             lease.MAC,
			IPv4:            lease.Address,
			DownloadMinMbps: minRx,
			UploadMinMbps:   minTx,
			DownloadMaxMbps: maxRx,
			UploadMaxMbps:   maxTx,
			Comment:         comment,
		})
	}

	l.Debug("Collected leases", zap.Int("leases", len(rows)), zap.Int("sessions", len(sessions)))
	return sessions, nil
}
