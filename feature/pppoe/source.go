package pppoe

import (
	"context"
	"fmt"
	"strings"

	"shaper-sync/core/config"
	"shaper-sync/core/rates"
	"shaper-sync/core/reconcile"
	"shaper-sync/core/routeros"
	"shaper-sync/core/topology"

	"go.uber.org/zap"
)

const (
	// ServicePrefix names the per-router PPPoE node and the default comment.
	ServicePrefix = "PPP"
	// DefaultProfile is assumed for secrets without a profile.
	DefaultProfile = "default"
)

// Source collects PPPoE sessions: secrets joined with active connections.
type Source struct {
	rates       *rates.Converter
	defaultRate string
	logger      *zap.Logger
}

// NewSource creates a PPPoE source. defaultRate applies to profiles without
// a usable rate-limit.
func NewSource(conv *rates.Converter, defaultRate string, logger *zap.Logger) *Source {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Source{rates: conv, defaultRate: defaultRate, logger: logger}
}

func (s *Source) Name() string {
	return "pppoe"
}

func (s *Source) Enabled(router config.Router) bool {
	return router.PPPoE.Enabled
}

func (s *Source) ServiceNode(router string) string {
	return topology.ServiceNodeName(ServicePrefix, router)
}

// Collect joins secrets and active sessions by name. Sessions without an
// address and disabled secrets are ignored.
func (s *Source) Collect(ctx context.Context, session routeros.Session, router config.Router) ([]reconcile.Session, error) {
	l := s.logger.With(zap.String("router", router.Name), zap.String("source", s.Name()))

	secretRows, err := reconcile.FetchOrEmpty(ctx, session, PathSecret, "", l)
	if err != nil {
		return nil, fmt.Errorf("pppoe: %w", err)
	}
	activeRows, err := reconcile.FetchOrEmpty(ctx, session, PathActive, "", l)
	if err != nil {
		return nil, fmt.Errorf("pppoe: %w", err)
	}
	profileRows, err := reconcile.FetchOrEmpty(ctx, session, PathProfile, "", l)
	if err != nil {
		return nil, fmt.Errorf("pppoe: %w", err)
	}

	active := make(map[string]Active, len(activeRows))
	for _, row := range activeRows {
		a := activeFromRow(row)
		if a.Name != "" {
			active[a.Name] = a
		}
	}

	profiles := make(map[string]Profile, len(profileRows))
	for _, row := range profileRows {
		p := profileFromRow(row)
		profiles[p.Name] = p
	}

	var sessions []reconcile.Session
	for _, row := range secretRows {
		secret := secretFromRow(row)
		if secret.Name == "" || secret.Disabled {
			continue
		}
		conn, ok := active[secret.Name]
		if !ok || conn.Address == "" {
			continue
		}

		profile := secret.Profile
		if profile == "" {
			profile = DefaultProfile
		}
		minRx, minTx, maxRx, maxTx := s.rates.Tiers(s.rateFor(profiles, profile))

		parent, parentType := s.ServiceNode(router.Name), topology.TypeSite
		if router.PPPoE.PerPlanNode {
			parent, parentType = topology.PlanNodeName(profile, router.Name), topology.TypePlan
		}

		comment := secret.Comment
		if comment == "" {
			comment = ServicePrefix
		}

		sessions = append(sessions, reconcile.Session{
			Code:            secret.Name,
			Router:          router.Name,
			ParentNode:      parent,
			ParentType:      parentType,
			IPv4:            conn.Address,
			DownloadMinMbps: minRx,
			UploadMinMbps:   minTx,
			DownloadMaxMbps: maxRx,
			UploadMaxMbps:   maxTx,
			Comment:         comment,
		})
	}

	l.Debug("Collected sessions",
		zap.Int("secrets", len(secretRows)),
		zap.Int("active", len(activeRows)),
		zap.Int("sessions", len(sessions)),
	)
	return sessions, nil
}

// rateFor resolves a profile's rate: rate-limit, then a rate-looking
// comment, then the configured default.
func (s *Source) rateFor(profiles map[string]Profile, name string) string {
	p, ok := profiles[name]
	if ok {
		if rl := strings.TrimSpace(p.RateLimit); rl != "" {
			return rl
		}
		if c := strings.TrimSpace(p.Comment); strings.Contains(c, "/") {
			return c
		}
	}
	return s.defaultRate
}
