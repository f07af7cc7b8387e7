package rates

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
)

var ratePattern = regexp.MustCompile(`^(\d+(?:\.\d+)?)?\s*([A-Za-z]*)$`)

// Pair is a download/upload rate in Mbps.
type Pair struct {
	Download float64
	Upload   float64
}

// Converter normalises RouterOS bandwidth strings and derives shaping tiers.
type Converter struct {
	cfg    Config
	cache  *lru.Cache[string, Pair]
	logger *zap.Logger
}

// NewConverter creates a converter for the given policy.
func NewConverter(cfg Config, logger *zap.Logger) (*Converter, error) {
	if cfg.CeilingFactor <= 1 {
		return nil, fmt.Errorf("ceiling factor must be greater than 1, got %v", cfg.CeilingFactor)
	}
	if cfg.FloorFactor <= 0 || cfg.FloorFactor >= 1 {
		return nil, fmt.Errorf("floor factor must be between 0 and 1, got %v", cfg.FloorFactor)
	}
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = DefaultConfig().CacheSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	cache, err := lru.New[string, Pair](cfg.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create rate cache: %w", err)
	}

	return &Converter{cfg: cfg, cache: cache, logger: logger}, nil
}

// ConvertToMbps parses a value such as "10k", "7M" or "1.5G" into Mbps,
// rounded to two decimals. A missing or unknown unit means Mbps already.
// Anything unparsable yields 0.
func (c *Converter) ConvertToMbps(value string) float64 {
	mbps, ok := toMbps(value)
	if !ok {
		c.logger.Warn("Unparsable bandwidth value, using 0", zap.String("value", value))
	}
	return mbps
}

// toMbps reports false only for non-empty input that does not match.
func toMbps(value string) (float64, bool) {
	value = strings.TrimSpace(value)
	if value == "" {
		return 0, true
	}

	m := ratePattern.FindStringSubmatch(value)
	if m == nil || m[1] == "" {
		return 0, false
	}

	n, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, false
	}

	unit := ""
	if m[2] != "" {
		unit = strings.ToLower(m[2][:1])
	}

	switch unit {
	case "k":
		n /= 1000
	case "g":
		n *= 1000
	}

	return math.Round(n*100) / 100, true
}

// ParseRateLimitPair splits a RouterOS rate-limit ("rx/tx [burst...]") into
// download and upload Mbps. Empty and "0/0" are unlimited (0, 0); malformed
// input gets the fallback pair so nobody is throttled to zero.
func (c *Converter) ParseRateLimitPair(raw string) (float64, float64) {
	if p, ok := c.cache.Get(raw); ok {
		return p.Download, p.Upload
	}

	p, ok := c.parsePair(raw)
	if !ok {
		c.logger.Warn("Could not parse rate limit, using fallback",
			zap.String("rate_limit", raw),
			zap.Float64("download", p.Download),
			zap.Float64("upload", p.Upload),
		)
	}

	c.cache.Add(raw, p)
	return p.Download, p.Upload
}

func (c *Converter) parsePair(raw string) (Pair, bool) {
	fallback := Pair{Download: c.cfg.FallbackDownload, Upload: c.cfg.FallbackUpload}

	fields := strings.Fields(raw)
	if len(fields) == 0 || fields[0] == "0/0" {
		return Pair{}, true
	}

	parts := strings.SplitN(fields[0], "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return fallback, false
	}

	rx, rxOK := toMbps(parts[0])
	tx, txOK := toMbps(parts[1])
	if !rxOK || !txOK {
		return fallback, false
	}

	return Pair{Download: rx, Upload: tx}, true
}

// DeriveMaxRates applies the ceiling factor and the minimum clamp.
func (c *Converter) DeriveMaxRates(rx, tx float64) (int, int) {
	return c.scale(rx, c.cfg.CeilingFactor), c.scale(tx, c.cfg.CeilingFactor)
}

// DeriveMinRates applies the floor factor to already derived maximums.
// The result never exceeds the maximum it came from.
func (c *Converter) DeriveMinRates(maxRx, maxTx int) (int, int) {
	minRx := c.scale(float64(maxRx), c.cfg.FloorFactor)
	minTx := c.scale(float64(maxTx), c.cfg.FloorFactor)
	return min(minRx, maxRx), min(minTx, maxTx)
}

// Tiers converts a raw rate-limit string into min and max tiers.
func (c *Converter) Tiers(raw string) (minRx, minTx, maxRx, maxTx int) {
	rx, tx := c.ParseRateLimitPair(raw)
	maxRx, maxTx = c.DeriveMaxRates(rx, tx)
	minRx, minTx = c.DeriveMinRates(maxRx, maxTx)
	return minRx, minTx, maxRx, maxTx
}

// scale floors v*factor, absorbing float noise such as 20*1.15 = 22.999...
func (c *Converter) scale(v, factor float64) int {
	return max(int(math.Floor(v*factor+1e-9)), c.cfg.MinimumMbps)
}
