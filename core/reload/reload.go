package reload

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"
)

// ErrDisabled is returned by Reload when no command is configured.
var ErrDisabled = errors.New("reload command not configured")

// Reloader tells the shaper to pick up rewritten files.
type Reloader struct {
	argv    []string
	timeout time.Duration
	logger  *zap.Logger
}

// New creates a reloader. The command is split on whitespace; no shell is involved.
func New(cfg Config, logger *zap.Logger) *Reloader {
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := time.Duration(cfg.TimeoutSeconds) * time.Second
	if timeout <= 0 {
		timeout = time.Minute
	}
	return &Reloader{
		argv:    strings.Fields(cfg.Command),
		timeout: timeout,
		logger:  logger,
	}
}

// Enabled reports whether a command is configured.
func (r *Reloader) Enabled() bool {
	return len(r.argv) > 0
}

// Reload runs the command and waits for it.
func (r *Reloader) Reload(ctx context.Context) error {
	if !r.Enabled() {
		return ErrDisabled
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	var out bytes.Buffer
	cmd := exec.CommandContext(ctx, r.argv[0], r.argv[1:]...)
	cmd.Stdout = &out
	cmd.Stderr = &out

	start := time.Now()
	err := cmd.Run()
	output := strings.TrimSpace(out.String())

	if err != nil {
		if ctx.Err() != nil {
			err = fmt.Errorf("%w (%v)", ctx.Err(), err)
		}
		return fmt.Errorf("reload command %q failed: %w: %s", r.argv[0], err, output)
	}

	r.logger.Info("Shaper reloaded",
		zap.String("command", r.argv[0]),
		zap.Duration("took", time.Since(start)),
	)
	if output != "" {
		r.logger.Debug("Reload output", zap.String("output", output))
	}
	return nil
}
