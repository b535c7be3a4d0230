// Package metrics is a fire-and-forget sink for named numeric samples.
//
// It wraps the Datadog statsd client. A nil *Client or an unconfigured
// address is a no-op: the pipeline never branches on metric delivery and
// delivery failures are logged, not returned.
package metrics

import (
	"log/slog"

	"github.com/DataDog/datadog-go/v5/statsd"

	"github.com/k-a-v-i-n-0-0-2/google-govdocgenie/internal/common"
)

// Client emits gauges and counters to a statsd endpoint.
type Client struct {
	statsd *statsd.Client
	logger *slog.Logger
}

// New connects a statsd client. Constructed once at startup and injected;
// an empty addr returns a working no-op client, never an error.
func New(cfg common.MetricsConfig, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.StatsdAddr == "" {
		logger.Warn("metrics.disabled", "reason", "DATADOG_STATSD_ADDR not set")
		return &Client{logger: logger}
	}

	opts := []statsd.Option{statsd.WithNamespace(cfg.Namespace)}
	if len(cfg.Tags) > 0 {
		opts = append(opts, statsd.WithTags(cfg.Tags))
	}
	c, err := statsd.New(cfg.StatsdAddr, opts...)
	if err != nil {
		logger.Error("metrics.init_failed", "addr", cfg.StatsdAddr, "error", err)
		return &Client{logger: logger}
	}
	logger.Info("metrics.enabled", "addr", cfg.StatsdAddr, "namespace", cfg.Namespace)
	return &Client{statsd: c, logger: logger}
}

// Enabled reports whether samples are actually delivered anywhere.
func (c *Client) Enabled() bool {
	return c != nil && c.statsd != nil
}

// Gauge records an instantaneous value.
func (c *Client) Gauge(name string, value float64, tags ...string) {
	if !c.Enabled() {
		return
	}
	if err := c.statsd.Gauge(name, value, tags, 1); err != nil {
		c.logger.Debug("metrics.gauge_failed", "metric", name, "error", err)
	}
}

// Incr bumps a counter by one.
func (c *Client) Incr(name string, tags ...string) {
	if !c.Enabled() {
		return
	}
	if err := c.statsd.Incr(name, tags, 1); err != nil {
		c.logger.Debug("metrics.incr_failed", "metric", name, "error", err)
	}
}

// Close flushes and closes the underlying client.
func (c *Client) Close() {
	if !c.Enabled() {
		return
	}
	if err := c.statsd.Close(); err != nil {
		c.logger.Warn("metrics.close_failed", "error", err)
	}
}
