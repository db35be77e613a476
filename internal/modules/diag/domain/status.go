package domain

import (
	"fmt"
	"time"
)

// StatusReport describes the bot's current health.
type StatusReport struct {
	GatewayLatency time.Duration
	Uptime         time.Duration
	GeneratedAt    time.Time
}

// NewStatusReport creates a StatusReport from the given measurements.
func NewStatusReport(gatewayLatency time.Duration, startedAt time.Time) *StatusReport {
	now := time.Now()

	return &StatusReport{
		GatewayLatency: gatewayLatency,
		Uptime:         now.Sub(startedAt),
		GeneratedAt:    now,
	}
}

// Summary formats the report as a single human-readable line.
func (r *StatusReport) Summary() string {
	return fmt.Sprintf("Pong! Gateway latency: %dms, uptime: %s",
		r.GatewayLatency.Milliseconds(),
		r.Uptime.Round(time.Second),
	)
}
