package application

import (
	"time"

	"github.com/grooveq/grooveq/internal/modules/diag/domain"
)

// StatusInteractor handles the status check use case.
type StatusInteractor struct {
	startedAt time.Time
}

// NewStatusInteractor creates a new StatusInteractor anchored at the current time.
func NewStatusInteractor() *StatusInteractor {
	return &StatusInteractor{
		startedAt: time.Now(),
	}
}

// Execute builds a status report from the given gateway latency.
func (s *StatusInteractor) Execute(gatewayLatency time.Duration) *domain.StatusReport {
	return domain.NewStatusReport(gatewayLatency, s.startedAt)
}
