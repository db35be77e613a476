package usecases

import (
	"github.com/grooveq/grooveq/internal/modules/player/domain"
)

// Re-export domain types for presentation layer use. This allows
// presentation to depend only on usecases without importing domain directly.

// QueueItem is an alias for domain.QueueItem.
type QueueItem = domain.QueueItem

// PlayQueue is an alias for domain.PlayQueue.
type PlayQueue = domain.PlayQueue

// SessionRepository is an alias for domain.SessionRepository.
type SessionRepository = domain.SessionRepository
