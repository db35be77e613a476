package infrastructure

import (
	"sync"

	"github.com/disgoorg/snowflake/v2"

	"github.com/grooveq/grooveq/internal/modules/player/domain"
)

// MemoryRepository is an in-memory implementation of SessionRepository.
type MemoryRepository struct {
	mu       sync.RWMutex
	sessions map[snowflake.ID]*domain.PlayerSession
}

// NewMemoryRepository creates a new MemoryRepository.
func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{
		sessions: make(map[snowflake.ID]*domain.PlayerSession),
	}
}

// Get returns the PlayerSession for the given guild, or nil if none exists.
func (r *MemoryRepository) Get(guildID snowflake.ID) *domain.PlayerSession {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.sessions[guildID]
}

// Save stores the PlayerSession.
func (r *MemoryRepository) Save(session *domain.PlayerSession) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.sessions[session.GuildID] = session
}

// Delete removes the PlayerSession for the given guild.
func (r *MemoryRepository) Delete(guildID snowflake.ID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.sessions, guildID)
}

// All returns every live PlayerSession.
func (r *MemoryRepository) All() []*domain.PlayerSession {
	r.mu.RLock()
	defer r.mu.RUnlock()

	sessions := make([]*domain.PlayerSession, 0, len(r.sessions))
	for _, session := range r.sessions {
		sessions = append(sessions, session)
	}
	return sessions
}

// Count returns the number of sessions (for testing/monitoring).
func (r *MemoryRepository) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.sessions)
}

// Ensure MemoryRepository implements SessionRepository.
var _ domain.SessionRepository = (*MemoryRepository)(nil)
