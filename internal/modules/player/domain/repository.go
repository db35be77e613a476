package domain

import (
	"github.com/disgoorg/snowflake/v2"
)

// SessionRepository defines the interface for storing and retrieving player
// sessions.
type SessionRepository interface {
	// Get returns the PlayerSession for the given guild, or nil if not exists.
	Get(guildID snowflake.ID) *PlayerSession

	// Save stores the PlayerSession.
	Save(session *PlayerSession)

	// Delete removes the PlayerSession for the given guild.
	Delete(guildID snowflake.ID)

	// All returns a snapshot of every stored session.
	All() []*PlayerSession
}
