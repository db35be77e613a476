package ports

import (
	"github.com/disgoorg/snowflake/v2"

	"github.com/grooveq/grooveq/internal/modules/player/domain"
)

// SnapshotStore defines the interface for persisting queue snapshots so a
// guild's queue survives reconnects and restarts. Restoring goes through the
// domain's RestoreQueue, which re-runs cursor sanitization.
type SnapshotStore interface {
	// Save persists the snapshot for the given guild.
	Save(guildID snowflake.ID, snapshot domain.QueueSnapshot) error

	// Load returns the stored snapshot for the guild. The second return is
	// false when no snapshot exists.
	Load(guildID snowflake.ID) (domain.QueueSnapshot, bool, error)

	// Delete removes the stored snapshot for the guild, if any.
	Delete(guildID snowflake.ID) error
}
