package ports

import (
	"context"

	"github.com/disgoorg/snowflake/v2"

	"github.com/grooveq/grooveq/internal/modules/player/domain"
)

// AudioPlayer defines the interface for audio playback operations.
type AudioPlayer interface {
	// Play starts playback of the given item. The item carries metadata
	// only; the implementation resolves actual stream data itself.
	Play(ctx context.Context, guildID snowflake.ID, item domain.QueueItem) error

	// Stop stops the current playback.
	Stop(ctx context.Context, guildID snowflake.ID) error

	// Pause pauses the current playback.
	Pause(ctx context.Context, guildID snowflake.ID) error

	// Resume resumes the paused playback.
	Resume(ctx context.Context, guildID snowflake.ID) error
}
