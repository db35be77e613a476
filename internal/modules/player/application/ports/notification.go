package ports

import (
	"github.com/disgoorg/snowflake/v2"

	"github.com/grooveq/grooveq/internal/modules/player/domain"
)

// NotificationSender defines the interface for sending notifications to
// Discord channels.
type NotificationSender interface {
	// SendNowPlaying sends a "Now Playing" embed to the channel.
	SendNowPlaying(channelID snowflake.ID, item domain.QueueItem) error

	// SendError sends an error message embed to the channel.
	SendError(channelID snowflake.ID, message string) error
}
