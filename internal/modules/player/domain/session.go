package domain

import (
	"github.com/disgoorg/snowflake/v2"
)

// PlayerSession represents the state of the player for one guild. The queue
// inside it is shared by reference with whatever goroutine drives playback;
// the queue carries its own lock.
type PlayerSession struct {
	GuildID               snowflake.ID
	voiceChannelID        snowflake.ID
	notificationChannelID snowflake.ID
	Queue                 *PlayQueue

	playbackActive bool
	paused         bool
}

// NewPlayerSession creates a session for the given guild and channels with
// the provided queue.
func NewPlayerSession(
	guildID, voiceChannelID, notificationChannelID snowflake.ID,
	queue *PlayQueue,
) *PlayerSession {
	return &PlayerSession{
		GuildID:               guildID,
		voiceChannelID:        voiceChannelID,
		notificationChannelID: notificationChannelID,
		Queue:                 queue,
	}
}

// VoiceChannelID returns the voice channel the bot is connected to.
func (s *PlayerSession) VoiceChannelID() snowflake.ID {
	return s.voiceChannelID
}

// NotificationChannelID returns the text channel used for notifications.
func (s *PlayerSession) NotificationChannelID() snowflake.ID {
	return s.notificationChannelID
}

// SetNotificationChannelID updates the notification channel.
func (s *PlayerSession) SetNotificationChannelID(channelID snowflake.ID) {
	s.notificationChannelID = channelID
}

// IsPlaybackActive returns true while a track is loaded into the player.
func (s *PlayerSession) IsPlaybackActive() bool {
	return s.playbackActive
}

// SetPlaybackActive marks whether playback is active.
func (s *PlayerSession) SetPlaybackActive(active bool) {
	s.playbackActive = active
	if !active {
		s.paused = false
	}
}

// IsPaused returns true while playback is paused.
func (s *PlayerSession) IsPaused() bool {
	return s.paused
}

// SetPaused marks whether playback is paused.
func (s *PlayerSession) SetPaused(paused bool) {
	s.paused = paused
}

// IsIdle returns true when no track is loaded into the player.
func (s *PlayerSession) IsIdle() bool {
	return !s.playbackActive
}
