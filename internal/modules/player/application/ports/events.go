package ports

import (
	"github.com/disgoorg/snowflake/v2"

	"github.com/grooveq/grooveq/internal/modules/player/domain"
)

// TrackEndReason represents why a track ended.
type TrackEndReason string

const (
	// TrackEndFinished means the track finished normally.
	TrackEndFinished TrackEndReason = "finished"
	// TrackEndLoadFailed means the track failed to load.
	TrackEndLoadFailed TrackEndReason = "load_failed"
	// TrackEndStopped means the track was stopped by the user.
	TrackEndStopped TrackEndReason = "stopped"
	// TrackEndReplaced means the track was replaced by another.
	TrackEndReplaced TrackEndReason = "replaced"
	// TrackEndCleanup means the track was cleaned up.
	TrackEndCleanup TrackEndReason = "cleanup"
)

// ShouldAdvanceQueue returns true if this end reason should advance the queue.
func (r TrackEndReason) ShouldAdvanceQueue() bool {
	return r == TrackEndFinished || r == TrackEndLoadFailed
}

// ItemsEnqueuedEvent is published when items are added to a queue.
type ItemsEnqueuedEvent struct {
	GuildID snowflake.ID
	Items   []domain.QueueItem
	WasIdle bool // true if nothing was playing when the items were enqueued
}

// TrackEndedEvent is published when a track ends (from the audio backend).
type TrackEndedEvent struct {
	GuildID snowflake.ID
	Reason  TrackEndReason
}

// QueueClearedEvent is published when a queue is emptied, which stops
// playback.
type QueueClearedEvent struct {
	GuildID snowflake.ID
}

// EventPublisher defines the interface for publishing events asynchronously.
type EventPublisher interface {
	PublishItemsEnqueued(event ItemsEnqueuedEvent)
	PublishTrackEnded(event TrackEndedEvent)
	PublishQueueCleared(event QueueClearedEvent)
}
