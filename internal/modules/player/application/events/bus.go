package events

import (
	"log/slog"
	"sync"

	"github.com/grooveq/grooveq/internal/modules/player/application/ports"
)

// DefaultEventBufferSize is the default buffer size for event channels.
const DefaultEventBufferSize = 100

// Compile-time check that Bus implements ports.EventPublisher.
var _ ports.EventPublisher = (*Bus)(nil)

// Bus provides a channel-based event bus for async event handling.
type Bus struct {
	itemsEnqueued chan ports.ItemsEnqueuedEvent
	trackEnded    chan ports.TrackEndedEvent
	queueCleared  chan ports.QueueClearedEvent

	closed bool
	mu     sync.RWMutex
}

// NewBus creates a new Bus with the given buffer size.
func NewBus(bufferSize int) *Bus {
	if bufferSize <= 0 {
		bufferSize = DefaultEventBufferSize
	}

	return &Bus{
		itemsEnqueued: make(chan ports.ItemsEnqueuedEvent, bufferSize),
		trackEnded:    make(chan ports.TrackEndedEvent, bufferSize),
		queueCleared:  make(chan ports.QueueClearedEvent, bufferSize),
	}
}

// PublishItemsEnqueued publishes an ItemsEnqueuedEvent.
// Non-blocking: if the channel buffer is full, the event is dropped with a warning.
func (b *Bus) PublishItemsEnqueued(event ports.ItemsEnqueuedEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		slog.Warn("attempted to publish to closed event bus", "type", "ItemsEnqueued")
		return
	}

	select {
	case b.itemsEnqueued <- event:
		slog.Debug("published event", "type", "ItemsEnqueued", "guild", event.GuildID)
	default:
		slog.Warn("event buffer full, dropping event", "type", "ItemsEnqueued")
	}
}

// PublishTrackEnded publishes a TrackEndedEvent.
// Non-blocking: if the channel buffer is full, the event is dropped with a warning.
func (b *Bus) PublishTrackEnded(event ports.TrackEndedEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		slog.Warn("attempted to publish to closed event bus", "type", "TrackEnded")
		return
	}

	select {
	case b.trackEnded <- event:
		slog.Debug("published event", "type", "TrackEnded", "guild", event.GuildID)
	default:
		slog.Warn("event buffer full, dropping event", "type", "TrackEnded")
	}
}

// PublishQueueCleared publishes a QueueClearedEvent.
// Non-blocking: if the channel buffer is full, the event is dropped with a warning.
func (b *Bus) PublishQueueCleared(event ports.QueueClearedEvent) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if b.closed {
		slog.Warn("attempted to publish to closed event bus", "type", "QueueCleared")
		return
	}

	select {
	case b.queueCleared <- event:
		slog.Debug("published event", "type", "QueueCleared", "guild", event.GuildID)
	default:
		slog.Warn("event buffer full, dropping event", "type", "QueueCleared")
	}
}

// ItemsEnqueued returns the channel for ItemsEnqueuedEvent.
func (b *Bus) ItemsEnqueued() <-chan ports.ItemsEnqueuedEvent {
	return b.itemsEnqueued
}

// TrackEnded returns the channel for TrackEndedEvent.
func (b *Bus) TrackEnded() <-chan ports.TrackEndedEvent {
	return b.trackEnded
}

// QueueCleared returns the channel for QueueClearedEvent.
func (b *Bus) QueueCleared() <-chan ports.QueueClearedEvent {
	return b.queueCleared
}

// Close closes all event channels.
// After calling Close, publishing will no longer send events.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return
	}

	b.closed = true
	close(b.itemsEnqueued)
	close(b.trackEnded)
	close(b.queueCleared)

	slog.Debug("event bus closed")
}
