package events

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/disgoorg/snowflake/v2"

	"github.com/grooveq/grooveq/internal/modules/player/application/ports"
	"github.com/grooveq/grooveq/internal/modules/player/domain"
)

// PlayCurrentFunc is the function signature for playing the item at the
// queue cursor.
type PlayCurrentFunc func(ctx context.Context, guildID snowflake.ID) (*domain.QueueItem, error)

// StopFunc is the function signature for stopping playback.
type StopFunc func(ctx context.Context, guildID snowflake.ID) error

// PlaybackEventHandler drives the playback flow from queue events. It listens
// for ItemsEnqueued, TrackEnded, and QueueCleared events.
type PlaybackEventHandler struct {
	playCurrentFunc PlayCurrentFunc
	stopFunc        StopFunc
	repo            domain.SessionRepository
	bus             *Bus

	wg   sync.WaitGroup
	done chan struct{}
}

// NewPlaybackEventHandler creates a new PlaybackEventHandler.
func NewPlaybackEventHandler(
	playCurrentFunc PlayCurrentFunc,
	stopFunc StopFunc,
	repo domain.SessionRepository,
	bus *Bus,
) *PlaybackEventHandler {
	return &PlaybackEventHandler{
		playCurrentFunc: playCurrentFunc,
		stopFunc:        stopFunc,
		repo:            repo,
		bus:             bus,
		done:            make(chan struct{}),
	}
}

// Start begins listening for events in background goroutines.
func (h *PlaybackEventHandler) Start(ctx context.Context) {
	h.wg.Add(3)

	go func() {
		defer h.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case <-h.done:
				return
			case event, ok := <-h.bus.ItemsEnqueued():
				if !ok {
					return
				}
				h.handleItemsEnqueued(ctx, event)
			}
		}
	}()

	go func() {
		defer h.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case <-h.done:
				return
			case event, ok := <-h.bus.TrackEnded():
				if !ok {
					return
				}
				h.handleTrackEnded(ctx, event)
			}
		}
	}()

	go func() {
		defer h.wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case <-h.done:
				return
			case event, ok := <-h.bus.QueueCleared():
				if !ok {
					return
				}
				h.handleQueueCleared(ctx, event)
			}
		}
	}()

	slog.Debug("playback event handler started")
}

// Stop stops the event handler and waits for goroutines to finish.
func (h *PlaybackEventHandler) Stop() {
	close(h.done)
	h.wg.Wait()
	slog.Debug("playback event handler stopped")
}

func (h *PlaybackEventHandler) handleItemsEnqueued(ctx context.Context, event ports.ItemsEnqueuedEvent) {
	// Only start playback if the player was idle at enqueue time.
	if !event.WasIdle {
		return
	}

	// Re-check the live state to avoid a race with concurrent enqueues:
	// several batches enqueued while idle all carry WasIdle=true, but only
	// the first should trigger playback.
	session := h.repo.Get(event.GuildID)
	if session == nil {
		slog.Debug("items enqueued but session is gone, skipping auto-play",
			"guild", event.GuildID,
		)
		return
	}
	if !session.IsIdle() {
		slog.Debug("items enqueued but playback already active, skipping auto-play",
			"guild", event.GuildID,
		)
		return
	}

	slog.Debug("starting playback after enqueue while idle",
		"guild", event.GuildID,
		"items", len(event.Items),
	)

	if _, err := h.playCurrentFunc(ctx, event.GuildID); err != nil {
		slog.Error("failed to start playback after enqueue",
			"guild", event.GuildID,
			"error", err,
		)
	}
}

func (h *PlaybackEventHandler) handleTrackEnded(ctx context.Context, event ports.TrackEndedEvent) {
	if !event.Reason.ShouldAdvanceQueue() {
		slog.Debug("track ended without queue advance",
			"guild", event.GuildID,
			"reason", event.Reason,
		)
		return
	}

	session := h.repo.Get(event.GuildID)
	if session == nil {
		slog.Debug("track ended but session is gone", "guild", event.GuildID)
		return
	}

	queue := session.Queue
	before := queue.Index()
	index := queue.Next()

	if index == before && !queue.IsRepeat() && !queue.IsShuffle() {
		// Cursor clamped at the last item: the queue ran out.
		if event.Reason == ports.TrackEndLoadFailed {
			queue.Remove(before)
		}
		slog.Debug("queue ended, stopping playback", "guild", event.GuildID)
		session.SetPlaybackActive(false)
		return
	}

	if event.Reason == ports.TrackEndLoadFailed {
		// Drop the broken item so it is not retried on the next pass.
		queue.Remove(before)
	}

	slog.Debug("track ended, playing next item",
		"guild", event.GuildID,
		"reason", event.Reason,
		"index", queue.Index(),
	)

	if _, err := h.playCurrentFunc(ctx, event.GuildID); err != nil {
		slog.Error("failed to play next item after track ended",
			"guild", event.GuildID,
			"error", err,
		)
	}
}

func (h *PlaybackEventHandler) handleQueueCleared(ctx context.Context, event ports.QueueClearedEvent) {
	slog.Debug("queue cleared, stopping playback", "guild", event.GuildID)

	if err := h.stopFunc(ctx, event.GuildID); err != nil &&
		!errors.Is(err, context.Canceled) {
		slog.Error("failed to stop playback after queue cleared",
			"guild", event.GuildID,
			"error", err,
		)
	}

	if session := h.repo.Get(event.GuildID); session != nil {
		session.SetPlaybackActive(false)
	}
}
