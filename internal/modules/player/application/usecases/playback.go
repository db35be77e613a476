package usecases

import (
	"context"
	"log/slog"

	"github.com/disgoorg/snowflake/v2"

	"github.com/grooveq/grooveq/internal/modules/player/application/ports"
	"github.com/grooveq/grooveq/internal/modules/player/domain"
)

// PauseInput contains the input for the Pause use case.
type PauseInput struct {
	GuildID snowflake.ID
}

// ResumeInput contains the input for the Resume use case.
type ResumeInput struct {
	GuildID snowflake.ID
}

// StopInput contains the input for the Stop use case.
type StopInput struct {
	GuildID snowflake.ID
}

// SkipInput contains the input for the Skip use case.
type SkipInput struct {
	GuildID snowflake.ID
}

// SkipOutput contains the result of the Skip use case.
type SkipOutput struct {
	Skipped domain.QueueItem
	Next    *domain.QueueItem // nil when the queue ended
}

// BackInput contains the input for the Back use case.
type BackInput struct {
	GuildID snowflake.ID
}

// BackOutput contains the result of the Back use case.
type BackOutput struct {
	Current domain.QueueItem
	Index   int
}

// JumpInput contains the input for the Jump use case.
type JumpInput struct {
	GuildID snowflake.ID
	Index   int
}

// JumpOutput contains the result of the Jump use case.
type JumpOutput struct {
	Current domain.QueueItem
	Index   int
}

// PlaybackService drives the audio player from the play queue.
type PlaybackService struct {
	repo        domain.SessionRepository
	audioPlayer ports.AudioPlayer
	notifier    ports.NotificationSender
}

// NewPlaybackService creates a new PlaybackService.
func NewPlaybackService(
	repo domain.SessionRepository,
	audioPlayer ports.AudioPlayer,
	notifier ports.NotificationSender,
) *PlaybackService {
	return &PlaybackService{
		repo:        repo,
		audioPlayer: audioPlayer,
		notifier:    notifier,
	}
}

// Pause pauses the current playback.
func (p *PlaybackService) Pause(ctx context.Context, input PauseInput) error {
	session := p.repo.Get(input.GuildID)
	if session == nil {
		return ErrNotConnected
	}

	if session.IsIdle() {
		return ErrNotPlaying
	}
	if session.IsPaused() {
		return ErrAlreadyPaused
	}

	if err := p.audioPlayer.Pause(ctx, input.GuildID); err != nil {
		return err
	}

	session.SetPaused(true)
	return nil
}

// Resume resumes the paused playback.
func (p *PlaybackService) Resume(ctx context.Context, input ResumeInput) error {
	session := p.repo.Get(input.GuildID)
	if session == nil {
		return ErrNotConnected
	}

	if session.IsIdle() {
		return ErrNotPlaying
	}
	if !session.IsPaused() {
		return ErrNotPaused
	}

	if err := p.audioPlayer.Resume(ctx, input.GuildID); err != nil {
		return err
	}

	session.SetPaused(false)
	return nil
}

// Stop stops playback. The queue and its cursor are left as they are, so
// playback can be resumed from the same position with Jump or Skip.
func (p *PlaybackService) Stop(ctx context.Context, input StopInput) error {
	session := p.repo.Get(input.GuildID)
	if session == nil {
		return ErrNotConnected
	}

	if session.IsIdle() {
		return ErrNotPlaying
	}

	if err := p.audioPlayer.Stop(ctx, input.GuildID); err != nil {
		return err
	}

	session.SetPlaybackActive(false)
	return nil
}

// Skip advances the queue and plays the item the cursor lands on. When the
// cursor cannot advance (end of queue with repeat and shuffle both off),
// playback stops instead.
func (p *PlaybackService) Skip(ctx context.Context, input SkipInput) (*SkipOutput, error) {
	session := p.repo.Get(input.GuildID)
	if session == nil {
		return nil, ErrNotConnected
	}

	skipped, ok := session.Queue.Item()
	if !ok {
		return nil, ErrQueueEmpty
	}

	before := session.Queue.Index()
	index := session.Queue.Next()

	if index == before && !session.Queue.IsRepeat() && !session.Queue.IsShuffle() {
		// Cursor clamped: the queue ended.
		if err := p.audioPlayer.Stop(ctx, input.GuildID); err != nil {
			return nil, err
		}
		session.SetPlaybackActive(false)
		return &SkipOutput{Skipped: skipped}, nil
	}

	next, err := p.PlayCurrent(ctx, input.GuildID)
	if err != nil {
		return nil, err
	}
	return &SkipOutput{Skipped: skipped, Next: next}, nil
}

// Back moves the cursor to the previous item and plays it. Previous is
// always sequential, regardless of shuffle.
func (p *PlaybackService) Back(ctx context.Context, input BackInput) (*BackOutput, error) {
	session := p.repo.Get(input.GuildID)
	if session == nil {
		return nil, ErrNotConnected
	}

	if session.Queue.IsEmpty() {
		return nil, ErrQueueEmpty
	}

	index := session.Queue.Previous()
	current, err := p.PlayCurrent(ctx, input.GuildID)
	if err != nil {
		return nil, err
	}
	return &BackOutput{Current: *current, Index: index}, nil
}

// Jump moves the cursor to the given index (sanitized by the queue: wrapped
// under repeat, clamped otherwise) and plays the item there.
func (p *PlaybackService) Jump(ctx context.Context, input JumpInput) (*JumpOutput, error) {
	session := p.repo.Get(input.GuildID)
	if session == nil {
		return nil, ErrNotConnected
	}

	if session.Queue.IsEmpty() {
		return nil, ErrQueueEmpty
	}

	session.Queue.SetIndex(input.Index)
	current, err := p.PlayCurrent(ctx, input.GuildID)
	if err != nil {
		return nil, err
	}
	return &JumpOutput{Current: *current, Index: session.Queue.Index()}, nil
}

// PlayCurrent loads the item at the cursor into the audio player. When the
// queue is empty it stops the player instead and returns nil.
func (p *PlaybackService) PlayCurrent(
	ctx context.Context,
	guildID snowflake.ID,
) (*domain.QueueItem, error) {
	session := p.repo.Get(guildID)
	if session == nil {
		return nil, ErrNotConnected
	}

	item, ok := session.Queue.Item()
	if !ok {
		if err := p.audioPlayer.Stop(ctx, guildID); err != nil {
			return nil, err
		}
		session.SetPlaybackActive(false)
		return nil, nil
	}

	if err := p.audioPlayer.Play(ctx, guildID, item); err != nil {
		return nil, err
	}
	session.SetPlaybackActive(true)
	session.SetPaused(false)

	if p.notifier != nil {
		if err := p.notifier.SendNowPlaying(session.NotificationChannelID(), item); err != nil {
			slog.Warn("failed to send now-playing notification",
				"guild", guildID,
				"error", err,
			)
		}
	}

	return &item, nil
}
