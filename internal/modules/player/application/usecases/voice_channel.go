package usecases

import (
	"context"
	"log/slog"

	"github.com/disgoorg/snowflake/v2"

	"github.com/grooveq/grooveq/internal/modules/player/application/ports"
	"github.com/grooveq/grooveq/internal/modules/player/domain"
)

// JoinInput contains the input for the Join use case.
type JoinInput struct {
	GuildID               snowflake.ID
	UserID                snowflake.ID
	NotificationChannelID snowflake.ID
	VoiceChannelID        snowflake.ID // optional: defaults to the user's channel
}

// JoinOutput contains the result of the Join use case.
type JoinOutput struct {
	VoiceChannelID snowflake.ID
	RestoredItems  int // items restored from a saved queue snapshot
}

// LeaveInput contains the input for the Leave use case.
type LeaveInput struct {
	GuildID snowflake.ID
}

// VoiceChannelService handles joining and leaving voice channels, including
// saving and restoring the guild's queue across sessions.
type VoiceChannelService struct {
	repo       domain.SessionRepository
	voiceConn  ports.VoiceConnection
	voiceState ports.VoiceStateProvider
	snapshots  ports.SnapshotStore
}

// NewVoiceChannelService creates a new VoiceChannelService.
func NewVoiceChannelService(
	repo domain.SessionRepository,
	voiceConn ports.VoiceConnection,
	voiceState ports.VoiceStateProvider,
	snapshots ports.SnapshotStore,
) *VoiceChannelService {
	return &VoiceChannelService{
		repo:       repo,
		voiceConn:  voiceConn,
		voiceState: voiceState,
		snapshots:  snapshots,
	}
}

// Join connects the bot to a voice channel and creates the guild's session.
// A previously saved queue snapshot is restored when one exists; otherwise
// the session starts with an empty queue.
func (v *VoiceChannelService) Join(ctx context.Context, input JoinInput) (*JoinOutput, error) {
	// Already connected: just refresh the notification channel.
	if session := v.repo.Get(input.GuildID); session != nil {
		if input.NotificationChannelID != 0 {
			session.SetNotificationChannelID(input.NotificationChannelID)
		}
		return &JoinOutput{VoiceChannelID: session.VoiceChannelID()}, nil
	}

	channelID := input.VoiceChannelID
	if channelID == 0 {
		userChannel, err := v.voiceState.GetUserVoiceChannel(input.GuildID, input.UserID)
		if err != nil {
			return nil, err
		}
		if userChannel == 0 {
			return nil, ErrUserNotInVoice
		}
		channelID = userChannel
	}

	if err := v.voiceConn.JoinChannel(ctx, input.GuildID, channelID); err != nil {
		return nil, err
	}

	queue, restored := v.restoreQueue(input.GuildID)

	session := domain.NewPlayerSession(
		input.GuildID,
		channelID,
		input.NotificationChannelID,
		queue,
	)
	v.repo.Save(session)

	return &JoinOutput{
		VoiceChannelID: channelID,
		RestoredItems:  restored,
	}, nil
}

// restoreQueue rebuilds the guild's queue from a saved snapshot, falling
// back to a fresh empty queue.
func (v *VoiceChannelService) restoreQueue(guildID snowflake.ID) (*domain.PlayQueue, int) {
	if v.snapshots != nil {
		snap, ok, err := v.snapshots.Load(guildID)
		if err != nil {
			slog.Warn("failed to load queue snapshot", "guild", guildID, "error", err)
		} else if ok {
			queue, err := domain.RestoreQueue(snap)
			if err != nil {
				slog.Warn("discarding unusable queue snapshot", "guild", guildID, "error", err)
			} else {
				return queue, queue.Size()
			}
		}
	}

	queue, _ := domain.NewPlayQueueFrom([]domain.QueueItem{})
	return queue, 0
}

// Leave saves the guild's queue, disconnects from the voice channel and
// discards the session.
func (v *VoiceChannelService) Leave(ctx context.Context, input LeaveInput) error {
	session := v.repo.Get(input.GuildID)
	if session == nil {
		return ErrNotConnected
	}

	v.saveQueue(session)

	if err := v.voiceConn.LeaveChannel(ctx, input.GuildID); err != nil {
		return err
	}

	v.repo.Delete(input.GuildID)
	return nil
}

// saveQueue persists the session's queue; an empty queue deletes any stored
// snapshot instead.
func (v *VoiceChannelService) saveQueue(session *domain.PlayerSession) {
	if v.snapshots == nil {
		return
	}

	if session.Queue.IsEmpty() {
		if err := v.snapshots.Delete(session.GuildID); err != nil {
			slog.Warn("failed to delete queue snapshot", "guild", session.GuildID, "error", err)
		}
		return
	}

	if err := v.snapshots.Save(session.GuildID, session.Queue.Snapshot()); err != nil {
		slog.Warn("failed to save queue snapshot", "guild", session.GuildID, "error", err)
	}
}

// SaveAll persists the queues of every live session. Called at shutdown.
func (v *VoiceChannelService) SaveAll() {
	for _, session := range v.repo.All() {
		v.saveQueue(session)
	}
}
