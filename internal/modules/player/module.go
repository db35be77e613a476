package player

import (
	"context"
	"log/slog"

	"github.com/bwmarrin/discordgo"
	"github.com/caarlos0/env/v11"

	"github.com/grooveq/grooveq/internal/bot"
	"github.com/grooveq/grooveq/internal/modules/player/application/events"
	"github.com/grooveq/grooveq/internal/modules/player/application/usecases"
	"github.com/grooveq/grooveq/internal/modules/player/infrastructure"
	"github.com/grooveq/grooveq/internal/modules/player/presentation"
)

func init() {
	bot.Register(&PlayerModule{})
}

// Compile-time interface checks.
var _ bot.ConfigurableModule = (*PlayerModule)(nil)

// PlayerModule provides music playback commands.
type PlayerModule struct {
	config          *Config
	handlers        *presentation.Handlers
	lavalinkAdapter *infrastructure.LavalinkAdapter

	voiceChannel *usecases.VoiceChannelService

	eventBus        *events.Bus
	playbackHandler *events.PlaybackEventHandler

	ctx    context.Context
	cancel context.CancelFunc
}

// Name returns the module name.
func (m *PlayerModule) Name() string {
	return "player"
}

// Commands returns the slash commands for this module.
func (m *PlayerModule) Commands() []*discordgo.ApplicationCommand {
	return presentation.Commands()
}

// CommandHandlers returns the command handlers for this module.
func (m *PlayerModule) CommandHandlers() map[string]bot.InteractionHandler {
	return map[string]bot.InteractionHandler{
		"join":    m.handlers.HandleJoin,
		"leave":   m.handlers.HandleLeave,
		"play":    m.handlers.HandlePlay,
		"stop":    m.handlers.HandleStop,
		"pause":   m.handlers.HandlePause,
		"resume":  m.handlers.HandleResume,
		"skip":    m.handlers.HandleSkip,
		"back":    m.handlers.HandleBack,
		"jump":    m.handlers.HandleJump,
		"shuffle": m.handlers.HandleShuffle,
		"repeat":  m.handlers.HandleRepeat,
		"queue":   m.handlers.HandleQueue,
	}
}

// EventHandlers returns the event handlers for this module.
func (m *PlayerModule) EventHandlers() []bot.EventHandler {
	return []bot.EventHandler{
		func(s *discordgo.Session, event *discordgo.VoiceServerUpdate) {
			m.handleVoiceServerUpdate(s, event)
		},
		func(s *discordgo.Session, event *discordgo.VoiceStateUpdate) {
			m.handleVoiceStateUpdate(s, event)
		},
	}
}

// LoadConfig loads module-specific configuration from environment variables.
func (m *PlayerModule) LoadConfig() error {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return err
	}
	m.config = cfg
	return nil
}

// Init initializes the module.
func (m *PlayerModule) Init(deps bot.ModuleDependencies) error {
	if deps.Session == nil {
		slog.Warn("player module initialized without session, Lavalink integration disabled")
		return m.initWithoutLavalink()
	}

	return m.initWithLavalink(deps)
}

// initWithoutLavalink wires the queue-only services so the module loads in
// environments without a Discord session.
func (m *PlayerModule) initWithoutLavalink() error {
	repo := infrastructure.NewMemoryRepository()

	queue := usecases.NewQueueService(repo, nil)
	trackLoader := usecases.NewTrackLoaderService(nil)

	m.handlers = presentation.NewHandlers(nil, nil, queue, trackLoader)
	return nil
}

func (m *PlayerModule) initWithLavalink(deps bot.ModuleDependencies) error {
	m.ctx, m.cancel = context.WithCancel(context.Background())

	m.eventBus = events.NewBus(events.DefaultEventBufferSize)

	lavalinkAdapter, err := infrastructure.NewLavalinkAdapter(
		deps.Session,
		infrastructure.LavalinkConfig{
			Address:  m.config.LavalinkAddress,
			Password: m.config.LavalinkPassword,
		},
	)
	if err != nil {
		return err
	}
	lavalinkAdapter.SetEventPublisher(m.eventBus)
	m.lavalinkAdapter = lavalinkAdapter

	repo := infrastructure.NewMemoryRepository()
	voiceState := infrastructure.NewVoiceStateProvider(deps.Session)
	notifier := infrastructure.NewNotifier(deps.Session)

	snapshots, err := infrastructure.NewFileSnapshotStore(m.config.SnapshotDir)
	if err != nil {
		return err
	}

	trackLoader := usecases.NewTrackLoaderService(lavalinkAdapter)
	playback := usecases.NewPlaybackService(repo, lavalinkAdapter, notifier)
	queue := usecases.NewQueueService(repo, m.eventBus)
	m.voiceChannel = usecases.NewVoiceChannelService(
		repo,
		lavalinkAdapter,
		voiceState,
		snapshots,
	)

	m.playbackHandler = events.NewPlaybackEventHandler(
		playback.PlayCurrent,
		lavalinkAdapter.Stop,
		repo,
		m.eventBus,
	)
	m.playbackHandler.Start(m.ctx)

	m.handlers = presentation.NewHandlers(m.voiceChannel, playback, queue, trackLoader)

	slog.Info("player module initialized with Lavalink")

	return nil
}

// Shutdown cleans up module resources.
func (m *PlayerModule) Shutdown() error {
	// Persist every live queue before tearing anything down
	if m.voiceChannel != nil {
		m.voiceChannel.SaveAll()
	}

	if m.cancel != nil {
		m.cancel()
	}

	if m.playbackHandler != nil {
		m.playbackHandler.Stop()
	}

	if m.eventBus != nil {
		m.eventBus.Close()
	}

	if m.lavalinkAdapter != nil {
		m.lavalinkAdapter.Link().Close()
	}

	return nil
}

// Event handlers.

func (m *PlayerModule) handleVoiceServerUpdate(
	_ *discordgo.Session,
	event *discordgo.VoiceServerUpdate,
) {
	if m.lavalinkAdapter != nil {
		m.lavalinkAdapter.OnVoiceServerUpdate(event)
	}
}

func (m *PlayerModule) handleVoiceStateUpdate(
	_ *discordgo.Session,
	event *discordgo.VoiceStateUpdate,
) {
	if m.lavalinkAdapter != nil {
		m.lavalinkAdapter.OnVoiceStateUpdate(event)
	}
}
