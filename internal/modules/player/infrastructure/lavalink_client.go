package infrastructure

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/disgolink/v3/disgolink"
	"github.com/disgoorg/disgolink/v3/lavalink"
	"github.com/disgoorg/snowflake/v2"

	"github.com/grooveq/grooveq/internal/modules/player/application/ports"
	"github.com/grooveq/grooveq/internal/modules/player/domain"
)

// voiceConnectionTimeout is the maximum time to wait for voice connection to be established.
const voiceConnectionTimeout = 10 * time.Second

// maxEncodedCacheEntries caps the resolved-track cache before it is reset.
const maxEncodedCacheEntries = 1024

// pendingVoiceConnection tracks the state of a pending voice connection.
type pendingVoiceConnection struct {
	mu             sync.Mutex
	hasVoiceState  bool
	hasVoiceServer bool
	ready          chan struct{}
}

// onEvent marks an event as received and signals ready if both events are present.
func (p *pendingVoiceConnection) onEvent(isVoiceState bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if isVoiceState {
		p.hasVoiceState = true
	} else {
		p.hasVoiceServer = true
	}

	if p.hasVoiceState && p.hasVoiceServer {
		select {
		case <-p.ready:
			// Already closed
		default:
			close(p.ready)
		}
	}
}

// voiceEventBuffer buffers voice events to ensure both VoiceStateUpdate and
// VoiceServerUpdate are received before forwarding to Lavalink.
// This prevents "Partial Lavalink voice state" errors when events arrive out of order.
type voiceEventBuffer struct {
	mu sync.Mutex

	// From VoiceStateUpdate
	hasVoiceState bool
	channelID     *snowflake.ID
	sessionID     string

	// From VoiceServerUpdate
	hasVoiceServer bool
	token          string
	endpoint       string
}

// setVoiceState stores voice state data and returns true if both events are now ready.
func (b *voiceEventBuffer) setVoiceState(channelID *snowflake.ID, sessionID string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.hasVoiceState = true
	b.channelID = channelID
	b.sessionID = sessionID

	return b.hasVoiceState && b.hasVoiceServer
}

// setVoiceServer stores voice server data and returns true if both events are now ready.
func (b *voiceEventBuffer) setVoiceServer(token, endpoint string) bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.hasVoiceServer = true
	b.token = token
	b.endpoint = endpoint

	return b.hasVoiceState && b.hasVoiceServer
}

// getData returns the buffered data and resets the buffer.
func (b *voiceEventBuffer) getData() (channelID *snowflake.ID, sessionID, token, endpoint string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	channelID = b.channelID
	sessionID = b.sessionID
	token = b.token
	endpoint = b.endpoint

	// Reset buffer
	b.hasVoiceState = false
	b.hasVoiceServer = false
	b.channelID = nil
	b.sessionID = ""
	b.token = ""
	b.endpoint = ""

	return
}

// LavalinkAdapter wraps DisGoLink to implement the port interfaces. The queue
// stores item metadata only, so the adapter resolves a URL into an encoded
// Lavalink track right before playing it, caching the result.
type LavalinkAdapter struct {
	link    disgolink.Client
	session *discordgo.Session
	botID   snowflake.ID

	pendingMu sync.Mutex
	pending   map[snowflake.ID]*pendingVoiceConnection

	// voiceBuffers holds buffered voice events per guild to handle out-of-order events
	voiceBufferMu sync.Mutex
	voiceBuffers  map[snowflake.ID]*voiceEventBuffer

	// encodedCache maps item URLs to resolved encoded tracks
	encodedMu    sync.Mutex
	encodedCache map[string]string

	publisher ports.EventPublisher
}

var (
	_ ports.AudioPlayer     = (*LavalinkAdapter)(nil)
	_ ports.VoiceConnection = (*LavalinkAdapter)(nil)
	_ ports.TrackResolver   = (*LavalinkAdapter)(nil)
)

// LavalinkConfig contains Lavalink connection configuration.
type LavalinkConfig struct {
	Address  string
	Password string
}

// NewLavalinkAdapter creates a new LavalinkAdapter.
func NewLavalinkAdapter(
	session *discordgo.Session,
	config LavalinkConfig,
) (*LavalinkAdapter, error) {
	botID, err := snowflake.Parse(session.State.User.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to parse bot ID: %w", err)
	}

	adapter := &LavalinkAdapter{
		session:      session,
		botID:        botID,
		pending:      make(map[snowflake.ID]*pendingVoiceConnection),
		voiceBuffers: make(map[snowflake.ID]*voiceEventBuffer),
		encodedCache: make(map[string]string),
	}

	link := disgolink.New(botID,
		disgolink.WithListenerFunc(adapter.onTrackStart),
		disgolink.WithListenerFunc(adapter.onTrackEnd),
		disgolink.WithListenerFunc(adapter.onTrackException),
		disgolink.WithListenerFunc(adapter.onTrackStuck),
	)
	adapter.link = link

	node, err := link.AddNode(context.Background(), disgolink.NodeConfig{
		Name:     "main",
		Address:  config.Address,
		Password: config.Password,
		Secure:   false,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to add Lavalink node: %w", err)
	}

	slog.Info("connected to Lavalink", "node", node.Config().Name, "address", config.Address)

	return adapter, nil
}

// Link returns the underlying DisGoLink client for event registration.
func (c *LavalinkAdapter) Link() disgolink.Client {
	return c.link
}

// JoinChannel connects to a voice channel.
// It waits for both VoiceStateUpdate and VoiceServerUpdate events before returning.
func (c *LavalinkAdapter) JoinChannel(ctx context.Context, guildID, channelID snowflake.ID) error {
	pending := &pendingVoiceConnection{
		ready: make(chan struct{}),
	}

	c.pendingMu.Lock()
	c.pending[guildID] = pending
	c.pendingMu.Unlock()

	defer func() {
		c.pendingMu.Lock()
		delete(c.pending, guildID)
		c.pendingMu.Unlock()
	}()

	err := c.session.ChannelVoiceJoinManual(guildID.String(), channelID.String(), false, false)
	if err != nil {
		return fmt.Errorf("failed to join voice channel: %w", err)
	}

	// Wait for voice connection to be established (both events received)
	select {
	case <-pending.ready:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("context cancelled while waiting for voice connection: %w", ctx.Err())
	case <-time.After(voiceConnectionTimeout):
		return fmt.Errorf("timeout waiting for voice connection")
	}
}

// LeaveChannel disconnects from the voice channel.
func (c *LavalinkAdapter) LeaveChannel(ctx context.Context, guildID snowflake.ID) error {
	player := c.link.ExistingPlayer(guildID)
	if player != nil {
		if err := player.Destroy(ctx); err != nil {
			slog.Warn("failed to destroy player", "guild", guildID, "error", err)
		}
	}

	err := c.session.ChannelVoiceJoinManual(guildID.String(), "", false, false)
	if err != nil {
		return fmt.Errorf("failed to leave voice channel: %w", err)
	}
	return nil
}

// Play resolves the item into an encoded track and loads it into the player.
func (c *LavalinkAdapter) Play(
	ctx context.Context,
	guildID snowflake.ID,
	item domain.QueueItem,
) error {
	encoded, err := c.resolveEncoded(ctx, item.URL)
	if err != nil {
		return err
	}

	player := c.link.Player(guildID)

	// Use WithEncodedTrack to avoid userData:null issue
	if err := player.Update(ctx, lavalink.WithEncodedTrack(encoded)); err != nil {
		return fmt.Errorf("failed to play item: %w", err)
	}

	return nil
}

// Stop stops the current playback.
func (c *LavalinkAdapter) Stop(ctx context.Context, guildID snowflake.ID) error {
	player := c.link.Player(guildID)

	if err := player.Update(ctx, lavalink.WithNullTrack()); err != nil {
		return fmt.Errorf("failed to stop playback: %w", err)
	}

	return nil
}

// Pause pauses the current playback.
func (c *LavalinkAdapter) Pause(ctx context.Context, guildID snowflake.ID) error {
	player := c.link.Player(guildID)

	if err := player.Update(ctx, lavalink.WithPaused(true)); err != nil {
		return fmt.Errorf("failed to pause playback: %w", err)
	}

	return nil
}

// Resume resumes the current playback.
func (c *LavalinkAdapter) Resume(ctx context.Context, guildID snowflake.ID) error {
	player := c.link.Player(guildID)

	if err := player.Update(ctx, lavalink.WithPaused(false)); err != nil {
		return fmt.Errorf("failed to resume playback: %w", err)
	}

	return nil
}

// resolveEncoded turns an item URL into an encoded Lavalink track, consulting
// the cache first.
func (c *LavalinkAdapter) resolveEncoded(ctx context.Context, itemURL string) (string, error) {
	c.encodedMu.Lock()
	encoded, ok := c.encodedCache[itemURL]
	c.encodedMu.Unlock()
	if ok {
		return encoded, nil
	}

	node := c.link.BestNode()
	if node == nil {
		return "", fmt.Errorf("no available Lavalink node")
	}

	result, err := node.LoadTracks(ctx, itemURL)
	if err != nil {
		return "", fmt.Errorf("failed to resolve item: %w", err)
	}

	track, ok := result.Data.(lavalink.Track)
	if !ok {
		return "", fmt.Errorf("item did not resolve to a playable track: %s", itemURL)
	}

	c.encodedMu.Lock()
	if len(c.encodedCache) >= maxEncodedCacheEntries {
		c.encodedCache = make(map[string]string)
	}
	c.encodedCache[itemURL] = track.Encoded
	c.encodedMu.Unlock()

	return track.Encoded, nil
}

// LoadItems loads queue items from Lavalink.
func (c *LavalinkAdapter) LoadItems(
	ctx context.Context,
	query string,
) (*ports.LoadResult, error) {
	node := c.link.BestNode()
	if node == nil {
		return nil, fmt.Errorf("no available Lavalink node")
	}

	result, err := node.LoadTracks(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to load items: %w", err)
	}

	return c.convertLoadResult(result), nil
}

// convertLoadResult converts a Lavalink result to a ports result.
func (c *LavalinkAdapter) convertLoadResult(result *lavalink.LoadResult) *ports.LoadResult {
	switch data := result.Data.(type) {
	case lavalink.Track:
		return &ports.LoadResult{
			Type:  ports.LoadTypeTrack,
			Items: []domain.QueueItem{c.convertTrack(data)},
		}

	case lavalink.Playlist:
		items := make([]domain.QueueItem, len(data.Tracks))
		for i, track := range data.Tracks {
			items[i] = c.convertTrack(track)
		}
		return &ports.LoadResult{
			Type:         ports.LoadTypePlaylist,
			Items:        items,
			PlaylistName: data.Info.Name,
		}

	case lavalink.Search:
		items := make([]domain.QueueItem, len(data))
		for i, track := range data {
			items[i] = c.convertTrack(track)
		}
		return &ports.LoadResult{
			Type:  ports.LoadTypeSearch,
			Items: items,
		}

	case lavalink.Empty:
		return &ports.LoadResult{
			Type: ports.LoadTypeEmpty,
		}

	case lavalink.Exception:
		return &ports.LoadResult{
			Type: ports.LoadTypeError,
		}

	default:
		return &ports.LoadResult{
			Type: ports.LoadTypeEmpty,
		}
	}
}

// convertTrack converts a Lavalink track to a queue item.
func (c *LavalinkAdapter) convertTrack(track lavalink.Track) domain.QueueItem {
	info := track.Info

	var thumbnails []string
	if info.ArtworkURL != nil && *info.ArtworkURL != "" {
		thumbnails = []string{*info.ArtworkURL}
	}

	streamType := domain.StreamTypeAudio
	if info.IsStream {
		streamType = domain.StreamTypeAudioLive
	}

	itemURL := getStringPtr(info.URI)

	// Keep the resolution around so playing this item skips a node round-trip.
	if itemURL != "" {
		c.encodedMu.Lock()
		if len(c.encodedCache) < maxEncodedCacheEntries {
			c.encodedCache[itemURL] = track.Encoded
		}
		c.encodedMu.Unlock()
	}

	return domain.NewQueueItem(
		info.Title,
		itemURL,
		domain.ParseService(info.SourceName),
		int64(time.Duration(info.Length)*time.Millisecond/time.Second),
		info.Author,
		"",
		streamType,
		thumbnails,
	)
}

func getStringPtr(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// OnVoiceServerUpdate handles Discord voice server updates.
// This must be called from the Discord event handler.
func (c *LavalinkAdapter) OnVoiceServerUpdate(event *discordgo.VoiceServerUpdate) {
	guildID, err := snowflake.Parse(event.GuildID)
	if err != nil {
		slog.Error("failed to parse guild ID in voice server update", "error", err)
		return
	}

	buffer := c.getOrCreateVoiceBuffer(guildID)

	if buffer.setVoiceServer(event.Token, event.Endpoint) {
		c.forwardBufferedVoiceEvents(guildID, buffer)
	}

	c.pendingMu.Lock()
	pending := c.pending[guildID]
	c.pendingMu.Unlock()

	if pending != nil {
		pending.onEvent(false)
	}
}

// OnVoiceStateUpdate handles Discord voice state updates.
// This must be called from the Discord event handler.
func (c *LavalinkAdapter) OnVoiceStateUpdate(event *discordgo.VoiceStateUpdate) {
	// Only handle updates for the bot itself
	if event.UserID != c.botID.String() {
		return
	}

	guildID, err := snowflake.Parse(event.GuildID)
	if err != nil {
		slog.Error("failed to parse guild ID in voice state update", "error", err)
		return
	}

	sessionID := event.SessionID

	// Parse the channel ID - if empty, the bot is disconnecting
	var channelID *snowflake.ID
	if event.ChannelID != "" {
		id, err := snowflake.Parse(event.ChannelID)
		if err != nil {
			slog.Error("failed to parse channel ID in voice state update", "error", err)
			return
		}
		channelID = &id
	}

	// Handle disconnect immediately (no need to wait for VoiceServerUpdate)
	if channelID == nil {
		c.link.OnVoiceStateUpdate(context.Background(), guildID, nil, sessionID)
		c.clearVoiceBuffer(guildID)
		return
	}

	buffer := c.getOrCreateVoiceBuffer(guildID)

	if buffer.setVoiceState(channelID, sessionID) {
		c.forwardBufferedVoiceEvents(guildID, buffer)
	}

	c.pendingMu.Lock()
	pending := c.pending[guildID]
	c.pendingMu.Unlock()

	if pending != nil {
		pending.onEvent(true)
	}
}

// getOrCreateVoiceBuffer returns the voice buffer for a guild, creating one if needed.
func (c *LavalinkAdapter) getOrCreateVoiceBuffer(guildID snowflake.ID) *voiceEventBuffer {
	c.voiceBufferMu.Lock()
	defer c.voiceBufferMu.Unlock()

	buffer, exists := c.voiceBuffers[guildID]
	if !exists {
		buffer = &voiceEventBuffer{}
		c.voiceBuffers[guildID] = buffer
	}
	return buffer
}

// clearVoiceBuffer removes the voice buffer for a guild.
func (c *LavalinkAdapter) clearVoiceBuffer(guildID snowflake.ID) {
	c.voiceBufferMu.Lock()
	defer c.voiceBufferMu.Unlock()
	delete(c.voiceBuffers, guildID)
}

// forwardBufferedVoiceEvents sends the buffered voice events to Lavalink.
func (c *LavalinkAdapter) forwardBufferedVoiceEvents(
	guildID snowflake.ID,
	buffer *voiceEventBuffer,
) {
	channelID, sessionID, token, endpoint := buffer.getData()

	slog.Debug("forwarding buffered voice events to Lavalink",
		"guild", guildID,
		"channel", channelID,
		"hasSessionID", sessionID != "",
	)

	// Forward to Lavalink in the correct order
	c.link.OnVoiceStateUpdate(context.Background(), guildID, channelID, sessionID)
	c.link.OnVoiceServerUpdate(context.Background(), guildID, token, endpoint)
}

// SetEventPublisher sets the publisher for Lavalink playback events.
func (c *LavalinkAdapter) SetEventPublisher(publisher ports.EventPublisher) {
	c.publisher = publisher
}

func (c *LavalinkAdapter) onTrackStart(player disgolink.Player, event lavalink.TrackStartEvent) {
	slog.Debug("track started", "guild", player.GuildID(), "track", event.Track.Info.Title)
}

func (c *LavalinkAdapter) onTrackEnd(player disgolink.Player, event lavalink.TrackEndEvent) {
	slog.Debug("track ended", "guild", player.GuildID(), "reason", event.Reason)

	if c.publisher != nil {
		c.publisher.PublishTrackEnded(ports.TrackEndedEvent{
			GuildID: player.GuildID(),
			Reason:  convertEndReason(event.Reason),
		})
	}
}

func (c *LavalinkAdapter) onTrackException(
	player disgolink.Player,
	event lavalink.TrackExceptionEvent,
) {
	slog.Warn("track exception", "guild", player.GuildID(), "error", event.Exception.Message)
}

func (c *LavalinkAdapter) onTrackStuck(player disgolink.Player, event lavalink.TrackStuckEvent) {
	slog.Warn("track stuck", "guild", player.GuildID(), "threshold", event.Threshold)
}

func convertEndReason(reason lavalink.TrackEndReason) ports.TrackEndReason {
	switch reason {
	case lavalink.TrackEndReasonFinished:
		return ports.TrackEndFinished
	case lavalink.TrackEndReasonLoadFailed:
		return ports.TrackEndLoadFailed
	case lavalink.TrackEndReasonStopped:
		return ports.TrackEndStopped
	case lavalink.TrackEndReasonReplaced:
		return ports.TrackEndReplaced
	case lavalink.TrackEndReasonCleanup:
		return ports.TrackEndCleanup
	default:
		return ports.TrackEndStopped
	}
}

// Ensure LavalinkAdapter implements port interfaces.
var (
	_ ports.AudioPlayer     = (*LavalinkAdapter)(nil)
	_ ports.VoiceConnection = (*LavalinkAdapter)(nil)
	_ ports.TrackResolver   = (*LavalinkAdapter)(nil)
)
