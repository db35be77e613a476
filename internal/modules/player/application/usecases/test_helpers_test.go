package usecases

import (
	"context"
	"strconv"

	"github.com/disgoorg/snowflake/v2"

	"github.com/grooveq/grooveq/internal/modules/player/application/ports"
	"github.com/grooveq/grooveq/internal/modules/player/domain"
)

func mockItem(n int) domain.QueueItem {
	id := strconv.Itoa(n)
	return domain.QueueItem{
		Title:      "Item " + id,
		URL:        "https://example.com/watch?v=" + id,
		Service:    domain.ServiceYouTube,
		Duration:   200,
		Uploader:   "Uploader",
		StreamType: domain.StreamTypeAudio,
	}
}

func mockItems(n int) []domain.QueueItem {
	items := make([]domain.QueueItem, n)
	for i := range items {
		items[i] = mockItem(i)
	}
	return items
}

type mockRepository struct {
	sessions map[snowflake.ID]*domain.PlayerSession
	deleted  []snowflake.ID
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		sessions: make(map[snowflake.ID]*domain.PlayerSession),
	}
}

func (m *mockRepository) Get(guildID snowflake.ID) *domain.PlayerSession {
	return m.sessions[guildID]
}

func (m *mockRepository) Save(session *domain.PlayerSession) {
	m.sessions[session.GuildID] = session
}

func (m *mockRepository) Delete(guildID snowflake.ID) {
	m.deleted = append(m.deleted, guildID)
	delete(m.sessions, guildID)
}

func (m *mockRepository) All() []*domain.PlayerSession {
	sessions := make([]*domain.PlayerSession, 0, len(m.sessions))
	for _, s := range m.sessions {
		sessions = append(sessions, s)
	}
	return sessions
}

// createSession creates a connected PlayerSession with n queued items and
// saves it to the mock repository.
func (m *mockRepository) createSession(guildID snowflake.ID, n int) *domain.PlayerSession {
	queue, _ := domain.NewPlayQueueFrom(mockItems(n))
	session := domain.NewPlayerSession(guildID, snowflake.ID(10), snowflake.ID(20), queue)
	m.Save(session)
	return session
}

type mockAudioPlayer struct {
	played    []domain.QueueItem
	stops     int
	pauses    int
	resumes   int
	playErr   error
	stopErr   error
	pauseErr  error
	resumeErr error
}

func (m *mockAudioPlayer) Play(_ context.Context, _ snowflake.ID, item domain.QueueItem) error {
	if m.playErr != nil {
		return m.playErr
	}
	m.played = append(m.played, item)
	return nil
}

func (m *mockAudioPlayer) Stop(_ context.Context, _ snowflake.ID) error {
	if m.stopErr != nil {
		return m.stopErr
	}
	m.stops++
	return nil
}

func (m *mockAudioPlayer) Pause(_ context.Context, _ snowflake.ID) error {
	if m.pauseErr != nil {
		return m.pauseErr
	}
	m.pauses++
	return nil
}

func (m *mockAudioPlayer) Resume(_ context.Context, _ snowflake.ID) error {
	if m.resumeErr != nil {
		return m.resumeErr
	}
	m.resumes++
	return nil
}

type mockPublisher struct {
	enqueued []ports.ItemsEnqueuedEvent
	ended    []ports.TrackEndedEvent
	cleared  []ports.QueueClearedEvent
}

func (m *mockPublisher) PublishItemsEnqueued(event ports.ItemsEnqueuedEvent) {
	m.enqueued = append(m.enqueued, event)
}

func (m *mockPublisher) PublishTrackEnded(event ports.TrackEndedEvent) {
	m.ended = append(m.ended, event)
}

func (m *mockPublisher) PublishQueueCleared(event ports.QueueClearedEvent) {
	m.cleared = append(m.cleared, event)
}

type mockResolver struct {
	result  *ports.LoadResult
	err     error
	queries []string
}

func (m *mockResolver) LoadItems(_ context.Context, query string) (*ports.LoadResult, error) {
	m.queries = append(m.queries, query)
	return m.result, m.err
}

type mockVoiceConnection struct {
	joined  []snowflake.ID
	left    []snowflake.ID
	joinErr error
}

func (m *mockVoiceConnection) JoinChannel(_ context.Context, _, channelID snowflake.ID) error {
	if m.joinErr != nil {
		return m.joinErr
	}
	m.joined = append(m.joined, channelID)
	return nil
}

func (m *mockVoiceConnection) LeaveChannel(_ context.Context, guildID snowflake.ID) error {
	m.left = append(m.left, guildID)
	return nil
}

type mockVoiceState struct {
	channel snowflake.ID
	err     error
}

func (m *mockVoiceState) GetUserVoiceChannel(_, _ snowflake.ID) (snowflake.ID, error) {
	return m.channel, m.err
}

type mockSnapshotStore struct {
	snapshots map[snowflake.ID]domain.QueueSnapshot
	saveErr   error
	loadErr   error
}

func newMockSnapshotStore() *mockSnapshotStore {
	return &mockSnapshotStore{
		snapshots: make(map[snowflake.ID]domain.QueueSnapshot),
	}
}

func (m *mockSnapshotStore) Save(guildID snowflake.ID, snap domain.QueueSnapshot) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.snapshots[guildID] = snap
	return nil
}

func (m *mockSnapshotStore) Load(guildID snowflake.ID) (domain.QueueSnapshot, bool, error) {
	if m.loadErr != nil {
		return domain.QueueSnapshot{}, false, m.loadErr
	}
	snap, ok := m.snapshots[guildID]
	return snap, ok, nil
}

func (m *mockSnapshotStore) Delete(guildID snowflake.ID) error {
	delete(m.snapshots, guildID)
	return nil
}
