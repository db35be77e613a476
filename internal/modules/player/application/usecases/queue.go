package usecases

import (
	"context"

	"github.com/disgoorg/snowflake/v2"

	"github.com/grooveq/grooveq/internal/modules/player/application/ports"
	"github.com/grooveq/grooveq/internal/modules/player/domain"
)

const DefaultPageSize = 10

// AddInput contains the input for the Add use case.
type AddInput struct {
	GuildID  snowflake.ID
	Items    []domain.QueueItem
	PlayNext bool // insert right after the cursor instead of appending
}

// AddOutput contains the result of the Add use case.
type AddOutput struct {
	Position int // index the first added item landed on
	WasIdle  bool
}

// ListInput contains the input for the List use case.
type ListInput struct {
	GuildID  snowflake.ID
	Page     int // 1-indexed page number
	PageSize int // items per page (optional, defaults to 10)
}

// ListOutput contains the result of the List use case.
type ListOutput struct {
	Items       []domain.QueueItem // the requested page, in play order
	StartIndex  int                // absolute index of Items[0]
	Index       int                // cursor position in the full queue
	TotalItems  int
	CurrentPage int
	TotalPages  int
	Shuffle     bool
	Repeat      bool
}

// RemoveInput contains the input for the Remove use case.
type RemoveInput struct {
	GuildID snowflake.ID
	Index   int
}

// RemoveOutput contains the result of the Remove use case.
type RemoveOutput struct {
	Removed domain.QueueItem
}

// MoveInput contains the input for the Move use case.
type MoveInput struct {
	GuildID snowflake.ID
	From    int
	To      int
}

// MoveOutput contains the result of the Move use case.
type MoveOutput struct {
	Moved domain.QueueItem
}

// ClearInput contains the input for the Clear use case.
type ClearInput struct {
	GuildID snowflake.ID
}

// ClearOutput contains the result of the Clear use case.
type ClearOutput struct {
	ClearedCount int
}

// ShuffleMode selects what the Shuffle use case does.
type ShuffleMode string

const (
	ShuffleToggle ShuffleMode = ""    // flip the flag
	ShuffleOn     ShuffleMode = "on"  // enable the flag
	ShuffleOff    ShuffleMode = "off" // disable the flag
	ShuffleNow    ShuffleMode = "now" // reorder the queue immediately
)

// ShuffleInput contains the input for the Shuffle use case.
type ShuffleInput struct {
	GuildID snowflake.ID
	Mode    ShuffleMode
}

// ShuffleOutput contains the result of the Shuffle use case.
type ShuffleOutput struct {
	Enabled    bool
	Reshuffled bool
}

// RepeatMode selects what the Repeat use case does.
type RepeatMode string

const (
	RepeatToggle RepeatMode = ""
	RepeatOn     RepeatMode = "on"
	RepeatOff    RepeatMode = "off"
)

// RepeatInput contains the input for the Repeat use case.
type RepeatInput struct {
	GuildID snowflake.ID
	Mode    RepeatMode
}

// RepeatOutput contains the result of the Repeat use case.
type RepeatOutput struct {
	Enabled bool
}

// QueueService handles queue operations.
type QueueService struct {
	repo      domain.SessionRepository
	publisher ports.EventPublisher
}

// NewQueueService creates a new QueueService.
func NewQueueService(
	repo domain.SessionRepository,
	publisher ports.EventPublisher,
) *QueueService {
	return &QueueService{
		repo:      repo,
		publisher: publisher,
	}
}

// Add puts items into the queue, either appended at the end or inserted
// right after the cursor, and publishes an event so playback starts if the
// player was idle.
func (q *QueueService) Add(_ context.Context, input AddInput) (*AddOutput, error) {
	session := q.repo.Get(input.GuildID)
	if session == nil {
		return nil, ErrNotConnected
	}
	if len(input.Items) == 0 {
		return nil, ErrNoResults
	}

	wasIdle := session.IsIdle()

	var position int
	if input.PlayNext && !session.Queue.IsEmpty() {
		position = session.Queue.Index() + 1
		if err := session.Queue.Insert(position, input.Items); err != nil {
			return nil, err
		}
	} else {
		position = session.Queue.Size()
		if err := session.Queue.Append(input.Items); err != nil {
			return nil, err
		}
	}

	if q.publisher != nil {
		q.publisher.PublishItemsEnqueued(ports.ItemsEnqueuedEvent{
			GuildID: input.GuildID,
			Items:   input.Items,
			WasIdle: wasIdle,
		})
	}

	return &AddOutput{Position: position, WasIdle: wasIdle}, nil
}

// List returns one page of the queue along with cursor and mode flags, all
// taken from a single consistent snapshot.
func (q *QueueService) List(input ListInput) (*ListOutput, error) {
	session := q.repo.Get(input.GuildID)
	if session == nil {
		return nil, ErrNotConnected
	}

	pageSize := input.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	page := input.Page
	if page <= 0 {
		page = 1
	}

	snap := session.Queue.Snapshot()

	totalItems := len(snap.Items)
	totalPages := (totalItems + pageSize - 1) / pageSize
	if totalPages == 0 {
		totalPages = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * pageSize
	end := min(start+pageSize, totalItems)

	var pageItems []domain.QueueItem
	if start < totalItems {
		pageItems = snap.Items[start:end]
	}

	return &ListOutput{
		Items:       pageItems,
		StartIndex:  start,
		Index:       snap.Index,
		TotalItems:  totalItems,
		CurrentPage: page,
		TotalPages:  totalPages,
		Shuffle:     snap.Shuffle,
		Repeat:      snap.Repeat,
	}, nil
}

// Remove removes the item at the given index. The currently playing item
// cannot be removed here; that is Skip's job since it needs playback control.
func (q *QueueService) Remove(input RemoveInput) (*RemoveOutput, error) {
	session := q.repo.Get(input.GuildID)
	if session == nil {
		return nil, ErrNotConnected
	}

	item, ok := session.Queue.ItemAt(input.Index)
	if !ok {
		return nil, ErrInvalidPosition
	}
	if session.IsPlaybackActive() && input.Index == session.Queue.Index() {
		return nil, ErrIsCurrentItem
	}

	session.Queue.Remove(input.Index)
	return &RemoveOutput{Removed: item}, nil
}

// Move relocates an item from one position to another. The cursor keeps
// denoting the same item throughout.
func (q *QueueService) Move(input MoveInput) (*MoveOutput, error) {
	session := q.repo.Get(input.GuildID)
	if session == nil {
		return nil, ErrNotConnected
	}

	item, ok := session.Queue.ItemAt(input.From)
	if !ok {
		return nil, ErrInvalidPosition
	}
	if _, ok := session.Queue.ItemAt(input.To); !ok {
		return nil, ErrInvalidPosition
	}
	if input.From == input.To {
		return nil, ErrInvalidPosition
	}

	session.Queue.Move(input.From, input.To)
	return &MoveOutput{Moved: item}, nil
}

// Clear empties the whole queue and publishes an event that stops playback.
// The shuffle and repeat flags survive.
func (q *QueueService) Clear(input ClearInput) (*ClearOutput, error) {
	session := q.repo.Get(input.GuildID)
	if session == nil {
		return nil, ErrNotConnected
	}

	count := session.Queue.Size()
	if count == 0 {
		return nil, ErrQueueEmpty
	}

	session.Queue.Clear()

	if q.publisher != nil {
		q.publisher.PublishQueueCleared(ports.QueueClearedEvent{
			GuildID: input.GuildID,
		})
	}

	return &ClearOutput{ClearedCount: count}, nil
}

// Shuffle controls shuffle mode. ShuffleNow reorders the queue immediately
// while keeping the current item playing; the other modes only touch the
// flag and never change the item order.
func (q *QueueService) Shuffle(input ShuffleInput) (*ShuffleOutput, error) {
	session := q.repo.Get(input.GuildID)
	if session == nil {
		return nil, ErrNotConnected
	}

	switch input.Mode {
	case ShuffleNow:
		session.Queue.ShuffleNow()
		return &ShuffleOutput{Enabled: session.Queue.IsShuffle(), Reshuffled: true}, nil
	case ShuffleOn:
		session.Queue.SetShuffle(true)
		return &ShuffleOutput{Enabled: true}, nil
	case ShuffleOff:
		session.Queue.SetShuffle(false)
		return &ShuffleOutput{Enabled: false}, nil
	default:
		return &ShuffleOutput{Enabled: session.Queue.ToggleShuffle()}, nil
	}
}

// Repeat controls the repeat flag.
func (q *QueueService) Repeat(input RepeatInput) (*RepeatOutput, error) {
	session := q.repo.Get(input.GuildID)
	if session == nil {
		return nil, ErrNotConnected
	}

	switch input.Mode {
	case RepeatOn:
		session.Queue.SetRepeat(true)
		return &RepeatOutput{Enabled: true}, nil
	case RepeatOff:
		session.Queue.SetRepeat(false)
		return &RepeatOutput{Enabled: false}, nil
	default:
		return &RepeatOutput{Enabled: session.Queue.ToggleRepeat()}, nil
	}
}
