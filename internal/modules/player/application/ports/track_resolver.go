package ports

import (
	"context"

	"github.com/grooveq/grooveq/internal/modules/player/domain"
)

// LoadType represents the type of load result.
type LoadType string

const (
	LoadTypeTrack    LoadType = "track"
	LoadTypePlaylist LoadType = "playlist"
	LoadTypeSearch   LoadType = "search"
	LoadTypeEmpty    LoadType = "empty"
	LoadTypeError    LoadType = "error"
)

// LoadResult represents the result of resolving a query into queue items.
type LoadResult struct {
	Type         LoadType
	Items        []domain.QueueItem
	PlaylistName string
}

// TrackResolver defines the interface for resolving queries into playable
// queue items.
type TrackResolver interface {
	// LoadItems resolves the given query (URL or search expression).
	LoadItems(ctx context.Context, query string) (*LoadResult, error)
}
