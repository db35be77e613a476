package usecases

import (
	"context"

	"github.com/grooveq/grooveq/internal/modules/player/application/ports"
	"github.com/grooveq/grooveq/internal/modules/player/domain"
)

// LoadInput contains the input for the LoadItems use case.
type LoadInput struct {
	Query string
}

// LoadOutput contains the result of the LoadItems use case.
type LoadOutput struct {
	Items        []domain.QueueItem
	PlaylistName string // non-empty when the query resolved to a playlist
}

// TrackLoaderService resolves user queries into queue items.
type TrackLoaderService struct {
	resolver ports.TrackResolver
}

// NewTrackLoaderService creates a new TrackLoaderService.
func NewTrackLoaderService(resolver ports.TrackResolver) *TrackLoaderService {
	return &TrackLoaderService{
		resolver: resolver,
	}
}

// LoadItems resolves the query. A URL resolves to the single item (or whole
// playlist) behind it; free text becomes a search of which the first result
// is taken.
func (s *TrackLoaderService) LoadItems(
	ctx context.Context,
	input LoadInput,
) (*LoadOutput, error) {
	query := domain.NewSearchQuery(input.Query)
	if !query.IsValid() {
		return nil, ErrNoResults
	}

	result, err := s.resolver.LoadItems(ctx, query.LavalinkQuery())
	if err != nil {
		return nil, err
	}

	if result.Type == ports.LoadTypeEmpty || result.Type == ports.LoadTypeError ||
		len(result.Items) == 0 {
		return nil, ErrNoResults
	}

	switch result.Type {
	case ports.LoadTypePlaylist:
		return &LoadOutput{
			Items:        result.Items,
			PlaylistName: result.PlaylistName,
		}, nil
	case ports.LoadTypeSearch:
		// Searches return many candidates; queue only the best match.
		return &LoadOutput{Items: result.Items[:1]}, nil
	default:
		return &LoadOutput{Items: result.Items}, nil
	}
}
