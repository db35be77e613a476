package domain

import "strings"

// SearchSource represents the source used when resolving free-text queries.
type SearchSource string

const (
	// SearchYouTube searches YouTube.
	SearchYouTube SearchSource = "ytsearch"
	// SearchSoundCloud searches SoundCloud.
	SearchSoundCloud SearchSource = "scsearch"
	// SearchDirect indicates a direct URL (no search prefix).
	SearchDirect SearchSource = ""
)

// SearchQuery represents a user-supplied query for resolving items.
type SearchQuery struct {
	Query  string
	Source SearchSource
	IsURL  bool
}

// NewSearchQuery creates a SearchQuery from user input. URLs are passed
// through directly; anything else becomes a YouTube search.
func NewSearchQuery(input string) SearchQuery {
	input = strings.TrimSpace(input)

	if isURL(input) {
		return SearchQuery{Query: input, Source: SearchDirect, IsURL: true}
	}
	return SearchQuery{Query: input, Source: SearchYouTube, IsURL: false}
}

// LavalinkQuery returns the query string formatted for Lavalink.
func (q SearchQuery) LavalinkQuery() string {
	if q.IsURL {
		return q.Query
	}
	return string(q.Source) + ":" + q.Query
}

// IsValid returns true if the query is not empty.
func (q SearchQuery) IsValid() bool {
	return q.Query != ""
}

func isURL(input string) bool {
	return strings.HasPrefix(input, "http://") ||
		strings.HasPrefix(input, "https://") ||
		strings.HasPrefix(input, "www.")
}
