package domain

import (
	"net/url"
	"slices"
	"strconv"
)

// QueueItem is an immutable description of one playable unit in a queue.
// It carries resolved metadata only; stream data is fetched by the playback
// collaborator when the item actually starts.
type QueueItem struct {
	Title       string     `json:"title"`
	URL         string     `json:"url"`
	Service     Service    `json:"service"`
	Duration    int64      `json:"duration"` // seconds
	Uploader    string     `json:"uploader"`
	UploaderURL string     `json:"uploader_url,omitempty"`
	StreamType  StreamType `json:"stream_type"`
	Thumbnails  []string   `json:"thumbnails,omitempty"`
}

// NewQueueItem creates a QueueItem with sanitized fields: negative durations
// clamp to zero and empty or malformed thumbnail URLs are dropped.
func NewQueueItem(
	title string,
	itemURL string,
	service Service,
	duration int64,
	uploader string,
	uploaderURL string,
	streamType StreamType,
	thumbnails []string,
) QueueItem {
	if duration < 0 {
		duration = 0
	}

	var cleaned []string
	for _, thumb := range thumbnails {
		if isValidThumbnailURL(thumb) {
			cleaned = append(cleaned, thumb)
		}
	}

	return QueueItem{
		Title:       title,
		URL:         itemURL,
		Service:     service,
		Duration:    duration,
		Uploader:    uploader,
		UploaderURL: uploaderURL,
		StreamType:  streamType,
		Thumbnails:  cleaned,
	}
}

// isValidThumbnailURL reports whether s is a usable absolute URL.
func isValidThumbnailURL(s string) bool {
	if s == "" {
		return false
	}
	u, err := url.Parse(s)
	return err == nil && u.Scheme != "" && u.Host != ""
}

// IsValid returns true if the item has the minimum required fields.
func (i QueueItem) IsValid() bool {
	return i.URL != ""
}

// Equal reports whether two items carry the same metadata, including the
// thumbnail list.
func (i QueueItem) Equal(other QueueItem) bool {
	return i.Title == other.Title &&
		i.URL == other.URL &&
		i.Service == other.Service &&
		i.Duration == other.Duration &&
		i.Uploader == other.Uploader &&
		i.UploaderURL == other.UploaderURL &&
		i.StreamType == other.StreamType &&
		slices.Equal(i.Thumbnails, other.Thumbnails)
}

// Thumbnail returns the first thumbnail URL, or empty if the item has none.
func (i QueueItem) Thumbnail() string {
	if len(i.Thumbnails) == 0 {
		return ""
	}
	return i.Thumbnails[0]
}

// FormattedDuration returns the duration as mm:ss or hh:mm:ss, or "LIVE" for
// live stream kinds.
func (i QueueItem) FormattedDuration() string {
	if i.StreamType.IsLive() {
		return "LIVE"
	}

	hours := i.Duration / 3600
	minutes := (i.Duration % 3600) / 60
	seconds := i.Duration % 60

	if hours > 0 {
		return pad(hours) + ":" + pad(minutes) + ":" + pad(seconds)
	}
	return pad(minutes) + ":" + pad(seconds)
}

func pad(n int64) string {
	if n < 10 {
		return "0" + strconv.FormatInt(n, 10)
	}
	return strconv.FormatInt(n, 10)
}
