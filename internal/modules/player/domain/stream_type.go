package domain

// StreamType represents the kind of stream a queue item points at.
type StreamType int

const (
	StreamTypeNone  StreamType = iota // Default: unknown or not yet resolved
	StreamTypeAudio                   // Audio-only on-demand stream
	StreamTypeVideo                   // Video on-demand stream
	StreamTypeLive                    // Live video stream
	StreamTypeAudioLive               // Live audio-only stream
	StreamTypePostLive                // Recording of an ended live stream
)

// String returns a human-readable representation of the stream type.
func (t StreamType) String() string {
	switch t {
	case StreamTypeAudio:
		return "audio"
	case StreamTypeVideo:
		return "video"
	case StreamTypeLive:
		return "live"
	case StreamTypeAudioLive:
		return "audio-live"
	case StreamTypePostLive:
		return "post-live"
	default:
		return "none"
	}
}

// ParseStreamType converts a string to a StreamType.
// Unknown values map to StreamTypeNone.
func ParseStreamType(s string) StreamType {
	switch s {
	case "audio":
		return StreamTypeAudio
	case "video":
		return StreamTypeVideo
	case "live":
		return StreamTypeLive
	case "audio-live":
		return StreamTypeAudioLive
	case "post-live":
		return StreamTypePostLive
	default:
		return StreamTypeNone
	}
}

// IsLive returns true for the live stream kinds.
func (t StreamType) IsLive() bool {
	return t == StreamTypeLive || t == StreamTypeAudioLive
}
