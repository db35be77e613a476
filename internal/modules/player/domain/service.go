package domain

// Service identifies the platform a queue item was resolved from.
type Service int

const (
	ServiceUnknown Service = iota - 1
	ServiceYouTube
	ServiceSoundCloud
	ServiceBandcamp
	ServiceTwitch
	ServiceHTTP // Plain direct-link streams
)

// String returns the Lavalink source name for the service.
func (s Service) String() string {
	switch s {
	case ServiceYouTube:
		return "youtube"
	case ServiceSoundCloud:
		return "soundcloud"
	case ServiceBandcamp:
		return "bandcamp"
	case ServiceTwitch:
		return "twitch"
	case ServiceHTTP:
		return "http"
	default:
		return "unknown"
	}
}

// ParseService converts a Lavalink source name to a Service.
func ParseService(name string) Service {
	switch name {
	case "youtube":
		return ServiceYouTube
	case "soundcloud":
		return ServiceSoundCloud
	case "bandcamp":
		return ServiceBandcamp
	case "twitch":
		return ServiceTwitch
	case "http":
		return ServiceHTTP
	default:
		return ServiceUnknown
	}
}

// Color returns the embed accent color associated with the service.
func (s Service) Color() int {
	switch s {
	case ServiceYouTube:
		return 0xFF0000
	case ServiceSoundCloud:
		return 0xFF5500
	case ServiceBandcamp:
		return 0x629AA9
	case ServiceTwitch:
		return 0x9146FF
	default:
		return 0x5865F2
	}
}

// IconURL returns an icon for the service, or empty if there is none.
func (s Service) IconURL() string {
	switch s {
	case ServiceYouTube:
		return "https://www.youtube.com/s/desktop/6a8e6f6a/img/favicon_32x32.png"
	case ServiceSoundCloud:
		return "https://a-v2.sndcdn.com/assets/images/sc-icons/favicon-2cadd14bdb.ico"
	case ServiceTwitch:
		return "https://static.twitchcdn.net/assets/favicon-32-e29e246c157142c94346.png"
	default:
		return ""
	}
}
