package infrastructure

import (
	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"

	"github.com/grooveq/grooveq/internal/modules/player/application/ports"
	"github.com/grooveq/grooveq/internal/modules/player/domain"
)

// Embed colors.
const (
	colorRed = 0xE74C3C
)

// Notifier sends notifications to Discord channels.
type Notifier struct {
	session *discordgo.Session
}

// NewNotifier creates a new Notifier.
func NewNotifier(session *discordgo.Session) *Notifier {
	return &Notifier{
		session: session,
	}
}

// SendNowPlaying sends a "Now Playing" embed to the channel.
func (n *Notifier) SendNowPlaying(channelID snowflake.ID, item domain.QueueItem) error {
	embed := &discordgo.MessageEmbed{
		Author: &discordgo.MessageEmbedAuthor{
			Name:    "Now Playing",
			IconURL: item.Service.IconURL(),
		},
		Title: item.Title,
		URL:   item.URL,
		Color: item.Service.Color(),
	}

	if item.Uploader != "" {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "Uploader",
			Value:  item.Uploader,
			Inline: true,
		})
	}

	// Live streams have no meaningful duration
	if !item.StreamType.IsLive() && item.Duration > 0 {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:   "Duration",
			Value:  item.FormattedDuration(),
			Inline: true,
		})
	}

	if thumbnail := item.Thumbnail(); thumbnail != "" {
		embed.Image = &discordgo.MessageEmbedImage{
			URL: thumbnail,
		}
	}

	_, err := n.session.ChannelMessageSendEmbed(channelID.String(), embed)
	return err
}

// SendError sends an error message embed to the channel.
func (n *Notifier) SendError(channelID snowflake.ID, message string) error {
	embed := &discordgo.MessageEmbed{
		Description: message,
		Color:       colorRed,
	}

	_, err := n.session.ChannelMessageSendEmbed(channelID.String(), embed)
	return err
}

// Ensure Notifier implements ports.NotificationSender.
var _ ports.NotificationSender = (*Notifier)(nil)
