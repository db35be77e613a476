package presentation

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/disgoorg/snowflake/v2"

	"github.com/grooveq/grooveq/internal/bot"
	"github.com/grooveq/grooveq/internal/modules/player/application/usecases"
	"github.com/grooveq/grooveq/internal/modules/player/domain"
)

// Embed colors.
const (
	colorSuccess = 0x08c404
	colorError   = 0xE74C3C
)

// Handlers holds all the command handlers.
type Handlers struct {
	voiceChannel *usecases.VoiceChannelService
	playback     *usecases.PlaybackService
	queue        *usecases.QueueService
	trackLoader  *usecases.TrackLoaderService
}

// NewHandlers creates new Handlers.
func NewHandlers(
	voiceChannel *usecases.VoiceChannelService,
	playback *usecases.PlaybackService,
	queue *usecases.QueueService,
	trackLoader *usecases.TrackLoaderService,
) *Handlers {
	return &Handlers{
		voiceChannel: voiceChannel,
		playback:     playback,
		queue:        queue,
		trackLoader:  trackLoader,
	}
}

// HandleJoin handles the /join command.
func (h *Handlers) HandleJoin(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return respondError(r, "Invalid guild")
	}

	userID, err := snowflake.Parse(i.Member.User.ID)
	if err != nil {
		return respondError(r, "Invalid user")
	}

	notificationChannelID, err := snowflake.Parse(i.ChannelID)
	if err != nil {
		return respondError(r, "Invalid channel")
	}

	var voiceChannelID snowflake.ID
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "channel" {
			voiceChannelID, _ = snowflake.Parse(opt.ChannelValue(s).ID)
		}
	}

	output, err := h.voiceChannel.Join(context.Background(), usecases.JoinInput{
		GuildID:               guildID,
		UserID:                userID,
		NotificationChannelID: notificationChannelID,
		VoiceChannelID:        voiceChannelID,
	})
	if err != nil {
		return respondError(r, err.Error())
	}

	return respondJoined(r, output.VoiceChannelID, output.RestoredItems)
}

// HandleLeave handles the /leave command.
func (h *Handlers) HandleLeave(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return respondError(r, "Invalid guild")
	}

	if err := h.voiceChannel.Leave(context.Background(), usecases.LeaveInput{
		GuildID: guildID,
	}); err != nil {
		return respondError(r, err.Error())
	}

	return respondDisconnected(r)
}

// HandlePlay handles the /play command.
func (h *Handlers) HandlePlay(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	ctx := context.Background()

	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return respondError(r, "Invalid guild")
	}

	userID, err := snowflake.Parse(i.Member.User.ID)
	if err != nil {
		return respondError(r, "Invalid user")
	}

	notificationChannelID, err := snowflake.Parse(i.ChannelID)
	if err != nil {
		return respondError(r, "Invalid channel")
	}

	var query string
	var playNext bool
	for _, opt := range i.ApplicationCommandData().Options {
		switch opt.Name {
		case "query":
			query = opt.StringValue()
		case "next":
			playNext = opt.BoolValue()
		}
	}

	// Join the voice channel first (no-op refresh if already connected)
	_, err = h.voiceChannel.Join(ctx, usecases.JoinInput{
		GuildID:               guildID,
		UserID:                userID,
		NotificationChannelID: notificationChannelID,
	})
	if err != nil {
		return respondError(r, err.Error())
	}

	loadOutput, err := h.trackLoader.LoadItems(ctx, usecases.LoadInput{Query: query})
	if err != nil {
		return respondError(r, err.Error())
	}

	// Playback starts automatically through the enqueue event when idle
	_, err = h.queue.Add(ctx, usecases.AddInput{
		GuildID:  guildID,
		Items:    loadOutput.Items,
		PlayNext: playNext,
	})
	if err != nil {
		return respondError(r, err.Error())
	}

	if loadOutput.PlaylistName != "" {
		return respondPlaylistAdded(r, loadOutput.PlaylistName, len(loadOutput.Items))
	}
	return respondItemAdded(r, loadOutput.Items[0])
}

// HandleStop handles the /stop command.
func (h *Handlers) HandleStop(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return respondError(r, "Invalid guild")
	}

	if err := h.playback.Stop(context.Background(), usecases.StopInput{
		GuildID: guildID,
	}); err != nil {
		return respondError(r, err.Error())
	}

	return respondStopped(r)
}

// HandlePause handles the /pause command.
func (h *Handlers) HandlePause(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return respondError(r, "Invalid guild")
	}

	if err := h.playback.Pause(context.Background(), usecases.PauseInput{
		GuildID: guildID,
	}); err != nil {
		return respondError(r, err.Error())
	}

	return respondPaused(r)
}

// HandleResume handles the /resume command.
func (h *Handlers) HandleResume(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return respondError(r, "Invalid guild")
	}

	if err := h.playback.Resume(context.Background(), usecases.ResumeInput{
		GuildID: guildID,
	}); err != nil {
		return respondError(r, err.Error())
	}

	return respondResumed(r)
}

// HandleSkip handles the /skip command.
func (h *Handlers) HandleSkip(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return respondError(r, "Invalid guild")
	}

	output, err := h.playback.Skip(context.Background(), usecases.SkipInput{
		GuildID: guildID,
	})
	if err != nil {
		return respondError(r, err.Error())
	}

	return respondSkipped(r, output.Skipped, output.Next)
}

// HandleBack handles the /back command.
func (h *Handlers) HandleBack(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return respondError(r, "Invalid guild")
	}

	output, err := h.playback.Back(context.Background(), usecases.BackInput{
		GuildID: guildID,
	})
	if err != nil {
		return respondError(r, err.Error())
	}

	return respondNowAt(r, output.Current, output.Index)
}

// HandleJump handles the /jump command.
func (h *Handlers) HandleJump(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return respondError(r, "Invalid guild")
	}

	var position int
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "position" {
			position = int(opt.IntValue())
		}
	}

	output, err := h.playback.Jump(context.Background(), usecases.JumpInput{
		GuildID: guildID,
		Index:   position - 1, // display positions are 1-indexed
	})
	if err != nil {
		return respondError(r, err.Error())
	}

	return respondNowAt(r, output.Current, output.Index)
}

// HandleShuffle handles the /shuffle command.
func (h *Handlers) HandleShuffle(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return respondError(r, "Invalid guild")
	}

	var mode usecases.ShuffleMode
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "mode" {
			mode = usecases.ShuffleMode(opt.StringValue())
		}
	}

	output, err := h.queue.Shuffle(usecases.ShuffleInput{
		GuildID: guildID,
		Mode:    mode,
	})
	if err != nil {
		return respondError(r, err.Error())
	}

	return respondShuffleChanged(r, output)
}

// HandleRepeat handles the /repeat command.
func (h *Handlers) HandleRepeat(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return respondError(r, "Invalid guild")
	}

	var mode usecases.RepeatMode
	for _, opt := range i.ApplicationCommandData().Options {
		if opt.Name == "mode" {
			mode = usecases.RepeatMode(opt.StringValue())
		}
	}

	output, err := h.queue.Repeat(usecases.RepeatInput{
		GuildID: guildID,
		Mode:    mode,
	})
	if err != nil {
		return respondError(r, err.Error())
	}

	return respondRepeatChanged(r, output.Enabled)
}

// HandleQueue handles the /queue command.
func (h *Handlers) HandleQueue(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	options := i.ApplicationCommandData().Options
	if len(options) == 0 {
		return respondError(r, "Invalid subcommand")
	}

	subCmd := options[0]
	switch subCmd.Name {
	case "list":
		return h.handleQueueList(s, i, r, subCmd.Options)
	case "remove":
		return h.handleQueueRemove(s, i, r, subCmd.Options)
	case "move":
		return h.handleQueueMove(s, i, r, subCmd.Options)
	case "clear":
		return h.handleQueueClear(s, i, r)
	default:
		return respondError(r, "Unknown subcommand")
	}
}

func (h *Handlers) handleQueueList(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
	options []*discordgo.ApplicationCommandInteractionDataOption,
) error {
	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return respondError(r, "Invalid guild")
	}

	var page int
	for _, opt := range options {
		if opt.Name == "page" {
			page = int(opt.IntValue())
		}
	}

	output, err := h.queue.List(usecases.ListInput{
		GuildID: guildID,
		Page:    page,
	})
	if err != nil {
		return respondError(r, err.Error())
	}

	return respondQueueList(r, output)
}

func (h *Handlers) handleQueueRemove(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
	options []*discordgo.ApplicationCommandInteractionDataOption,
) error {
	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return respondError(r, "Invalid guild")
	}

	var position int
	for _, opt := range options {
		if opt.Name == "position" {
			position = int(opt.IntValue())
		}
	}

	output, err := h.queue.Remove(usecases.RemoveInput{
		GuildID: guildID,
		Index:   position - 1,
	})
	if err != nil {
		// Removing the playing item means skipping it
		if errors.Is(err, usecases.ErrIsCurrentItem) {
			skipOutput, skipErr := h.playback.Skip(context.Background(), usecases.SkipInput{
				GuildID: guildID,
			})
			if skipErr != nil {
				return respondError(r, skipErr.Error())
			}
			return respondSkipped(r, skipOutput.Skipped, skipOutput.Next)
		}
		return respondError(r, err.Error())
	}

	return respondQueueRemoved(r, output.Removed)
}

func (h *Handlers) handleQueueMove(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
	options []*discordgo.ApplicationCommandInteractionDataOption,
) error {
	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return respondError(r, "Invalid guild")
	}

	var from, to int
	for _, opt := range options {
		switch opt.Name {
		case "from":
			from = int(opt.IntValue())
		case "to":
			to = int(opt.IntValue())
		}
	}

	output, err := h.queue.Move(usecases.MoveInput{
		GuildID: guildID,
		From:    from - 1,
		To:      to - 1,
	})
	if err != nil {
		return respondError(r, err.Error())
	}

	return respondQueueMoved(r, output.Moved, to)
}

func (h *Handlers) handleQueueClear(
	_ *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	guildID, err := snowflake.Parse(i.GuildID)
	if err != nil {
		return respondError(r, "Invalid guild")
	}

	output, err := h.queue.Clear(usecases.ClearInput{
		GuildID: guildID,
	})
	if err != nil {
		return respondError(r, err.Error())
	}

	return respondQueueCleared(r, output.ClearedCount)
}

// Response helpers.

func respondEmbed(r bot.Responder, embed *discordgo.MessageEmbed) error {
	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
		},
	})
}

func respondError(r bot.Responder, message string) error {
	return respondEmbed(r, &discordgo.MessageEmbed{
		Title:       "Error",
		Description: message,
		Color:       colorError,
	})
}

func respondJoined(r bot.Responder, voiceChannelID snowflake.ID, restoredItems int) error {
	description := fmt.Sprintf("Connected to <#%d>.", voiceChannelID)
	if restoredItems > 0 {
		description += fmt.Sprintf(" Restored %d queued tracks.", restoredItems)
	}
	return respondEmbed(r, &discordgo.MessageEmbed{
		Description: description,
		Color:       colorSuccess,
	})
}

func respondDisconnected(r bot.Responder) error {
	return respondEmbed(r, &discordgo.MessageEmbed{
		Description: "Disconnected.",
		Color:       colorSuccess,
	})
}

func respondStopped(r bot.Responder) error {
	return respondEmbed(r, &discordgo.MessageEmbed{
		Description: "Stopped playback.",
		Color:       colorSuccess,
	})
}

func respondPaused(r bot.Responder) error {
	return respondEmbed(r, &discordgo.MessageEmbed{
		Description: "Paused playback.",
		Color:       colorSuccess,
	})
}

func respondResumed(r bot.Responder) error {
	return respondEmbed(r, &discordgo.MessageEmbed{
		Description: "Resumed playback.",
		Color:       colorSuccess,
	})
}

func respondSkipped(r bot.Responder, skipped domain.QueueItem, next *domain.QueueItem) error {
	description := fmt.Sprintf("Skipped %s.", itemLink(skipped))
	if next == nil {
		description += " The queue has ended."
	}
	return respondEmbed(r, &discordgo.MessageEmbed{
		Description: description,
		Color:       colorSuccess,
	})
}

func respondNowAt(r bot.Responder, item domain.QueueItem, index int) error {
	return respondEmbed(r, &discordgo.MessageEmbed{
		Description: fmt.Sprintf("Now at %d: %s.", index+1, itemLink(item)),
		Color:       colorSuccess,
	})
}

func respondItemAdded(r bot.Responder, item domain.QueueItem) error {
	return respondEmbed(r, &discordgo.MessageEmbed{
		Description: fmt.Sprintf("Added %s to the queue.", itemLink(item)),
		Color:       colorSuccess,
	})
}

func respondPlaylistAdded(r bot.Responder, name string, count int) error {
	return respondEmbed(r, &discordgo.MessageEmbed{
		Description: fmt.Sprintf("Added **%s** (%d tracks) to the queue.", name, count),
		Color:       colorSuccess,
	})
}

func respondQueueRemoved(r bot.Responder, item domain.QueueItem) error {
	return respondEmbed(r, &discordgo.MessageEmbed{
		Description: fmt.Sprintf("Removed %s.", itemLink(item)),
		Color:       colorSuccess,
	})
}

func respondQueueMoved(r bot.Responder, item domain.QueueItem, position int) error {
	return respondEmbed(r, &discordgo.MessageEmbed{
		Description: fmt.Sprintf("Moved %s to position %d.", itemLink(item), position),
		Color:       colorSuccess,
	})
}

func respondQueueCleared(r bot.Responder, count int) error {
	return respondEmbed(r, &discordgo.MessageEmbed{
		Description: fmt.Sprintf("Cleared %d tracks from the queue.", count),
		Color:       colorSuccess,
	})
}

func respondShuffleChanged(r bot.Responder, output *usecases.ShuffleOutput) error {
	var description string
	switch {
	case output.Reshuffled:
		description = "Reordered the queue. The current track keeps playing."
	case output.Enabled:
		description = "Shuffle enabled."
	default:
		description = "Shuffle disabled."
	}
	return respondEmbed(r, &discordgo.MessageEmbed{
		Description: description,
		Color:       colorSuccess,
	})
}

func respondRepeatChanged(r bot.Responder, enabled bool) error {
	description := "Repeat disabled."
	if enabled {
		description = "Repeat enabled."
	}
	return respondEmbed(r, &discordgo.MessageEmbed{
		Description: description,
		Color:       colorSuccess,
	})
}

func respondQueueList(r bot.Responder, output *usecases.ListOutput) error {
	title := "Queue"
	switch {
	case output.Shuffle && output.Repeat:
		title = "Queue \U0001F500\U0001F501" // shuffle + repeat
	case output.Shuffle:
		title = "Queue \U0001F500" // shuffle
	case output.Repeat:
		title = "Queue \U0001F501" // repeat
	}

	embed := &discordgo.MessageEmbed{
		Title: title,
	}

	if output.TotalItems == 0 {
		embed.Description = "Queue is empty."
		embed.Footer = &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Page %d/%d", output.CurrentPage, output.TotalPages),
		}
		return respondEmbed(r, embed)
	}

	var sb strings.Builder
	needPlayedHeader := true
	needUpNextHeader := true

	for idx, item := range output.Items {
		absIndex := output.StartIndex + idx
		displayIndex := absIndex + 1

		switch {
		case absIndex < output.Index:
			if needPlayedHeader {
				sb.WriteString("### Played\n")
				needPlayedHeader = false
			}
		case absIndex == output.Index:
			sb.WriteString("### Now Playing\n")
		default:
			if needUpNextHeader {
				sb.WriteString("### Up Next\n")
				needUpNextHeader = false
			}
		}

		// Escape the period so Discord does not render a markdown list
		fmt.Fprintf(
			&sb,
			"%d\\. %s - %s\n",
			displayIndex,
			itemLink(item),
			item.Uploader,
		)
	}

	embed.Description = sb.String()
	embed.Footer = &discordgo.MessageEmbedFooter{
		Text: fmt.Sprintf("Page %d/%d", output.CurrentPage, output.TotalPages),
	}

	return respondEmbed(r, embed)
}

func itemLink(item domain.QueueItem) string {
	if item.URL != "" {
		return fmt.Sprintf("[%s](%s)", item.Title, item.URL)
	}
	return fmt.Sprintf("**%s**", item.Title)
}
