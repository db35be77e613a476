package presentation

import (
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/grooveq/grooveq/internal/bot"
	"github.com/grooveq/grooveq/internal/modules/diag/application"
)

// StatusHandler handles the /ping command.
type StatusHandler struct {
	interactor *application.StatusInteractor
}

// NewStatusHandler creates a new StatusHandler.
func NewStatusHandler() *StatusHandler {
	return &StatusHandler{
		interactor: application.NewStatusInteractor(),
	}
}

// Handle processes the ping command and responds with a status summary.
func (h *StatusHandler) Handle(
	s *discordgo.Session,
	i *discordgo.InteractionCreate,
	r bot.Responder,
) error {
	var latency time.Duration
	if s != nil {
		latency = s.HeartbeatLatency()
	}

	report := h.interactor.Execute(latency)

	return r.Respond(&discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: report.Summary(),
		},
	})
}
