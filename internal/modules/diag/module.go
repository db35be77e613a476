package diag

import (
	"github.com/bwmarrin/discordgo"
	"github.com/grooveq/grooveq/internal/bot"
	"github.com/grooveq/grooveq/internal/modules/diag/presentation"
)

func init() {
	bot.Register(&DiagModule{})
}

// DiagModule provides diagnostic commands like /ping.
type DiagModule struct {
	statusHandler *presentation.StatusHandler
}

// Name returns the module name.
func (m *DiagModule) Name() string {
	return "diag"
}

// Commands returns the slash commands for this module.
func (m *DiagModule) Commands() []*discordgo.ApplicationCommand {
	return []*discordgo.ApplicationCommand{
		{
			Name:        "ping",
			Description: "Checks bot responsiveness and gateway latency",
		},
	}
}

// CommandHandlers returns the command handlers for this module.
func (m *DiagModule) CommandHandlers() map[string]bot.InteractionHandler {
	return map[string]bot.InteractionHandler{
		"ping": m.statusHandler.Handle,
	}
}

// EventHandlers returns the event handlers for this module.
func (m *DiagModule) EventHandlers() []bot.EventHandler {
	return nil
}

// Init initializes the module.
func (m *DiagModule) Init(deps bot.ModuleDependencies) error {
	m.statusHandler = presentation.NewStatusHandler()
	return nil
}

// Shutdown cleans up module resources.
func (m *DiagModule) Shutdown() error {
	return nil
}
