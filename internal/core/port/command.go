package port

import (
	"fishbot/internal/core/domain"
)

// Command is implemented by every command handler.
type Command = domain.CommandResponder

type CommandRegistry interface {
	// Register adds a new command handler to the command registry.
	Register(handler Command)
	// Get retrieves a registered Command based on its string identifier or returns an error if not found.
	Get(command string) (Command, error)
	// ListCommands returns a list of all command identifiers currently registered in the command registry.
	ListCommands() []string
}
