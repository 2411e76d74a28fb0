package domain

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

type CommandResponder interface {
	Respond(ctx context.Context, timeout time.Duration, message *Message) error
	GetCommand() string
	GetDescription() string
}

var (
	ErrRegistryNotInitialized = errors.New("can't fetch command, registry not initialized")
	ErrCommandNotFound        = errors.New("command not found")
)

type CommandRegistry struct {
	commands map[string]CommandResponder
}

func (c *CommandRegistry) Register(handler CommandResponder) {
	if c.commands == nil {
		c.commands = make(map[string]CommandResponder)
	}

	log.Info().Str("handler", handler.GetCommand()).Msg("adding command handler to registry")
	c.commands[handler.GetCommand()] = handler
}

func (c *CommandRegistry) Get(command string) (CommandResponder, error) {
	log.Debug().Str("command", command).Msg("fetching command handler from registry")

	if c.commands == nil {
		return nil, ErrRegistryNotInitialized
	}

	handler, ok := c.commands[command]
	if !ok {
		return nil, ErrCommandNotFound
	}

	return handler, nil
}

// ListCommands returns the registered command identifiers in lexical order.
func (c *CommandRegistry) ListCommands() []string {
	keys := make([]string, 0, len(c.commands))
	for k := range c.commands {
		keys = append(keys, k)
	}

	slices.Sort(keys)

	return keys
}

func ParseCommandArgs(args string) string {
	command := strings.Split(args, " ")
	return strings.TrimSpace(strings.Join(command[1:], " "))
}

// ParseCommand returns the first word of a message. A trailing @botname, as
// sent by Telegram in group chats, is dropped. Matching is case-sensitive.
func ParseCommand(args string) string {
	command := strings.Split(args, " ")
	name, _, _ := strings.Cut(command[0], "@")

	return name
}

// FirstArg returns the first whitespace separated argument after the command.
func FirstArg(args string) string {
	fields := strings.Fields(ParseCommandArgs(args))
	if len(fields) == 0 {
		return ""
	}

	return fields[0]
}
