package commands

import (
	"context"
	"fishbot/internal/core/domain"
	"fishbot/internal/core/port"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

const greeting = "Hi, I'm a fish, and definitely not a robot. Definitely."

type HiHandler struct {
	ts      port.TextSender
	command string
}

func NewHiHandler(ts port.TextSender, command string) *HiHandler {
	return &HiHandler{ts: ts, command: command}
}

func (h *HiHandler) GetCommand() string {
	return h.command
}

func (h *HiHandler) GetDescription() string {
	return "Say hi to the fish."
}

func (h *HiHandler) Respond(ctx context.Context, _ time.Duration, message *domain.Message) error {
	_, err := h.ts.SendMessageReply(ctx, message, greeting)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg(domain.ErrSendingReplyFailed)
		return err
	}

	return nil
}

// PingHandler reports the delay between the message timestamp and now.
type PingHandler struct {
	ts      port.TextSender
	command string
	now     func() time.Time
}

func NewPingHandler(ts port.TextSender, command string) *PingHandler {
	return &PingHandler{ts: ts, command: command, now: time.Now}
}

func (h *PingHandler) GetCommand() string {
	return h.command
}

func (h *PingHandler) GetDescription() string {
	return "Prints the latency between your message and the fish's response."
}

func (h *PingHandler) Respond(ctx context.Context, _ time.Duration, message *domain.Message) error {
	latency := max(h.now().Sub(message.Timestamp).Milliseconds(), 0)

	_, err := h.ts.SendMessageReply(ctx, message, fmt.Sprintf("fish. (%dms)", latency))
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg(domain.ErrSendingReplyFailed)
		return err
	}

	return nil
}

type HelpHandler struct {
	registry port.CommandRegistry
	ts       port.TextSender
	command  string
}

func NewHelpHandler(registry port.CommandRegistry, ts port.TextSender, command string) *HelpHandler {
	return &HelpHandler{registry: registry, ts: ts, command: command}
}

func (h *HelpHandler) GetCommand() string {
	return h.command
}

func (h *HelpHandler) GetDescription() string {
	return "Sends the message you're currently reading."
}

func (h *HelpHandler) Respond(ctx context.Context, _ time.Duration, message *domain.Message) error {
	sb := &strings.Builder{}

	for _, name := range h.registry.ListCommands() {
		cmd, err := h.registry.Get(name)
		if err != nil {
			continue
		}

		fmt.Fprintf(sb, "%s - %s\n", name, cmd.GetDescription())
	}

	_, err := h.ts.SendMessageReply(ctx, message, strings.TrimSuffix(sb.String(), "\n"))
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg(domain.ErrSendingReplyFailed)
		return fmt.Errorf("failed to send message: %w", err)
	}

	return nil
}
