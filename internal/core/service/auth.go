package service

import (
	"context"
	"fishbot/internal/core/domain"
	"fishbot/internal/core/port"
	"fmt"
	"slices"

	"github.com/rs/zerolog/log"
)

type Authorizer interface {
	IsAuthorized(ctx context.Context, message *domain.Message) bool
}

// ChatAuthorizer restricts the bot to a list of chats. An empty list allows every chat.
type ChatAuthorizer struct {
	allowlist     []int64
	adminUsername string
	sender        port.TextSender
}

func NewAuthorizer(allowlist []int64, adminUsername string, sender port.TextSender) *ChatAuthorizer {
	return &ChatAuthorizer{
		allowlist:     allowlist,
		adminUsername: adminUsername,
		sender:        sender,
	}
}

const forbidden = "You are not authorized to use this bot. Please contact @%s with this ID to get access: %d"

func (a *ChatAuthorizer) IsAuthorized(ctx context.Context, message *domain.Message) bool {
	if len(a.allowlist) == 0 || slices.Contains(a.allowlist, message.ChatID) {
		return true
	}

	_, err := a.sender.SendMessageReply(ctx, message, fmt.Sprintf(forbidden, a.adminUsername, message.ChatID))
	if err != nil {
		log.Err(err).Msg("failed to send unauthorized warning")
	}

	return false
}
