package port

import (
	"context"
	"fishbot/internal/core/domain"
)

type TextSender interface {
	// SendMessageReply sends a reply to a specified message with the given text and returns the sent message ID and
	// an error if any.
	SendMessageReply(ctx context.Context, message *domain.Message, text string) (int, error)
	// SendChatAction sends a specified chat action (e.g., typing, sending photo) to indicate activity in a given chat.
	SendChatAction(ctx context.Context, chatID int64, action domain.Action)
	// NotifyAndReturnError sends an error notification based on the provided message context and returns the error.
	NotifyAndReturnError(ctx context.Context, err error, message *domain.Message) error
}

type EmbedSender interface {
	// SendEmbedReply renders a rich reply for the target platform and sends it in response to the message.
	SendEmbedReply(ctx context.Context, message *domain.Message, embed domain.Embed) error
}

// Sender is a TextSender that can also send embeds.
type Sender interface {
	TextSender
	EmbedSender
}
