package sender

import (
	"context"
	"fishbot/internal/core/domain"
	"fmt"
	"html"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/rs/zerolog/log"
)

//go:generate mockery --name TelegramBot

// TelegramBot is the part of *bot.Bot used for replies.
type TelegramBot interface {
	SendMessage(ctx context.Context, params *bot.SendMessageParams) (*models.Message, error)
	SendPhoto(ctx context.Context, params *bot.SendPhotoParams) (*models.Message, error)
	SendChatAction(ctx context.Context, params *bot.SendChatActionParams) (bool, error)
}

const (
	TelegramMessageLimit    = 4096
	TelegramCaptionLimit    = 1024
	ChatActionRepeatSeconds = 5
)

type Telegram struct {
	bot            TelegramBot
	actionInterval time.Duration
}

func NewTelegram(bot TelegramBot) *Telegram {
	return &Telegram{bot: bot, actionInterval: ChatActionRepeatSeconds * time.Second}
}

func replyTo(message *domain.Message) *models.ReplyParameters {
	return &models.ReplyParameters{
		MessageID:                message.ID,
		ChatID:                   message.ChatID,
		AllowSendingWithoutReply: true,
	}
}

// SendMessageReply sends text as plain text, split into chunks Telegram accepts.
// It returns the ID of the last sent message.
func (s *Telegram) SendMessageReply(ctx context.Context, message *domain.Message, text string) (int, error) {
	var sentID int

	for _, chunk := range splitText(text, TelegramMessageLimit) {
		sent, err := s.bot.SendMessage(ctx, &bot.SendMessageParams{
			ChatID:          message.ChatID,
			Text:            chunk,
			ReplyParameters: replyTo(message),
		})
		if err != nil {
			return sentID, fmt.Errorf("failed to send message: %w", err)
		}

		if sent != nil {
			sentID = sent.ID
		}
	}

	return sentID, nil
}

// SendEmbedReply renders the embed as an HTML photo caption, or as an HTML
// message when there is no image, the caption is too long or Telegram rejects
// the photo.
func (s *Telegram) SendEmbedReply(ctx context.Context, message *domain.Message, embed domain.Embed) error {
	text := RenderEmbed(embed)

	if embed.ImageURL != "" && utf8.RuneCountInString(text) <= TelegramCaptionLimit {
		_, err := s.bot.SendPhoto(ctx, &bot.SendPhotoParams{
			ChatID:          message.ChatID,
			Photo:           &models.InputFileString{Data: embed.ImageURL},
			Caption:         text,
			ParseMode:       models.ParseModeHTML,
			ReplyParameters: replyTo(message),
		})
		if err == nil {
			return nil
		}

		log.Warn().Err(err).Str("imageURL", embed.ImageURL).Msg("failed to send photo response, sending text")
	}

	_, err := s.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:          message.ChatID,
		Text:            truncate(text, TelegramMessageLimit),
		ParseMode:       models.ParseModeHTML,
		ReplyParameters: replyTo(message),
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to send embed response")
		return fmt.Errorf("failed to send embed: %w", err)
	}

	return nil
}

// NotifyAndReturnError replies with a single message describing err and
// returns err. Long descriptions are truncated.
func (s *Telegram) NotifyAndReturnError(ctx context.Context, err error, message *domain.Message) error {
	_, sendErr := s.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:          message.ChatID,
		Text:            truncate(fmt.Sprintf("error: %s", err), TelegramMessageLimit),
		ReplyParameters: replyTo(message),
	})
	if sendErr != nil {
		log.Error().Err(sendErr).Int64("chatId", message.ChatID).Msg(domain.ErrSendingReplyFailed)
		return fmt.Errorf("%w (notification failed: %w)", err, sendErr)
	}

	return err
}

func (s *Telegram) SendChatAction(ctx context.Context, chatID int64, action domain.Action) {
	var chatAction models.ChatAction
	switch action {
	case domain.SendingPhoto:
		chatAction = models.ChatActionUploadPhoto
	default:
		chatAction = models.ChatActionTyping
	}

	log.Debug().Int64("chatID", chatID).Msg("starting action routine")

	ticker := time.NewTicker(s.actionInterval)
	defer ticker.Stop()

	for {
		log.Debug().Int64("chatID", chatID).Msg("transmitting action")
		_, err := s.bot.SendChatAction(ctx, &bot.SendChatActionParams{
			ChatID: chatID,
			Action: chatAction,
		})
		if err != nil {
			if ctx.Err() == nil {
				log.Err(err).Msg("error sending chat action")
			}
			return
		}

		select {
		case <-ctx.Done():
			log.Debug().Int64("chatID", chatID).Msg("done, stopping action routine")
			return
		case <-ticker.C:
		}
	}
}

// RenderEmbed formats an embed as Telegram HTML. Inline fields share a line.
func RenderEmbed(embed domain.Embed) string {
	sb := &strings.Builder{}

	if embed.Title != "" {
		fmt.Fprintf(sb, "<b>%s</b>\n\n", html.EscapeString(embed.Title))
	}

	if embed.Description != "" {
		fmt.Fprintf(sb, "%s\n\n", html.EscapeString(embed.Description))
	}

	var line []string
	flush := func() {
		if len(line) > 0 {
			sb.WriteString(strings.Join(line, " | "))
			sb.WriteString("\n")
			line = nil
		}
	}

	for _, field := range embed.Fields {
		line = append(line, fmt.Sprintf("<b>%s</b>: %s", html.EscapeString(field.Name), html.EscapeString(field.Value)))
		if !field.Inline {
			flush()
		}
	}
	flush()

	footer := []string{fmt.Sprintf("<code>%s</code>", embed.Color.Hex())}
	if embed.Footer != "" {
		footer = append(footer, html.EscapeString(embed.Footer))
	}
	if !embed.Timestamp.IsZero() {
		footer = append(footer, embed.Timestamp.UTC().Format("2006-01-02 15:04 UTC"))
	}
	fmt.Fprintf(sb, "\n<i>%s</i>", strings.Join(footer, " · "))

	return strings.TrimLeft(sb.String(), "\n")
}

// truncate cuts text to at most limit runes, marking the cut with an ellipsis.
func truncate(text string, limit int) string {
	if utf8.RuneCountInString(text) <= limit {
		return text
	}

	return string([]rune(text)[:limit-1]) + "…"
}

// splitText cuts text into chunks of at most limit runes, preferring line breaks.
func splitText(text string, limit int) []string {
	if utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}

	var chunks []string
	runes := []rune(text)
	for len(runes) > limit {
		cut := limit
		for i := limit; i > limit/2; i-- {
			if runes[i-1] == '\n' {
				cut = i
				break
			}
		}
		chunks = append(chunks, string(runes[:cut]))
		runes = runes[cut:]
	}

	if len(runes) > 0 {
		chunks = append(chunks, string(runes))
	}

	return chunks
}
