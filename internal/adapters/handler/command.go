package handler

import (
	"context"
	"errors"
	"fishbot/internal/core/domain"
	"fishbot/internal/core/port"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/gofrs/uuid/v5"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/panics"
	"github.com/sourcegraph/conc/pool"
)

const (
	DefaultMaxConcurrency = 16
	notifyTimeout         = 10 * time.Second
)

var ErrCommandPanicked = errors.New("something went wrong while handling this command")

type Authorizer interface {
	IsAuthorized(ctx context.Context, message *domain.Message) bool
}

type Notifier interface {
	NotifyAndReturnError(ctx context.Context, err error, message *domain.Message) error
}

type Command struct {
	commandRegistry port.CommandRegistry
	authorizer      Authorizer
	notifier        Notifier
	metrics         port.Metrics
	timeout         time.Duration
	workers         *pool.Pool
}

func NewCommand(
	commandRegistry port.CommandRegistry,
	authorizer Authorizer,
	notifier Notifier,
	metrics port.Metrics,
	timeout time.Duration,
	maxConcurrency int,
) *Command {
	if maxConcurrency <= 0 {
		maxConcurrency = DefaultMaxConcurrency
	}

	return &Command{
		commandRegistry: commandRegistry,
		authorizer:      authorizer,
		notifier:        notifier,
		metrics:         metrics,
		timeout:         timeout,
		workers:         pool.New().WithMaxGoroutines(maxConcurrency),
	}
}

// Handle is registered as a go-telegram/bot handler. Commands run on the worker
// pool; once maxConcurrency commands are running, Handle blocks until one of
// them finishes.
func (c *Command) Handle(ctx context.Context, _ *bot.Bot, update *models.Update) {
	if update == nil || update.Message == nil {
		return
	}

	message := toDomainMessage(update.Message)

	log.Debug().Str("message", message.Text).Msg("received command")

	cmd := domain.ParseCommand(message.Text)
	commandHandler, err := c.commandRegistry.Get(cmd)
	if err != nil {
		log.Debug().Str("command", cmd).Msg("no handler for command")
		return
	}

	if !c.authorizer.IsAuthorized(ctx, message) {
		log.Info().Int64("chatId", message.ChatID).Str("command", cmd).Msg("unauthorized chat")
		return
	}

	requestID, err := uuid.NewV4()
	if err != nil {
		log.Warn().Err(err).Msg("failed to generate request id")
	}

	logger := log.With().
		Str("requestId", requestID.String()).
		Int("messageId", message.ID).
		Int64("chatId", message.ChatID).
		Str("command", cmd).
		Logger()

	c.workers.Go(func() {
		var catcher panics.Catcher
		catcher.Try(func() {
			err := commandHandler.Respond(logger.WithContext(ctx), c.timeout, message)
			c.metrics.CommandHandled(cmd, err)
			if err != nil {
				logger.Err(err).Msg("failed to respond to command")
			}
		})

		if r := catcher.Recovered(); r != nil {
			c.metrics.CommandHandled(cmd, r.AsError())
			logger.Error().Err(r.AsError()).Str("stack", string(r.Stack)).Msg("command panicked")

			notifyCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
			defer cancel()
			_ = c.notifier.NotifyAndReturnError(notifyCtx, ErrCommandPanicked, message)
		}
	})
}

// Wait blocks until all running commands have finished.
func (c *Command) Wait() {
	c.workers.Wait()
}

func toDomainMessage(msg *models.Message) *domain.Message {
	return &domain.Message{
		ID:        msg.ID,
		ChatID:    msg.Chat.ID,
		Username:  getUserNameFromMessage(msg.From),
		Text:      msg.Text,
		Timestamp: time.Unix(int64(msg.Date), 0),
	}
}

func getUserNameFromMessage(user *models.User) string {
	if user == nil {
		return ""
	}

	if user.Username == "" {
		return user.FirstName
	}

	return "@" + user.Username
}
