package commands

import (
	"context"
	"fishbot/internal/core/domain"
	"fishbot/internal/core/port"
	"time"
)

// ReplyTimeout bounds a reply sent after the request context may have ended.
const ReplyTimeout = 10 * time.Second

// replyContext keeps the values of ctx but not its deadline, so a reply still
// goes out when the request timed out.
func replyContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), ReplyTimeout)
}

func notify(ctx context.Context, ts port.TextSender, err error, message *domain.Message) error {
	ctx, cancel := replyContext(ctx)
	defer cancel()

	return ts.NotifyAndReturnError(ctx, err, message)
}
