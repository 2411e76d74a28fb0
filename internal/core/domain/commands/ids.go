package commands

import (
	"context"
	"fishbot/internal/core/domain"
	"fishbot/internal/core/port"
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

type IDsHandler struct {
	metadata port.MetadataStore
	ts       port.TextSender
	command  string
}

func NewIDsHandler(metadata port.MetadataStore, ts port.TextSender, command string) *IDsHandler {
	return &IDsHandler{metadata: metadata, ts: ts, command: command}
}

func (h *IDsHandler) GetCommand() string {
	return h.command
}

func (h *IDsHandler) GetDescription() string {
	return "<beatmap link> prints the mapset and beatmap ids of a link."
}

func (h *IDsHandler) Respond(ctx context.Context, timeout time.Duration, message *domain.Message) error {
	l := zerolog.Ctx(ctx)

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ids, err := domain.ParseIdentifiers(domain.FirstArg(message.Text))
	if err != nil {
		return notify(ctx, h.ts, err, message)
	}

	metadata, err := h.metadata.Metadata(ctx, ids.BeatmapID)
	if err != nil {
		l.Error().Err(err).Uint32("beatmapId", ids.BeatmapID).Msg("failed to fetch beatmap metadata")
		return notify(ctx, h.ts, err, message)
	}

	reply := fmt.Sprintf("mapset id: %d\nbeatmap id: %d\n%s", ids.MapsetID, ids.BeatmapID, metadata.FullTitle())

	replyCtx, cancelReply := replyContext(ctx)
	defer cancelReply()

	_, err = h.ts.SendMessageReply(replyCtx, message, reply)
	if err != nil {
		l.Error().Err(err).Msg(domain.ErrSendingReplyFailed)
		return err
	}

	return nil
}
