package commands

import (
	"context"
	"fishbot/internal/core/domain"
	"fishbot/internal/core/port"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

const embedFooter = "this embed is fish certified™"

// Pipeline steps reported to port.Metrics.
const (
	StepCover    = "cover"
	StepColor    = "color"
	StepBeatmap  = "beatmap"
	StepReport   = "report"
	StepMetadata = "metadata"
	StepSend     = "send"
)

// Stores groups the osu! data sources a pp lookup reads from.
type Stores struct {
	Images   port.ImageStore
	Beatmaps port.BeatmapStore
	Metadata port.MetadataStore
}

type PPHandler struct {
	stores   Stores
	colors   port.ColorExtractor
	reporter port.ScoreReporter
	sender   port.Sender
	metrics  port.Metrics
	command  string
	now      func() time.Time
}

func NewPPHandler(
	stores Stores,
	colors port.ColorExtractor,
	reporter port.ScoreReporter,
	sender port.Sender,
	metrics port.Metrics,
	command string,
) *PPHandler {
	return &PPHandler{
		stores:   stores,
		colors:   colors,
		reporter: reporter,
		sender:   sender,
		metrics:  metrics,
		command:  command,
		now:      time.Now,
	}
}

func (h *PPHandler) GetCommand() string {
	return h.command
}

func (h *PPHandler) GetDescription() string {
	return "<beatmap link> performs pp calculation on a given beatmap link."
}

func (h *PPHandler) Respond(ctx context.Context, timeout time.Duration, message *domain.Message) error {
	l := zerolog.Ctx(ctx)
	l.Info().Msg("handling request")

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	ids, err := domain.ParseIdentifiers(domain.FirstArg(message.Text))
	if err != nil {
		l.Debug().Err(err).Msg("invalid beatmap link")
		return notify(ctx, h.sender, err, message)
	}

	go h.sender.SendChatAction(ctx, message.ChatID, domain.SendingPhoto)

	var (
		color      domain.Color
		coverFound bool
		chart      []byte
	)

	g, gctx := errgroup.WithContext(ctx)

	// the colour branch never fails the group
	g.Go(func() error {
		color, coverFound = h.coverColor(gctx, ids.MapsetID)
		return nil
	})

	g.Go(func() error {
		start := time.Now()
		defer h.observe(StepBeatmap, start)

		data, err := h.stores.Beatmaps.Beatmap(gctx, ids.BeatmapID)
		if err != nil {
			return err
		}

		chart = data
		return nil
	})

	if err := g.Wait(); err != nil {
		l.Error().Err(err).Uint32("beatmapId", ids.BeatmapID).Msg("failed to fetch beatmap")
		return notify(ctx, h.sender, err, message)
	}

	start := time.Now()
	report, err := h.reporter.Report(chart)
	h.observe(StepReport, start)
	if err != nil {
		l.Error().Err(err).Uint32("beatmapId", ids.BeatmapID).Msg("failed to compute score report")
		return notify(ctx, h.sender, err, message)
	}

	start = time.Now()
	metadata, err := h.stores.Metadata.Metadata(ctx, ids.BeatmapID)
	h.observe(StepMetadata, start)
	if err != nil {
		l.Error().Err(err).Uint32("beatmapId", ids.BeatmapID).Msg("failed to fetch beatmap metadata")
		return notify(ctx, h.sender, err, message)
	}

	embed := domain.Embed{
		Title:       metadata.FullTitle(),
		Description: report.String(),
		Color:       color,
		Fields: []domain.Field{
			{Name: "AR", Value: formatStat(metadata.ApproachRate), Inline: true},
			{Name: "OD", Value: formatStat(metadata.OverallDifficulty), Inline: true},
			{Name: "CS", Value: formatStat(metadata.CircleSize), Inline: true},
			{Name: "HP", Value: formatStat(metadata.HPDrain), Inline: false},
		},
		Footer:    embedFooter,
		Timestamp: h.now(),
	}

	if coverFound {
		embed.ImageURL = h.stores.Images.CoverURL(ids.MapsetID)
	}

	replyCtx, cancelReply := replyContext(ctx)
	defer cancelReply()

	start = time.Now()
	err = h.sender.SendEmbedReply(replyCtx, message, embed)
	h.observe(StepSend, start)
	if err != nil {
		l.Error().Err(err).Msg(domain.ErrSendingReplyFailed)
		return h.sender.NotifyAndReturnError(replyCtx, err, message)
	}

	l.Info().
		Uint32("beatmapId", ids.BeatmapID).
		Int("pp95", report.PP95).
		Int("pp100", report.PP100).
		Msg("sent pp reply")

	return nil
}

// coverColor returns the dominant colour of the mapset cover, or
// domain.DefaultColor when the cover can't be fetched or decoded. found
// reports whether the cover itself could be downloaded.
func (h *PPHandler) coverColor(ctx context.Context, mapsetID uint32) (color domain.Color, found bool) {
	l := zerolog.Ctx(ctx)

	start := time.Now()
	cover, err := h.stores.Images.Cover(ctx, mapsetID)
	h.observe(StepCover, start)
	if err != nil {
		l.Warn().Err(err).Uint32("mapsetId", mapsetID).Msg("failed to fetch cover, using default colour")
		h.metrics.ColorFallback()
		return domain.DefaultColor, false
	}

	start = time.Now()
	color, err = h.colors.DominantColor(cover)
	h.observe(StepColor, start)
	if err != nil {
		l.Warn().Err(err).Uint32("mapsetId", mapsetID).Msg("failed to extract cover colour, using default colour")
		h.metrics.ColorFallback()
		return domain.DefaultColor, true
	}

	return color, true
}

func (h *PPHandler) observe(step string, start time.Time) {
	h.metrics.ObserveStep(step, time.Since(start))
}

func formatStat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
