package osu

import (
	"context"
	"fishbot/internal/core/domain"
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog/log"
)

// API is a client for the osu! API v1.
type API struct {
	downloader downloader
	baseURL    string
	apiKey     string
}

func NewAPI(d downloader, baseURL, apiKey string) *API {
	return &API{downloader: d, baseURL: strings.TrimSuffix(baseURL, "/"), apiKey: apiKey}
}

// apiBeatmap mirrors the get_beatmaps response; v1 encodes every value as a string.
type apiBeatmap struct {
	BeatmapID        string `json:"beatmap_id"`
	BeatmapsetID     string `json:"beatmapset_id"`
	Artist           string `json:"artist"`
	Title            string `json:"title"`
	Version          string `json:"version"`
	Creator          string `json:"creator"`
	DiffApproach     string `json:"diff_approach"`
	DiffOverall      string `json:"diff_overall"`
	DiffSize         string `json:"diff_size"`
	DiffDrain        string `json:"diff_drain"`
	BPM              string `json:"bpm"`
	DifficultyRating string `json:"difficultyrating"`
	MaxCombo         string `json:"max_combo"`
}

func (a *API) Metadata(ctx context.Context, beatmapID uint32) (domain.BeatmapMetadata, error) {
	id := strconv.FormatUint(uint64(beatmapID), 10)

	query := url.Values{}
	query.Set("b", id)
	logURL := fmt.Sprintf("%s/get_beatmaps?%s", a.baseURL, query.Encode())
	query.Set("k", a.apiKey)
	requestURL := fmt.Sprintf("%s/get_beatmaps?%s", a.baseURL, query.Encode())

	body, err := a.downloader.Download(ctx, "beatmap metadata", requestURL, logURL)
	if err != nil {
		return domain.BeatmapMetadata{}, err
	}

	var result []apiBeatmap
	if err := json.Unmarshal(body, &result); err != nil {
		return domain.BeatmapMetadata{}, fmt.Errorf("error unmarshalling osu! API response: %w", err)
	}

	log.Debug().Int("results", len(result)).Str("beatmapId", id).Msg("osu! API response")

	if len(result) == 0 {
		return domain.BeatmapMetadata{}, fmt.Errorf("beatmap %d: %w", beatmapID, domain.ErrBeatmapNotFound)
	}

	return result[0].toDomain()
}

func (b apiBeatmap) toDomain() (domain.BeatmapMetadata, error) {
	p := &numberParser{}

	m := domain.BeatmapMetadata{
		BeatmapID:         uint32(p.uint("beatmap_id", b.BeatmapID)),
		MapsetID:          uint32(p.uint("beatmapset_id", b.BeatmapsetID)),
		Artist:            b.Artist,
		Title:             b.Title,
		Version:           b.Version,
		Creator:           b.Creator,
		ApproachRate:      p.float("diff_approach", b.DiffApproach),
		OverallDifficulty: p.float("diff_overall", b.DiffOverall),
		CircleSize:        p.float("diff_size", b.DiffSize),
		HPDrain:           p.float("diff_drain", b.DiffDrain),
		BPM:               p.float("bpm", b.BPM),
		Stars:             p.float("difficultyrating", b.DifficultyRating),
		MaxCombo:          int(p.uint("max_combo", b.MaxCombo)),
	}

	if p.err != nil {
		return domain.BeatmapMetadata{}, fmt.Errorf("error reading osu! API response: %w", p.err)
	}

	return m, nil
}

// numberParser keeps the first error; missing values (null in the API) read as zero.
type numberParser struct {
	err error
}

func (p *numberParser) float(name, value string) float64 {
	if value == "" || p.err != nil {
		return 0
	}

	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		p.err = fmt.Errorf("invalid %s: %w", name, err)
	}

	return v
}

func (p *numberParser) uint(name, value string) uint64 {
	if value == "" || p.err != nil {
		return 0
	}

	v, err := strconv.ParseUint(value, 10, 32)
	if err != nil {
		p.err = fmt.Errorf("invalid %s: %w", name, err)
	}

	return v
}
