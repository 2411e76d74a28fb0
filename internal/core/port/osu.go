package port

import (
	"context"
	"fishbot/internal/core/domain"
)

type ImageStore interface {
	// CoverURL returns the public URL of a mapset's cover image.
	CoverURL(mapsetID uint32) string
	// Cover downloads the cover image of a mapset.
	Cover(ctx context.Context, mapsetID uint32) ([]byte, error)
}

type BeatmapStore interface {
	// Beatmap downloads the raw .osu chart of a beatmap.
	Beatmap(ctx context.Context, beatmapID uint32) ([]byte, error)
}

type MetadataStore interface {
	// Metadata looks up artist, title, difficulty name and stats of a beatmap.
	Metadata(ctx context.Context, beatmapID uint32) (domain.BeatmapMetadata, error)
}

type ColorExtractor interface {
	// DominantColor decodes an image and returns its most prominent colour.
	DominantColor(image []byte) (domain.Color, error)
}

type PerformanceCalculator interface {
	// Attributes decodes a chart and computes its difficulty attributes.
	Attributes(beatmap []byte) (domain.DifficultyAttributes, error)
	// Performance returns the pp value of a play on a chart with the given attributes.
	Performance(attributes domain.DifficultyAttributes, play domain.Play) float64
}

type ScoreReporter interface {
	Report(beatmap []byte) (domain.ScoreReport, error)
}
