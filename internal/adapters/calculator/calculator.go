// Package calculator decodes osu!standard charts and rates them with a strain
// based difficulty model and the pp v2 formula.
package calculator

import (
	"fishbot/internal/core/domain"

	"github.com/rs/zerolog/log"
)

type Calculator struct{}

func New() *Calculator {
	return &Calculator{}
}

// Attributes decodes a .osu file. Undecodable input returns an error wrapping
// domain.ErrInvalidBeatmapData.
func (c *Calculator) Attributes(beatmap []byte) (domain.DifficultyAttributes, error) {
	parsed, err := parseChart(beatmap)
	if err != nil {
		log.Debug().Err(err).Int("bytes", len(beatmap)).Msg("failed to decode beatmap")
		return domain.DifficultyAttributes{}, wrapInvalid(err)
	}

	aim, speed := parsed.strains()

	attrs := domain.DifficultyAttributes{
		Aim:               aim,
		Speed:             speed,
		Stars:             starRating(aim, speed),
		ApproachRate:      parsed.approachRate,
		OverallDifficulty: parsed.overallDifficulty,
		CircleSize:        parsed.circleSize,
		HPDrain:           parsed.hpDrain,
		ObjectCount:       len(parsed.hitObjects),
		MaxCombo:          parsed.maxCombo(),
	}

	for _, h := range parsed.hitObjects {
		switch h.kind {
		case circle:
			attrs.Circles++
		case slider:
			attrs.Sliders++
		case spinner:
			attrs.Spinners++
		}
	}

	return attrs, nil
}

// Performance is deterministic and never decreases when only accuracy increases.
func (c *Calculator) Performance(attributes domain.DifficultyAttributes, play domain.Play) float64 {
	return performance(attributes, play)
}
