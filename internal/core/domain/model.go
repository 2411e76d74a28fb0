package domain

import (
	"fmt"
	"time"
)

type Message struct {
	ID        int
	ChatID    int64
	Username  string
	Text      string
	Timestamp time.Time
}

type Action string

const (
	Typing       Action = "typing"
	SendingPhoto Action = "sending_photo"
)

// IdentifierPair holds the ids extracted from a beatmap link.
type IdentifierPair struct {
	MapsetID  uint32
	BeatmapID uint32
}

// ScoreReport is the pp summary of a beatmap for nomod full combos.
type ScoreReport struct {
	PP95     int
	PP100    int
	Stars    float64
	MaxCombo int
}

const scoreReportTemplate = `assuming nomod fc:
95%%: %dpp
100%%: %dpp
%.2f★ | %dx`

func (r ScoreReport) String() string {
	return fmt.Sprintf(scoreReportTemplate, r.PP95, r.PP100, r.Stars, r.MaxCombo)
}

type BeatmapMetadata struct {
	BeatmapID         uint32
	MapsetID          uint32
	Artist            string
	Title             string
	Version           string
	Creator           string
	ApproachRate      float64
	OverallDifficulty float64
	CircleSize        float64
	HPDrain           float64
	BPM               float64
	Stars             float64
	MaxCombo          int
}

// FullTitle formats the metadata as "artist - title [version]".
func (m BeatmapMetadata) FullTitle() string {
	return fmt.Sprintf("%s - %s\n[%s]", m.Artist, m.Title, m.Version)
}

type Color struct {
	R, G, B uint8
}

// DefaultColor is used whenever a cover colour can't be determined.
var DefaultColor = Color{}

func (c Color) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
}

type Field struct {
	Name   string
	Value  string
	Inline bool
}

// Embed is a rich reply: rendered by the sender for the target platform.
type Embed struct {
	Title       string
	Description string
	Color       Color
	Fields      []Field
	ImageURL    string
	Footer      string
	Timestamp   time.Time
}

// Play describes a hypothetical play on a beatmap.
type Play struct {
	Accuracy float64
	Combo    int
	Misses   int
}

// DifficultyAttributes are the values derived from a chart that pp is computed from.
type DifficultyAttributes struct {
	Aim   float64
	Speed float64
	Stars float64

	ApproachRate      float64
	OverallDifficulty float64
	CircleSize        float64
	HPDrain           float64

	Circles     int
	Sliders     int
	Spinners    int
	ObjectCount int
	MaxCombo    int
}
