package calculator

import (
	"bufio"
	"bytes"
	"errors"
	"fishbot/internal/core/domain"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

const (
	formatHeader = "osu file format v"
	modeStandard = 0

	typeCircle  = 1
	typeSlider  = 1 << 1
	typeSpinner = 1 << 3

	maxLineSize = 1024 * 1024
)

var ErrUnsupportedMode = errors.New("only osu!standard beatmaps are supported")

type objectKind int

const (
	circle objectKind = iota
	slider
	spinner
)

type hitObject struct {
	kind       objectKind
	x, y       float64
	endX, endY float64
	time       float64
	slides     int
	length     float64
}

type timingPoint struct {
	time        float64
	beatLength  float64
	uninherited bool
}

type chart struct {
	version int
	mode    int

	hpDrain           float64
	circleSize        float64
	overallDifficulty float64
	approachRate      float64
	sliderMultiplier  float64
	sliderTickRate    float64

	timingPoints []timingPoint
	hitObjects   []hitObject
}

func newChart() *chart {
	return &chart{
		hpDrain:           5,
		circleSize:        5,
		overallDifficulty: 5,
		approachRate:      -1,
		sliderMultiplier:  1.4,
		sliderTickRate:    1,
	}
}

// parseChart decodes the sections of a .osu file needed for difficulty calculation.
func parseChart(data []byte) (*chart, error) {
	c := newChart()

	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	headerSeen := false
	section := ""
	lineNumber := 0

	for scanner.Scan() {
		lineNumber++
		line := strings.TrimSpace(strings.TrimPrefix(scanner.Text(), "\uFEFF"))
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}

		if !headerSeen {
			if !strings.HasPrefix(line, formatHeader) {
				return nil, errors.New("missing file format header")
			}
			version, err := strconv.Atoi(strings.TrimPrefix(line, formatHeader))
			if err != nil {
				return nil, fmt.Errorf("invalid file format version: %w", err)
			}
			c.version = version
			headerSeen = true
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = strings.Trim(line, "[]")
			if section == "HitObjects" && c.mode != modeStandard {
				return nil, fmt.Errorf("%w: mode %d", ErrUnsupportedMode, c.mode)
			}
			continue
		}

		var err error
		switch section {
		case "General":
			err = c.parseGeneral(line)
		case "Difficulty":
			err = c.parseDifficulty(line)
		case "TimingPoints":
			err = c.parseTimingPoint(line)
		case "HitObjects":
			err = c.parseHitObject(line)
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", lineNumber, err)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	if !headerSeen {
		return nil, errors.New("empty beatmap")
	}

	if c.mode != modeStandard {
		return nil, fmt.Errorf("%w: mode %d", ErrUnsupportedMode, c.mode)
	}

	if len(c.hitObjects) == 0 {
		return nil, errors.New("beatmap has no hit objects")
	}

	sort.SliceStable(c.hitObjects, func(i, j int) bool { return c.hitObjects[i].time < c.hitObjects[j].time })

	if c.approachRate < 0 {
		c.approachRate = c.overallDifficulty
	}

	return c, nil
}

func splitKeyValue(line string) (string, string, bool) {
	key, value, ok := strings.Cut(line, ":")
	return strings.TrimSpace(key), strings.TrimSpace(value), ok
}

func (c *chart) parseGeneral(line string) error {
	key, value, ok := splitKeyValue(line)
	if !ok || key != "Mode" {
		return nil
	}

	mode, err := strconv.Atoi(value)
	if err != nil {
		return fmt.Errorf("invalid mode: %w", err)
	}
	c.mode = mode

	return nil
}

func (c *chart) parseDifficulty(line string) error {
	key, value, ok := splitKeyValue(line)
	if !ok {
		return nil
	}

	var target *float64
	switch key {
	case "HPDrainRate":
		target = &c.hpDrain
	case "CircleSize":
		target = &c.circleSize
	case "OverallDifficulty":
		target = &c.overallDifficulty
	case "ApproachRate":
		target = &c.approachRate
	case "SliderMultiplier":
		target = &c.sliderMultiplier
	case "SliderTickRate":
		target = &c.sliderTickRate
	default:
		return nil
	}

	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return fmt.Errorf("invalid %s: %w", key, err)
	}
	*target = v

	return nil
}

func (c *chart) parseTimingPoint(line string) error {
	fields := strings.Split(line, ",")
	if len(fields) < 2 {
		return fmt.Errorf("timing point needs at least 2 fields, got %d", len(fields))
	}

	t, err := strconv.ParseFloat(strings.TrimSpace(fields[0]), 64)
	if err != nil {
		return fmt.Errorf("invalid timing point time: %w", err)
	}

	beatLength, err := strconv.ParseFloat(strings.TrimSpace(fields[1]), 64)
	if err != nil {
		return fmt.Errorf("invalid beat length: %w", err)
	}

	uninherited := beatLength > 0
	if len(fields) > 6 {
		uninherited = strings.TrimSpace(fields[6]) != "0"
	}

	c.timingPoints = append(c.timingPoints, timingPoint{time: t, beatLength: beatLength, uninherited: uninherited})

	return nil
}

func (c *chart) parseHitObject(line string) error {
	fields := strings.Split(line, ",")
	if len(fields) < 4 {
		return fmt.Errorf("hit object needs at least 4 fields, got %d", len(fields))
	}

	values := make([]float64, 3)
	for i := range values {
		v, err := strconv.ParseFloat(strings.TrimSpace(fields[i]), 64)
		if err != nil {
			return fmt.Errorf("invalid hit object field %d: %w", i, err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return fmt.Errorf("hit object field %d is not finite", i)
		}
		values[i] = v
	}

	objectType, err := strconv.Atoi(strings.TrimSpace(fields[3]))
	if err != nil {
		return fmt.Errorf("invalid hit object type: %w", err)
	}

	h := hitObject{x: values[0], y: values[1], endX: values[0], endY: values[1], time: values[2]}

	switch {
	case objectType&typeCircle != 0:
		h.kind = circle
	case objectType&typeSlider != 0:
		h.kind = slider
		if err := h.parseSliderParams(fields); err != nil {
			return err
		}
	case objectType&typeSpinner != 0:
		h.kind = spinner
	default:
		return fmt.Errorf("unknown hit object type %d", objectType)
	}

	c.hitObjects = append(c.hitObjects, h)

	return nil
}

// parseSliderParams reads curve, slides and length. The end position is the
// last control point, which matches the real path end for straight sliders.
func (h *hitObject) parseSliderParams(fields []string) error {
	if len(fields) < 8 {
		return fmt.Errorf("slider needs at least 8 fields, got %d", len(fields))
	}

	slides, err := strconv.Atoi(strings.TrimSpace(fields[6]))
	if err != nil {
		return fmt.Errorf("invalid slider slides: %w", err)
	}
	h.slides = max(slides, 1)

	length, err := strconv.ParseFloat(strings.TrimSpace(fields[7]), 64)
	if err != nil {
		return fmt.Errorf("invalid slider length: %w", err)
	}
	h.length = max(length, 0)

	points := strings.Split(fields[5], "|")
	if h.slides%2 == 1 && len(points) > 1 {
		px, py, ok := strings.Cut(points[len(points)-1], ":")
		if ok {
			x, errX := strconv.ParseFloat(px, 64)
			y, errY := strconv.ParseFloat(py, 64)
			if errX == nil && errY == nil {
				h.endX, h.endY = x, y
			}
		}
	}

	return nil
}

func wrapInvalid(err error) error {
	return fmt.Errorf("%w: %w", domain.ErrInvalidBeatmapData, err)
}
