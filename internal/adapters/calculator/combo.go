package calculator

import (
	"math"
	"sort"
)

const (
	defaultBeatLength = 1000.0
	minVelocity       = 0.1
	maxVelocity       = 10.0
	// ticks closer than this to the slider end are dropped, in milliseconds
	tickEndDistance = 10.0
	maxTicksPerSpan = 32768
)

// timingState resolves beat length and slider velocity multiplier at a point in time.
type timingState struct {
	points []timingPoint
}

func newTimingState(points []timingPoint) timingState {
	sorted := make([]timingPoint, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].time < sorted[j].time })

	return timingState{points: sorted}
}

func (s timingState) at(t float64) (beatLength, velocity float64) {
	velocity = 1

	for _, p := range s.points {
		if p.time > t {
			break
		}

		if p.uninherited {
			beatLength = p.beatLength
			velocity = 1
		} else if p.beatLength < 0 {
			velocity = clamp(-100/p.beatLength, minVelocity, maxVelocity)
		}
	}

	// objects before the first uninherited point use its beat length
	if beatLength == 0 {
		for _, p := range s.points {
			if p.uninherited {
				beatLength = p.beatLength
				break
			}
		}
	}

	if beatLength <= 0 || math.IsNaN(beatLength) || math.IsInf(beatLength, 0) {
		beatLength = defaultBeatLength
	}

	return beatLength, velocity
}

// maxCombo counts one combo for each circle and spinner, and for sliders the
// head, every tick of every span, each repeat and the tail.
func (c *chart) maxCombo() int {
	timing := newTimingState(c.timingPoints)
	combo := 0

	for _, h := range c.hitObjects {
		if h.kind != slider {
			combo++
			continue
		}

		beatLength, velocity := timing.at(h.time)
		combo += 1 + h.slides*c.ticksPerSpan(h, beatLength, velocity) + h.slides
	}

	return combo
}

func (c *chart) ticksPerSpan(h hitObject, beatLength, velocity float64) int {
	scoringDistance := 100 * c.sliderMultiplier * velocity
	if c.sliderTickRate <= 0 || scoringDistance <= 0 {
		return 0
	}

	tickDistance := scoringDistance / c.sliderTickRate
	pixelsPerMs := scoringDistance / beatLength
	limit := h.length - pixelsPerMs*tickEndDistance

	ticks := 0
	for d := tickDistance; d < limit && ticks < maxTicksPerSpan; d += tickDistance {
		ticks++
	}

	return ticks
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
