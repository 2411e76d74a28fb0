package calculator

import (
	"math"
	"sort"
)

const (
	sectionLength        = 400.0
	difficultyMultiplier = 0.0675
	decayWeight          = 0.9
	minStrainTime        = 50.0

	normalizedRadius = 52.0
	smallCircleLimit = 30.0

	singleSpacingThreshold = 125.0
	streamSpacingThreshold = 110.0
	almostDiameter         = 90.0
	stackThreshold         = 45.0

	maxIdleSections = 64

	aimSkillMultiplier   = 26.25
	aimStrainDecayBase   = 0.15
	speedSkillMultiplier = 1400.0
	speedStrainDecayBase = 0.3
)

// difficultyObject is a hit object seen relative to the one before it.
type difficultyObject struct {
	time       float64
	deltaTime  float64
	strainTime float64
	jump       float64
}

type strainValueFunc func(o difficultyObject) float64

// strainSkill accumulates a decaying strain and keeps the peak of every section.
type strainSkill struct {
	multiplier  float64
	decayBase   float64
	value       strainValueFunc
	current     float64
	sectionPeak float64
	peaks       []float64
	prevTime    float64
	hasPrev     bool
}

func newStrainSkill(multiplier, decayBase float64, value strainValueFunc) *strainSkill {
	return &strainSkill{multiplier: multiplier, decayBase: decayBase, value: value}
}

func (s *strainSkill) decay(ms float64) float64 {
	return math.Pow(s.decayBase, ms/1000)
}

func (s *strainSkill) process(o difficultyObject) {
	s.current *= s.decay(o.deltaTime)
	s.current += s.value(o) * s.multiplier
	s.sectionPeak = math.Max(s.current, s.sectionPeak)
	s.prevTime = o.time
	s.hasPrev = true
}

func (s *strainSkill) saveCurrentPeak() {
	if s.hasPrev {
		s.peaks = append(s.peaks, s.sectionPeak)
	}
}

func (s *strainSkill) startNewSectionFrom(offset float64) {
	if s.hasPrev {
		s.sectionPeak = s.current * s.decay(offset-s.prevTime)
	}
}

// difficultyValue sums the section peaks, strongest first, with geometrically falling weights.
func (s *strainSkill) difficultyValue() float64 {
	peaks := make([]float64, len(s.peaks))
	copy(peaks, s.peaks)
	sort.Sort(sort.Reverse(sort.Float64Slice(peaks)))

	total := 0.0
	weight := 1.0
	for _, p := range peaks {
		total += p * weight
		weight *= decayWeight
	}

	return total
}

func aimStrain(o difficultyObject) float64 {
	return math.Pow(o.jump, 0.99) / o.strainTime
}

func speedStrain(o difficultyObject) float64 {
	distance := math.Min(singleSpacingThreshold, o.jump)

	var speedValue float64
	switch {
	case distance > streamSpacingThreshold:
		speedValue = 1.6 + 0.9*(distance-streamSpacingThreshold)/(singleSpacingThreshold-streamSpacingThreshold)
	case distance > almostDiameter:
		speedValue = 1.2 + 0.4*(distance-almostDiameter)/(streamSpacingThreshold-almostDiameter)
	case distance > stackThreshold:
		speedValue = 0.95 + 0.25*(distance-stackThreshold)/(almostDiameter-stackThreshold)
	default:
		speedValue = 0.95
	}

	if o.jump >= singleSpacingThreshold {
		speedValue = 2.5
	}

	return speedValue / o.strainTime
}

// difficultyObjects pairs each hit object with its predecessor. Distances are
// normalized so that a circle of any size has radius 52.
func (c *chart) difficultyObjects() []difficultyObject {
	radius := 32 * (1 - 0.7*(c.circleSize-5)/5)
	if radius <= 0 {
		radius = 1
	}

	scalingFactor := normalizedRadius / radius
	if radius < smallCircleLimit {
		scalingFactor *= 1 + math.Min(smallCircleLimit-radius, 5)/50
	}

	objects := make([]difficultyObject, 0, len(c.hitObjects))
	for i := 1; i < len(c.hitObjects); i++ {
		prev, cur := c.hitObjects[i-1], c.hitObjects[i]
		delta := cur.time - prev.time

		jump := 0.0
		if cur.kind != spinner && prev.kind != spinner {
			jump = math.Hypot(cur.x-prev.endX, cur.y-prev.endY) * scalingFactor
		}

		objects = append(objects, difficultyObject{
			time:       cur.time,
			deltaTime:  delta,
			strainTime: math.Max(delta, minStrainTime),
			jump:       jump,
		})
	}

	return objects
}

// strains runs the aim and speed skills over the chart and returns their star ratings.
func (c *chart) strains() (aim, speed float64) {
	objects := c.difficultyObjects()
	if len(objects) == 0 {
		return 0, 0
	}

	aimSkill := newStrainSkill(aimSkillMultiplier, aimStrainDecayBase, aimStrain)
	speedSkill := newStrainSkill(speedSkillMultiplier, speedStrainDecayBase, speedStrain)
	skills := []*strainSkill{aimSkill, speedSkill}

	sectionEnd := math.Ceil(c.hitObjects[0].time/sectionLength) * sectionLength
	for _, o := range objects {
		for o.time > sectionEnd {
			for _, s := range skills {
				s.saveCurrentPeak()
				s.startNewSectionFrom(sectionEnd)
			}
			sectionEnd += sectionLength

			// long breaks only add near zero peaks
			if idle := math.Floor((o.time - sectionEnd) / sectionLength); idle > maxIdleSections {
				sectionEnd += idle * sectionLength
			}
		}

		for _, s := range skills {
			s.process(o)
		}
	}

	for _, s := range skills {
		s.saveCurrentPeak()
	}

	aim = math.Sqrt(aimSkill.difficultyValue()) * difficultyMultiplier
	speed = math.Sqrt(speedSkill.difficultyValue()) * difficultyMultiplier

	return aim, speed
}

func starRating(aim, speed float64) float64 {
	return aim + speed + math.Abs(aim-speed)/2
}
