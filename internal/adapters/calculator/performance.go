package calculator

import (
	"fishbot/internal/core/domain"
	"math"
)

const (
	totalMultiplier = 1.12
	componentPower  = 1.1
	lengthThreshold = 2000.0
)

type hitCounts struct {
	n300, n100, n50, misses int
}

func (h hitCounts) total() int {
	return h.n300 + h.n100 + h.n50 + h.misses
}

func (h hitCounts) accuracy() float64 {
	total := h.total()
	if total == 0 {
		return 0
	}

	return float64(6*h.n300+2*h.n100+h.n50) / float64(6*total)
}

// distributeHits turns an accuracy percentage into hit counts, converting 300s
// into 100s until the accuracy is reached.
func distributeHits(objects int, accuracy float64, misses int) hitCounts {
	misses = min(max(misses, 0), objects)
	remaining := objects - misses
	acc := clamp(accuracy/100, 0, 1)

	n100 := int(math.Round(1.5 * (float64(remaining) - acc*float64(objects))))
	n100 = min(max(n100, 0), remaining)

	return hitCounts{n300: remaining - n100, n100: n100, misses: misses}
}

// performance computes the pp value of a play from aim, speed and accuracy components.
func performance(attrs domain.DifficultyAttributes, play domain.Play) float64 {
	hits := distributeHits(attrs.ObjectCount, play.Accuracy, play.Misses)
	combo := min(max(play.Combo, 0), attrs.MaxCombo)

	aim := aimValue(attrs, hits, combo)
	speed := speedValue(attrs, hits, combo)
	acc := accuracyValue(attrs, hits)

	return math.Pow(
		math.Pow(aim, componentPower)+math.Pow(speed, componentPower)+math.Pow(acc, componentPower),
		1/componentPower,
	) * totalMultiplier
}

func baseValue(rating float64) float64 {
	return math.Pow(5*math.Max(1, rating/difficultyMultiplier)-4, 3) / 100000
}

func lengthBonus(totalHits int) float64 {
	n := float64(totalHits)
	bonus := 0.95 + 0.4*math.Min(1, n/lengthThreshold)
	if n > lengthThreshold {
		bonus += math.Log10(n/lengthThreshold) * 0.5
	}

	return bonus
}

func comboScaling(combo, maxCombo int) float64 {
	if maxCombo <= 0 {
		return 1
	}

	return math.Min(math.Pow(float64(combo), 0.8)/math.Pow(float64(maxCombo), 0.8), 1)
}

func aimValue(attrs domain.DifficultyAttributes, hits hitCounts, combo int) float64 {
	value := baseValue(attrs.Aim)
	value *= lengthBonus(hits.total())
	value *= math.Pow(0.97, float64(hits.misses))
	value *= comboScaling(combo, attrs.MaxCombo)

	arFactor := 1.0
	switch {
	case attrs.ApproachRate > 10.33:
		arFactor += 0.3 * (attrs.ApproachRate - 10.33)
	case attrs.ApproachRate < 8:
		arFactor += 0.01 * (8 - attrs.ApproachRate)
	}
	value *= arFactor

	value *= 0.5 + hits.accuracy()/2
	value *= 0.98 + math.Pow(attrs.OverallDifficulty, 2)/2500

	return value
}

func speedValue(attrs domain.DifficultyAttributes, hits hitCounts, combo int) float64 {
	value := baseValue(attrs.Speed)
	value *= lengthBonus(hits.total())
	value *= math.Pow(0.97, float64(hits.misses))
	value *= comboScaling(combo, attrs.MaxCombo)

	if attrs.ApproachRate > 10.33 {
		value *= 1 + 0.3*(attrs.ApproachRate-10.33)
	}

	value *= 0.02 + hits.accuracy()
	value *= 0.96 + math.Pow(attrs.OverallDifficulty, 2)/1600

	return value
}

// accuracyValue only judges circles: sliders and spinners are assumed to be 300s.
func accuracyValue(attrs domain.DifficultyAttributes, hits hitCounts) float64 {
	if attrs.Circles <= 0 {
		return 0
	}

	circles := float64(attrs.Circles)
	nonCircles := float64(hits.total() - attrs.Circles)

	betterAcc := ((float64(hits.n300)-nonCircles)*6 + float64(hits.n100)*2 + float64(hits.n50)) / (circles * 6)
	betterAcc = clamp(betterAcc, 0, 1)

	value := math.Pow(1.52163, attrs.OverallDifficulty) * math.Pow(betterAcc, 24) * 2.83
	value *= math.Min(1.15, math.Pow(circles/1000, 0.3))

	return value
}
