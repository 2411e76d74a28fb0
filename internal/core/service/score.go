package service

import (
	"errors"
	"fishbot/internal/core/domain"
	"fishbot/internal/core/port"
	"fmt"
	"math"

	"github.com/rs/zerolog/log"
)

const (
	reportedHighAccuracy = 100
	reportedLowAccuracy  = 95
)

// PerformanceReporter computes nomod full combo pp values for a chart.
type PerformanceReporter struct {
	calculator port.PerformanceCalculator
}

func NewPerformanceReporter(calculator port.PerformanceCalculator) *PerformanceReporter {
	return &PerformanceReporter{calculator: calculator}
}

// Report decodes the chart and computes pp at 95% and 100% accuracy, both with
// maximum combo and no misses. Values are rounded half away from zero.
func (r *PerformanceReporter) Report(beatmap []byte) (domain.ScoreReport, error) {
	attributes, err := r.calculator.Attributes(beatmap)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidBeatmapData) {
			return domain.ScoreReport{}, err
		}
		return domain.ScoreReport{}, fmt.Errorf("%w: %w", domain.ErrInvalidBeatmapData, err)
	}

	fullCombo := func(accuracy float64) domain.Play {
		return domain.Play{Accuracy: accuracy, Combo: attributes.MaxCombo, Misses: 0}
	}

	ppMax := r.calculator.Performance(attributes, fullCombo(reportedHighAccuracy))
	pp95 := r.calculator.Performance(attributes, fullCombo(reportedLowAccuracy))

	log.Debug().
		Float64("stars", attributes.Stars).
		Int("maxCombo", attributes.MaxCombo).
		Float64("pp95", pp95).
		Float64("ppMax", ppMax).
		Msg("computed score report")

	return domain.ScoreReport{
		PP95:     int(math.Round(pp95)),
		PP100:    int(math.Round(ppMax)),
		Stars:    attributes.Stars,
		MaxCombo: attributes.MaxCombo,
	}, nil
}
