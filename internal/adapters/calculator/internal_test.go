package calculator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTimingStateAt(t *testing.T) {
	timing := newTimingState([]timingPoint{
		{time: 1000, beatLength: -50},
		{time: 500, beatLength: 400, uninherited: true},
		{time: 3000, beatLength: 250, uninherited: true},
		{time: 4000, beatLength: -200},
		{time: 5000, beatLength: -1},
	})

	tests := []struct {
		name         string
		time         float64
		wantBeat     float64
		wantVelocity float64
	}{
		{name: "before first point", time: 0, wantBeat: 400, wantVelocity: 1},
		{name: "on uninherited point", time: 500, wantBeat: 400, wantVelocity: 1},
		{name: "after inherited point", time: 1500, wantBeat: 400, wantVelocity: 2},
		{name: "uninherited resets velocity", time: 3500, wantBeat: 250, wantVelocity: 1},
		{name: "slow section", time: 4500, wantBeat: 250, wantVelocity: 0.5},
		{name: "velocity is clamped", time: 6000, wantBeat: 250, wantVelocity: 10},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			beat, velocity := timing.at(tc.time)
			assert.Equal(t, tc.wantBeat, beat)
			assert.Equal(t, tc.wantVelocity, velocity)
		})
	}
}

func TestTimingStateAtWithoutPoints(t *testing.T) {
	beat, velocity := newTimingState(nil).at(100)
	assert.Equal(t, defaultBeatLength, beat)
	assert.Equal(t, 1.0, velocity)
}

func TestDistributeHits(t *testing.T) {
	tests := []struct {
		name     string
		objects  int
		accuracy float64
		misses   int
		want     hitCounts
	}{
		{name: "ss", objects: 100, accuracy: 100, want: hitCounts{n300: 100}},
		{name: "95 percent", objects: 100, accuracy: 95, want: hitCounts{n300: 92, n100: 8}},
		{name: "with misses", objects: 100, accuracy: 95, misses: 2, want: hitCounts{n300: 93, n100: 5, misses: 2}},
		{name: "accuracy above 100", objects: 10, accuracy: 150, want: hitCounts{n300: 10}},
		{name: "accuracy too low", objects: 10, accuracy: 0, want: hitCounts{n100: 10}},
		{name: "more misses than objects", objects: 3, accuracy: 100, misses: 5, want: hitCounts{misses: 3}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, distributeHits(tc.objects, tc.accuracy, tc.misses))
		})
	}
}

func TestHitCountsAccuracy(t *testing.T) {
	assert.Equal(t, 1.0, hitCounts{n300: 10}.accuracy())
	assert.InDelta(t, 0.9467, hitCounts{n300: 92, n100: 8}.accuracy(), 0.0001)
	assert.Equal(t, 0.0, hitCounts{}.accuracy())
}
