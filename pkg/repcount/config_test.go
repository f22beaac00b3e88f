package repcount_test

import (
	"testing"
	"time"

	"FitnessGolang/pkg/repcount"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	tests := []struct {
		exercise repcount.Exercise
		want     repcount.Config
	}{
		{repcount.BicepCurl, repcount.Config{ExtendedAngle: 150, FlexedAngle: 70, MinConfidence: 0.6, MinTimeBetweenReps: 500 * time.Millisecond}},
		{repcount.ShoulderPress, repcount.Config{ExtendedAngle: 90, FlexedAngle: 30, MinConfidence: 0.6, MinTimeBetweenReps: 500 * time.Millisecond}},
		{repcount.Squat, repcount.Config{ExtendedAngle: 160, FlexedAngle: 90, MinConfidence: 0.6, MinTimeBetweenReps: 800 * time.Millisecond}},
	}

	for _, tt := range tests {
		t.Run(tt.exercise.String(), func(t *testing.T) {
			cfg, err := repcount.DefaultConfig(tt.exercise)
			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg)
			assert.NoError(t, cfg.Validate())
		})
	}

	_, err := repcount.DefaultConfig("PLANK")
	assert.ErrorIs(t, err, repcount.ErrUnknownExercise)
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name string
		cfg  repcount.Config
	}{
		{"flexed equals extended", repcount.Config{ExtendedAngle: 90, FlexedAngle: 90}},
		{"flexed above extended", repcount.Config{ExtendedAngle: 60, FlexedAngle: 90}},
		{"extended past straight", repcount.Config{ExtendedAngle: 200, FlexedAngle: 90}},
		{"negative flexed", repcount.Config{ExtendedAngle: 90, FlexedAngle: -5}},
		{"confidence above one", repcount.Config{ExtendedAngle: 150, FlexedAngle: 70, MinConfidence: 1.5}},
		{"negative debounce", repcount.Config{ExtendedAngle: 150, FlexedAngle: 70, MinTimeBetweenReps: -time.Second}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, tt.cfg.Validate(), repcount.ErrInvalidConfig)
		})
	}
}

func TestPhase_Label(t *testing.T) {
	assert.Equal(t, "Up Position", repcount.PhaseUp.Label())
	assert.Equal(t, "Down Position", repcount.PhaseDown.Label())
	assert.Equal(t, "UNKNOWN", repcount.PhaseUnknown.String())
}
