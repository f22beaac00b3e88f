package repcount

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrUnknownExercise = errors.New("exercise has no registered landmark mapping")
	ErrInvalidConfig   = errors.New("invalid exercise config")
)

type Exercise string

const (
	BicepCurl     Exercise = "BICEP_CURL"
	ShoulderPress Exercise = "SHOULDER_PRESS"
	Squat         Exercise = "SQUAT"
)

func (e Exercise) String() string {
	return string(e)
}

// Config bounds one rep cycle. ExtendedAngle is the larger joint angle (arm
// hanging, arms lowered, standing) and FlexedAngle the smaller one (curled,
// pressed, squatting).
type Config struct {
	ExtendedAngle      float64       `json:"extended_angle"`
	FlexedAngle        float64       `json:"flexed_angle"`
	MinConfidence      float64       `json:"min_confidence"`
	MinTimeBetweenReps time.Duration `json:"min_time_between_reps"`
}

// Override is a partial Config. Nil fields keep the exercise default.
type Override struct {
	ExtendedAngle        *float64 `json:"extended_angle,omitempty"`
	FlexedAngle          *float64 `json:"flexed_angle,omitempty"`
	MinConfidence        *float64 `json:"min_confidence,omitempty"`
	MinTimeBetweenRepsMs *int64   `json:"min_time_between_reps_ms,omitempty"`
}

func (c Config) apply(o Override) Config {
	if o.ExtendedAngle != nil {
		c.ExtendedAngle = *o.ExtendedAngle
	}
	if o.FlexedAngle != nil {
		c.FlexedAngle = *o.FlexedAngle
	}
	if o.MinConfidence != nil {
		c.MinConfidence = *o.MinConfidence
	}
	if o.MinTimeBetweenRepsMs != nil {
		c.MinTimeBetweenReps = time.Duration(*o.MinTimeBetweenRepsMs) * time.Millisecond
	}
	return c
}

func (c Config) Validate() error {
	if c.ExtendedAngle <= c.FlexedAngle {
		return fmt.Errorf("%w: extended angle %.1f must exceed flexed angle %.1f",
			ErrInvalidConfig, c.ExtendedAngle, c.FlexedAngle)
	}
	if c.FlexedAngle < 0 || c.ExtendedAngle > 180 {
		return fmt.Errorf("%w: thresholds must lie within [0, 180]", ErrInvalidConfig)
	}
	if c.MinConfidence < 0 || c.MinConfidence > 1 {
		return fmt.Errorf("%w: min confidence %.2f outside [0, 1]", ErrInvalidConfig, c.MinConfidence)
	}
	if c.MinTimeBetweenReps < 0 {
		return fmt.Errorf("%w: negative debounce interval", ErrInvalidConfig)
	}
	return nil
}

var defaultConfigs = map[Exercise]Config{
	BicepCurl: {
		ExtendedAngle:      150,
		FlexedAngle:        70,
		MinConfidence:      0.6,
		MinTimeBetweenReps: 500 * time.Millisecond,
	},
	ShoulderPress: {
		ExtendedAngle:      90,
		FlexedAngle:        30,
		MinConfidence:      0.6,
		MinTimeBetweenReps: 500 * time.Millisecond,
	},
	Squat: {
		ExtendedAngle:      160,
		FlexedAngle:        90,
		MinConfidence:      0.6,
		MinTimeBetweenReps: 800 * time.Millisecond,
	},
}

func DefaultConfig(ex Exercise) (Config, error) {
	cfg, ok := defaultConfigs[ex]
	if !ok {
		return Config{}, fmt.Errorf("%w: %q", ErrUnknownExercise, ex)
	}
	return cfg, nil
}
