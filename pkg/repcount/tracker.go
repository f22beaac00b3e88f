package repcount

import (
	"fmt"
	"sort"
	"time"
)

type RepCounts struct {
	Left  int `json:"left"`
	Right int `json:"right"`
	Total int `json:"total"`
}

// Angles holds the last valid joint angle per side in degrees. A nil side has
// never produced a valid angle since construction or the last Reset.
type Angles struct {
	Left  *float64 `json:"left"`
	Right *float64 `json:"right"`
}

// Tracker turns a stream of poses into rep counts for one exercise. A Tracker
// is owned by a single session and is not safe for concurrent use.
type Tracker interface {
	// ProcessPose reports whether a rep was counted on this frame. A nil or
	// empty pose is a no-op.
	ProcessPose(pose *Pose) bool
	// ProcessPoseAt is ProcessPose for a frame captured at at. Debounce is
	// measured between frame times, so recorded clips replay correctly.
	ProcessPoseAt(pose *Pose, at time.Time) bool
	RepCounts() RepCounts
	State() Phase
	CurrentAngles() Angles
	Reset()
	Exercise() Exercise
	Config() Config
}

type Option func(*options)

type options struct {
	now func() time.Time
}

// WithClock replaces time.Now as the source of rep timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

type joint struct {
	first, vertex, last string
}

type landmarkMapping struct {
	left, right joint
	kind        trackerKind
}

type trackerKind uint8

const (
	kindArm trackerKind = iota
	kindSquat
)

var landmarkMappings = map[Exercise]landmarkMapping{
	BicepCurl: {
		left:  joint{LeftShoulder, LeftElbow, LeftWrist},
		right: joint{RightShoulder, RightElbow, RightWrist},
		kind:  kindArm,
	},
	ShoulderPress: {
		left:  joint{LeftWrist, LeftElbow, LeftShoulder},
		right: joint{RightWrist, RightElbow, RightShoulder},
		kind:  kindArm,
	},
	Squat: {
		left:  joint{LeftHip, LeftKnee, LeftAnkle},
		right: joint{RightHip, RightKnee, RightAnkle},
		kind:  kindSquat,
	},
}

// New builds the tracker registered for ex. Fields set in override replace the
// exercise defaults.
func New(ex Exercise, override Override, opts ...Option) (Tracker, error) {
	mapping, ok := landmarkMappings[ex]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownExercise, ex)
	}

	cfg, err := DefaultConfig(ex)
	if err != nil {
		return nil, err
	}
	cfg = cfg.apply(override)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	switch mapping.kind {
	case kindSquat:
		return newSquatTracker(ex, cfg, mapping, o.now), nil
	default:
		return newArmTracker(ex, cfg, mapping, o.now), nil
	}
}

// Exercises lists every exercise a tracker can be built for.
func Exercises() []Exercise {
	list := make([]Exercise, 0, len(landmarkMappings))
	for ex := range landmarkMappings {
		list = append(list, ex)
	}
	sort.Slice(list, func(i, j int) bool { return list[i] < list[j] })
	return list
}

func (j joint) angle(pose *Pose, minScore float64) (float64, bool) {
	a, ok := pose.Keypoint(j.first)
	if !ok {
		return 0, false
	}
	mid, ok := pose.Keypoint(j.vertex)
	if !ok {
		return 0, false
	}
	b, ok := pose.Keypoint(j.last)
	if !ok {
		return 0, false
	}
	return ComputeAngleAbove(a, mid, b, minScore)
}

func canCount(lastRep, now time.Time, minGap time.Duration) bool {
	return lastRep.IsZero() || now.Sub(lastRep) > minGap
}

func copyAngle(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}
