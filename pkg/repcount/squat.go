package repcount

import "time"

// squatTracker follows the averaged knee angle. Standing is UP, squatting is
// DOWN, and returning to standing counts one rep on both sides at once:
//
//	UNKNOWN/STARTING --angle > extended--> UP
//	UP               --angle < flexed-->   DOWN
//	DOWN             --angle > extended--> UP (counts, debounced)
type squatTracker struct {
	exercise    Exercise
	cfg         Config
	now         func() time.Time
	left, right joint

	phase                 Phase
	leftReps, rightReps   int
	lastRep               time.Time
	leftAngle, rightAngle *float64
}

func newSquatTracker(ex Exercise, cfg Config, m landmarkMapping, now func() time.Time) *squatTracker {
	t := &squatTracker{
		exercise: ex,
		cfg:      cfg,
		now:      now,
		left:     m.left,
		right:    m.right,
	}
	t.Reset()
	return t
}

func (t *squatTracker) ProcessPose(pose *Pose) bool {
	return t.ProcessPoseAt(pose, t.now())
}

func (t *squatTracker) ProcessPoseAt(pose *Pose, now time.Time) bool {
	if pose.Empty() {
		return false
	}

	l, lok := t.left.angle(pose, t.cfg.MinConfidence)
	if lok {
		t.leftAngle = &l
	}
	r, rok := t.right.angle(pose, t.cfg.MinConfidence)
	if rok {
		t.rightAngle = &r
	}

	knee, ok := averageKnee(l, lok, r, rok)
	if !ok {
		return false
	}

	switch {
	case t.phase.initial():
		if knee > t.cfg.ExtendedAngle {
			t.phase = PhaseUp
		}
	case t.phase == PhaseUp:
		if knee < t.cfg.FlexedAngle {
			t.phase = PhaseDown
		}
	case t.phase == PhaseDown:
		if knee > t.cfg.ExtendedAngle {
			t.phase = PhaseUp
			if canCount(t.lastRep, now, t.cfg.MinTimeBetweenReps) {
				t.leftReps++
				t.rightReps++
				t.lastRep = now
				return true
			}
		}
	}
	return false
}

// averageKnee averages both knees measured on this frame, or uses whichever
// one is valid.
func averageKnee(l float64, lok bool, r float64, rok bool) (float64, bool) {
	switch {
	case lok && rok:
		return (l + r) / 2, true
	case lok:
		return l, true
	case rok:
		return r, true
	default:
		return 0, false
	}
}

func (t *squatTracker) RepCounts() RepCounts {
	return RepCounts{
		Left:  t.leftReps,
		Right: t.rightReps,
		Total: t.leftReps + t.rightReps,
	}
}

func (t *squatTracker) State() Phase {
	return t.phase
}

func (t *squatTracker) CurrentAngles() Angles {
	return Angles{Left: copyAngle(t.leftAngle), Right: copyAngle(t.rightAngle)}
}

func (t *squatTracker) Reset() {
	t.phase = PhaseUnknown
	t.leftReps, t.rightReps = 0, 0
	t.lastRep = time.Time{}
	t.leftAngle, t.rightAngle = nil, nil
}

func (t *squatTracker) Exercise() Exercise {
	return t.exercise
}

func (t *squatTracker) Config() Config {
	return t.cfg
}
