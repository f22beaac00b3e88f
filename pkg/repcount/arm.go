package repcount

import "time"

type armSide struct {
	phase   Phase
	reps    int
	lastRep time.Time
	angle   *float64
	joint   joint
}

// armTracker counts curls and presses. Each arm cycles independently:
//
//	UNKNOWN/STARTING --angle > extended--> DOWN
//	DOWN             --angle < flexed-->   UP (counts, debounced)
//	UP               --angle > extended--> DOWN
type armTracker struct {
	exercise Exercise
	cfg      Config
	now      func() time.Time

	left, right armSide
	state       Phase
}

func newArmTracker(ex Exercise, cfg Config, m landmarkMapping, now func() time.Time) *armTracker {
	t := &armTracker{
		exercise: ex,
		cfg:      cfg,
		now:      now,
		left:     armSide{joint: m.left},
		right:    armSide{joint: m.right},
	}
	t.Reset()
	return t
}

func (t *armTracker) ProcessPose(pose *Pose) bool {
	return t.ProcessPoseAt(pose, t.now())
}

func (t *armTracker) ProcessPoseAt(pose *Pose, now time.Time) bool {
	if pose.Empty() {
		return false
	}

	counted := t.step(&t.left, pose, now)
	if t.step(&t.right, pose, now) {
		counted = true
	}
	return counted
}

func (t *armTracker) step(s *armSide, pose *Pose, now time.Time) bool {
	angle, ok := s.joint.angle(pose, t.cfg.MinConfidence)
	if !ok {
		return false
	}
	s.angle = &angle

	next, counted := s.phase, false
	switch {
	case s.phase.initial():
		if angle > t.cfg.ExtendedAngle {
			next = PhaseDown
		}
	case s.phase == PhaseDown:
		if angle < t.cfg.FlexedAngle {
			next = PhaseUp
			if canCount(s.lastRep, now, t.cfg.MinTimeBetweenReps) {
				s.reps++
				s.lastRep = now
				counted = true
			}
		}
	case s.phase == PhaseUp:
		if angle > t.cfg.ExtendedAngle {
			next = PhaseDown
		}
	}

	if next != s.phase {
		s.phase = next
		t.state = next
	}
	return counted
}

func (t *armTracker) RepCounts() RepCounts {
	return RepCounts{
		Left:  t.left.reps,
		Right: t.right.reps,
		Total: t.left.reps + t.right.reps,
	}
}

func (t *armTracker) State() Phase {
	return t.state
}

func (t *armTracker) CurrentAngles() Angles {
	return Angles{Left: copyAngle(t.left.angle), Right: copyAngle(t.right.angle)}
}

func (t *armTracker) Reset() {
	for _, s := range []*armSide{&t.left, &t.right} {
		s.phase = PhaseUnknown
		s.reps = 0
		s.lastRep = time.Time{}
		s.angle = nil
	}
	t.state = PhaseUnknown
}

func (t *armTracker) Exercise() Exercise {
	return t.exercise
}

func (t *armTracker) Config() Config {
	return t.cfg
}
