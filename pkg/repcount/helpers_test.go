package repcount_test

import (
	"math"
	"time"

	"FitnessGolang/pkg/repcount"
)

type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

// limb places three keypoints so the angle at the vertex equals deg.
func limb(first, vertex, last string, deg, score float64, origin [2]float64) []repcount.Keypoint {
	rad := deg * math.Pi / 180
	return []repcount.Keypoint{
		{Name: first, X: origin[0], Y: origin[1] - 100, Score: score},
		{Name: vertex, X: origin[0], Y: origin[1], Score: score},
		{Name: last, X: origin[0] + 100*math.Sin(rad), Y: origin[1] - 100*math.Cos(rad), Score: score},
	}
}

type side struct {
	angle float64
	score float64
}

func visible(angle float64) side {
	return side{angle: angle, score: 0.9}
}

func hidden() side {
	return side{angle: 90, score: 0.2}
}

func armPose(left, right side) *repcount.Pose {
	kps := limb(repcount.LeftShoulder, repcount.LeftElbow, repcount.LeftWrist, left.angle, left.score, [2]float64{200, 300})
	kps = append(kps, limb(repcount.RightShoulder, repcount.RightElbow, repcount.RightWrist, right.angle, right.score, [2]float64{440, 300})...)
	return &repcount.Pose{Keypoints: kps}
}

func legPose(left, right side) *repcount.Pose {
	kps := limb(repcount.LeftHip, repcount.LeftKnee, repcount.LeftAnkle, left.angle, left.score, [2]float64{260, 500})
	kps = append(kps, limb(repcount.RightHip, repcount.RightKnee, repcount.RightAnkle, right.angle, right.score, [2]float64{380, 500})...)
	return &repcount.Pose{Keypoints: kps}
}
