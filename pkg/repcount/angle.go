package repcount

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"
)

// JointConfidenceThreshold is the lowest keypoint score an angle is computed from.
const JointConfidenceThreshold = 0.5

// ComputeAngle returns the angle at mid formed by a-mid-b, in degrees within
// [0, 180]. ok is false when a keypoint is missing its score, scores below
// JointConfidenceThreshold, or the geometry is degenerate.
func ComputeAngle(a, mid, b Keypoint) (float64, bool) {
	return ComputeAngleAbove(a, mid, b, JointConfidenceThreshold)
}

// ComputeAngleAbove is ComputeAngle with a caller supplied score floor. The
// floor never drops below JointConfidenceThreshold.
func ComputeAngleAbove(a, mid, b Keypoint, minScore float64) (float64, bool) {
	minScore = math.Max(minScore, JointConfidenceThreshold)
	for _, kp := range [...]Keypoint{a, mid, b} {
		if kp.Score == 0 || kp.Score < minScore || math.IsNaN(kp.Score) {
			return 0, false
		}
	}

	origin := r2.Vec{X: mid.X, Y: mid.Y}
	v1 := r2.Sub(r2.Vec{X: a.X, Y: a.Y}, origin)
	v2 := r2.Sub(r2.Vec{X: b.X, Y: b.Y}, origin)

	n1, n2 := r2.Norm(v1), r2.Norm(v2)
	if n1 == 0 || n2 == 0 || math.IsNaN(n1) || math.IsNaN(n2) || math.IsInf(n1, 0) || math.IsInf(n2, 0) {
		return 0, false
	}

	// atan2 keeps full precision near 0 and 180 degrees, where acos of the
	// normalized dot product does not.
	cross := v1.X*v2.Y - v1.Y*v2.X
	return math.Atan2(math.Abs(cross), r2.Dot(v1, v2)) * 180 / math.Pi, true
}
