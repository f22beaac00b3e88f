package repcount

const (
	Nose          = "nose"
	LeftEye       = "left_eye"
	RightEye      = "right_eye"
	LeftEar       = "left_ear"
	RightEar      = "right_ear"
	LeftShoulder  = "left_shoulder"
	RightShoulder = "right_shoulder"
	LeftElbow     = "left_elbow"
	RightElbow    = "right_elbow"
	LeftWrist     = "left_wrist"
	RightWrist    = "right_wrist"
	LeftHip       = "left_hip"
	RightHip      = "right_hip"
	LeftKnee      = "left_knee"
	RightKnee     = "right_knee"
	LeftAnkle     = "left_ankle"
	RightAnkle    = "right_ankle"
)

// MoveNet skeleton order. Pose sources that omit names are read by position.
var KeypointNames = [...]string{
	Nose, LeftEye, RightEye, LeftEar, RightEar,
	LeftShoulder, RightShoulder, LeftElbow, RightElbow, LeftWrist, RightWrist,
	LeftHip, RightHip, LeftKnee, RightKnee, LeftAnkle, RightAnkle,
}

var keypointIndex = func() map[string]int {
	m := make(map[string]int, len(KeypointNames))
	for i, name := range KeypointNames {
		m[name] = i
	}
	return m
}()

type Keypoint struct {
	Name  string  `json:"name"`
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Score float64 `json:"score,omitempty"`
}

type Pose struct {
	Keypoints []Keypoint `json:"keypoints"`
	Score     float64    `json:"score,omitempty"`
	// Timestamp is the capture time in milliseconds on the client's clock, 0
	// when unknown. Only differences between timestamps are used.
	Timestamp int64 `json:"timestamp,omitempty"`
}

func (p *Pose) Empty() bool {
	return p == nil || len(p.Keypoints) == 0
}

// Keypoint finds a landmark by name, falling back to its MoveNet slot when the
// source sent unnamed keypoints.
func (p *Pose) Keypoint(name string) (Keypoint, bool) {
	if p.Empty() {
		return Keypoint{}, false
	}

	for _, kp := range p.Keypoints {
		if kp.Name == name {
			return kp, true
		}
	}

	idx, ok := keypointIndex[name]
	if !ok || idx >= len(p.Keypoints) {
		return Keypoint{}, false
	}
	if kp := p.Keypoints[idx]; kp.Name == "" {
		return kp, true
	}

	return Keypoint{}, false
}
