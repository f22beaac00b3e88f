package repcount_test

import (
	"math/rand"
	"testing"
	"time"

	"FitnessGolang/pkg/repcount"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTracker(t *testing.T, ex repcount.Exercise, clock *fakeClock) repcount.Tracker {
	t.Helper()
	tracker, err := repcount.New(ex, repcount.Override{}, repcount.WithClock(clock.Now))
	require.NoError(t, err)
	return tracker
}

func TestNew_UnknownExercise(t *testing.T) {
	tracker, err := repcount.New("DEADLIFT", repcount.Override{})
	require.ErrorIs(t, err, repcount.ErrUnknownExercise)
	assert.Nil(t, tracker)
}

func TestNew_InvalidOverride(t *testing.T) {
	flexed := 160.0
	_, err := repcount.New(repcount.BicepCurl, repcount.Override{FlexedAngle: &flexed})
	require.ErrorIs(t, err, repcount.ErrInvalidConfig)

	negative := int64(-1)
	_, err = repcount.New(repcount.Squat, repcount.Override{MinTimeBetweenRepsMs: &negative})
	require.ErrorIs(t, err, repcount.ErrInvalidConfig)
}

func TestNew_OverrideKeepsUnsetDefaults(t *testing.T) {
	extended := 140.0
	gap := int64(250)
	tracker, err := repcount.New(repcount.BicepCurl, repcount.Override{
		ExtendedAngle:        &extended,
		MinTimeBetweenRepsMs: &gap,
	})
	require.NoError(t, err)

	cfg := tracker.Config()
	assert.Equal(t, 140.0, cfg.ExtendedAngle)
	assert.Equal(t, 70.0, cfg.FlexedAngle)
	assert.Equal(t, 0.6, cfg.MinConfidence)
	assert.Equal(t, 250*time.Millisecond, cfg.MinTimeBetweenReps)
}

func TestExercises(t *testing.T) {
	assert.Equal(t, []repcount.Exercise{repcount.BicepCurl, repcount.ShoulderPress, repcount.Squat}, repcount.Exercises())
}

func TestBicepCurl_LeftArmScenario(t *testing.T) {
	clock := newFakeClock()
	tracker := newTracker(t, repcount.BicepCurl, clock)

	assert.Equal(t, repcount.PhaseUnknown, tracker.State())

	assert.False(t, tracker.ProcessPose(armPose(visible(170), hidden())))
	assert.Equal(t, repcount.PhaseDown, tracker.State())

	clock.Advance(100 * time.Millisecond)
	assert.False(t, tracker.ProcessPose(armPose(visible(165), hidden())))
	assert.Equal(t, repcount.PhaseDown, tracker.State())

	clock.Advance(600 * time.Millisecond)
	assert.True(t, tracker.ProcessPose(armPose(visible(60), hidden())))
	assert.Equal(t, repcount.PhaseUp, tracker.State())
	assert.Equal(t, repcount.RepCounts{Left: 1, Right: 0, Total: 1}, tracker.RepCounts())

	clock.Advance(50 * time.Millisecond)
	assert.False(t, tracker.ProcessPose(armPose(visible(170), hidden())))
	assert.Equal(t, repcount.PhaseDown, tracker.State())

	clock.Advance(50 * time.Millisecond)
	assert.False(t, tracker.ProcessPose(armPose(visible(55), hidden())))
	assert.Equal(t, repcount.PhaseUp, tracker.State())
	assert.Equal(t, 1, tracker.RepCounts().Left)

	angles := tracker.CurrentAngles()
	require.NotNil(t, angles.Left)
	assert.InDelta(t, 55, *angles.Left, 1e-6)
	assert.Nil(t, angles.Right)
}

func TestBicepCurl_CountsAgainAfterDebounce(t *testing.T) {
	clock := newFakeClock()
	tracker := newTracker(t, repcount.BicepCurl, clock)

	for i := 0; i < 3; i++ {
		tracker.ProcessPose(armPose(visible(165), hidden()))
		clock.Advance(300 * time.Millisecond)
		assert.True(t, tracker.ProcessPose(armPose(visible(40), hidden())), "rep %d", i+1)
		clock.Advance(300 * time.Millisecond)
	}
	assert.Equal(t, 3, tracker.RepCounts().Left)
}

func TestBicepCurl_ArmsAreIndependent(t *testing.T) {
	clock := newFakeClock()
	tracker := newTracker(t, repcount.BicepCurl, clock)

	tracker.ProcessPose(armPose(visible(170), visible(170)))
	clock.Advance(time.Second)

	assert.True(t, tracker.ProcessPose(armPose(visible(60), visible(120))))
	assert.Equal(t, repcount.RepCounts{Left: 1, Right: 0, Total: 1}, tracker.RepCounts())

	clock.Advance(100 * time.Millisecond)
	assert.True(t, tracker.ProcessPose(armPose(visible(60), visible(50))), "right arm has its own debounce")
	assert.Equal(t, repcount.RepCounts{Left: 1, Right: 1, Total: 2}, tracker.RepCounts())
}

func TestBicepCurl_BothArmsOnSameFrame(t *testing.T) {
	clock := newFakeClock()
	tracker := newTracker(t, repcount.BicepCurl, clock)

	tracker.ProcessPose(armPose(visible(175), visible(175)))
	clock.Advance(time.Second)
	assert.True(t, tracker.ProcessPose(armPose(visible(45), visible(45))))
	assert.Equal(t, repcount.RepCounts{Left: 1, Right: 1, Total: 2}, tracker.RepCounts())
}

func TestBicepCurl_NeedsExtensionBeforeCounting(t *testing.T) {
	clock := newFakeClock()
	tracker := newTracker(t, repcount.BicepCurl, clock)

	assert.False(t, tracker.ProcessPose(armPose(visible(40), hidden())))
	assert.False(t, tracker.ProcessPose(armPose(visible(120), hidden())))
	assert.Equal(t, repcount.PhaseUnknown, tracker.State())
	assert.Zero(t, tracker.RepCounts().Total)
}

func TestTracker_MissingPoseIsNoop(t *testing.T) {
	clock := newFakeClock()
	tracker := newTracker(t, repcount.BicepCurl, clock)

	tracker.ProcessPose(armPose(visible(170), visible(160)))
	clock.Advance(time.Second)
	tracker.ProcessPose(armPose(visible(50), visible(160)))

	counts, state, angles := tracker.RepCounts(), tracker.State(), tracker.CurrentAngles()

	assert.False(t, tracker.ProcessPose(nil))
	assert.False(t, tracker.ProcessPose(&repcount.Pose{}))

	assert.Equal(t, counts, tracker.RepCounts())
	assert.Equal(t, state, tracker.State())
	assert.Equal(t, angles, tracker.CurrentAngles())
}

func TestTracker_AnglesPersistThroughLowConfidence(t *testing.T) {
	clock := newFakeClock()
	tracker := newTracker(t, repcount.BicepCurl, clock)

	tracker.ProcessPose(armPose(visible(100), visible(130)))
	tracker.ProcessPose(armPose(hidden(), side{angle: 20, score: 0.55}))

	angles := tracker.CurrentAngles()
	require.NotNil(t, angles.Left)
	require.NotNil(t, angles.Right)
	assert.InDelta(t, 100, *angles.Left, 1e-6)
	assert.InDelta(t, 130, *angles.Right, 1e-6, "0.55 is under the exercise's min confidence")
}

func TestTracker_CurrentAnglesIsACopy(t *testing.T) {
	tracker := newTracker(t, repcount.BicepCurl, newFakeClock())
	tracker.ProcessPose(armPose(visible(100), hidden()))

	angles := tracker.CurrentAngles()
	*angles.Left = 5

	assert.InDelta(t, 100, *tracker.CurrentAngles().Left, 1e-6)
}

func TestTracker_ResetIsIdempotent(t *testing.T) {
	for _, ex := range repcount.Exercises() {
		t.Run(ex.String(), func(t *testing.T) {
			clock := newFakeClock()
			tracker := newTracker(t, ex, clock)

			tracker.ProcessPose(armPose(visible(175), visible(175)))
			tracker.ProcessPose(legPose(visible(175), visible(175)))
			clock.Advance(time.Second)
			tracker.ProcessPose(armPose(visible(20), visible(20)))
			tracker.ProcessPose(legPose(visible(60), visible(60)))

			tracker.Reset()
			once := []any{tracker.RepCounts(), tracker.State(), tracker.CurrentAngles()}
			tracker.Reset()
			twice := []any{tracker.RepCounts(), tracker.State(), tracker.CurrentAngles()}

			assert.Equal(t, once, twice)
			assert.Equal(t, repcount.RepCounts{}, tracker.RepCounts())
			assert.Equal(t, repcount.PhaseUnknown, tracker.State())
			assert.Equal(t, repcount.Angles{}, tracker.CurrentAngles())
		})
	}
}

func TestTracker_ResetClearsDebounce(t *testing.T) {
	clock := newFakeClock()
	tracker := newTracker(t, repcount.BicepCurl, clock)

	tracker.ProcessPose(armPose(visible(170), hidden()))
	require.True(t, tracker.ProcessPose(armPose(visible(50), hidden())))

	tracker.Reset()
	clock.Advance(10 * time.Millisecond)
	tracker.ProcessPose(armPose(visible(170), hidden()))
	assert.True(t, tracker.ProcessPose(armPose(visible(50), hidden())))
}

func TestTracker_TotalInvariantUnderRandomInput(t *testing.T) {
	rnd := rand.New(rand.NewSource(1))
	for _, ex := range repcount.Exercises() {
		clock := newFakeClock()
		tracker := newTracker(t, ex, clock)
		last := repcount.RepCounts{}

		for i := 0; i < 3000; i++ {
			clock.Advance(time.Duration(rnd.Intn(400)) * time.Millisecond)
			l := side{angle: rnd.Float64() * 180, score: rnd.Float64()}
			r := side{angle: rnd.Float64() * 180, score: rnd.Float64()}

			var pose *repcount.Pose
			switch rnd.Intn(3) {
			case 0:
				pose = armPose(l, r)
			case 1:
				pose = legPose(l, r)
			}
			tracker.ProcessPose(pose)

			counts := tracker.RepCounts()
			require.Equal(t, counts.Left+counts.Right, counts.Total)
			require.GreaterOrEqual(t, counts.Left, last.Left)
			require.GreaterOrEqual(t, counts.Right, last.Right)
			require.NotEqual(t, repcount.PhasePartial, tracker.State())
			last = counts
		}
	}
}

func TestShoulderPress_UsesPressThresholds(t *testing.T) {
	clock := newFakeClock()
	tracker := newTracker(t, repcount.ShoulderPress, clock)

	tracker.ProcessPose(armPose(visible(100), hidden()))
	assert.Equal(t, repcount.PhaseDown, tracker.State())

	clock.Advance(time.Second)
	assert.False(t, tracker.ProcessPose(armPose(visible(45), hidden())), "45 is not above the press")
	assert.True(t, tracker.ProcessPose(armPose(visible(20), hidden())))
	assert.Equal(t, 1, tracker.RepCounts().Left)
}

func TestPose_KeypointByIndex(t *testing.T) {
	kps := make([]repcount.Keypoint, len(repcount.KeypointNames))
	kps[7] = repcount.Keypoint{X: 1, Y: 2, Score: 0.8}

	pose := &repcount.Pose{Keypoints: kps}
	got, ok := pose.Keypoint(repcount.LeftElbow)
	require.True(t, ok)
	assert.Equal(t, 1.0, got.X)

	named := &repcount.Pose{Keypoints: []repcount.Keypoint{{Name: repcount.Nose}}}
	_, ok = named.Keypoint(repcount.LeftElbow)
	assert.False(t, ok)
}

func TestTracker_ProcessPoseAtUsesFrameTime(t *testing.T) {
	clock := newFakeClock()
	base := clock.Now()

	t.Run("arm", func(t *testing.T) {
		tracker := newTracker(t, repcount.BicepCurl, clock)
		for i := 0; i < 5; i++ {
			at := base.Add(time.Duration(i) * time.Second)
			tracker.ProcessPoseAt(armPose(visible(170), hidden()), at)
			assert.True(t, tracker.ProcessPoseAt(armPose(visible(40), hidden()), at.Add(500*time.Millisecond)), "rep %d", i+1)
		}
		assert.Equal(t, 5, tracker.RepCounts().Left)
	})

	t.Run("arm frames inside the gap", func(t *testing.T) {
		tracker := newTracker(t, repcount.BicepCurl, clock)
		tracker.ProcessPoseAt(armPose(visible(170), hidden()), base)
		require.True(t, tracker.ProcessPoseAt(armPose(visible(40), hidden()), base.Add(100*time.Millisecond)))
		tracker.ProcessPoseAt(armPose(visible(170), hidden()), base.Add(200*time.Millisecond))
		assert.False(t, tracker.ProcessPoseAt(armPose(visible(40), hidden()), base.Add(300*time.Millisecond)))
	})

	t.Run("squat", func(t *testing.T) {
		tracker := newTracker(t, repcount.Squat, clock)
		tracker.ProcessPoseAt(legPose(visible(170), visible(170)), base)
		for i := 1; i <= 3; i++ {
			at := base.Add(time.Duration(i) * 2 * time.Second)
			tracker.ProcessPoseAt(legPose(visible(80), visible(80)), at.Add(-time.Second))
			assert.True(t, tracker.ProcessPoseAt(legPose(visible(170), visible(170)), at), "rep %d", i)
		}
		assert.Equal(t, 6, tracker.RepCounts().Total)
	})
}
