package workoutService

import (
	"FitnessGolang/internal/api/workout"
	contextPkg "FitnessGolang/pkg/context"
	"FitnessGolang/pkg/repcount"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	outcomeIgnored = "ignored"
	outcomeNoPose  = "no_pose"
	outcomeCounted = "counted"
	outcomeTracked = "tracked"
)

func (s *sessionDomainImpl) Create(ctx context.Context, req workout.CreateSessionRequest, userID string) (workout.SessionSnapshot, error) {
	requestID := contextPkg.GetRequestID(ctx)
	exercise := repcount.Exercise(strings.ToUpper(strings.TrimSpace(req.Exercise)))

	tracker, err := repcount.New(exercise, req.Config, repcount.WithClock(s.now))
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"exercise":   req.Exercise,
			"error":      err.Error(),
		}).Warn("Failed to build exercise tracker")

		switch {
		case errors.Is(err, repcount.ErrUnknownExercise):
			return workout.SessionSnapshot{}, workout.ErrUnknownExercise
		case errors.Is(err, repcount.ErrInvalidConfig):
			return workout.SessionSnapshot{}, fmt.Errorf("%w: %v", workout.ErrInvalidConfig, err)
		default:
			return workout.SessionSnapshot{}, err
		}
	}

	now := s.now()
	id, err := s.utils.NewULIDFromTimestamp(now)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to generate ULID")
		return workout.SessionSnapshot{}, err
	}

	session := &liveSession{
		id:        id,
		userID:    userID,
		exercise:  exercise,
		tracker:   tracker,
		createdAt: now,
		lastSeen:  now,
	}
	s.store.put(session)
	s.metrics.SessionOpened()

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"session_id": id,
		"exercise":   exercise,
		"user_id":    userID,
	}).Info("Workout session created")

	return session.snapshot(now), nil
}

func (s *sessionDomainImpl) session(ctx context.Context, id string) (*liveSession, error) {
	session, ok := s.store.get(id)
	if !ok {
		s.log.WithFields(logrus.Fields{
			"request_id": contextPkg.GetRequestID(ctx),
			"session_id": id,
		}).Warn("Workout session not found")
		return nil, workout.ErrSessionNotFound
	}
	return session, nil
}

// with runs fn on the session under its lock and returns the resulting
// snapshot.
func (s *sessionDomainImpl) with(ctx context.Context, id string, fn func(*liveSession, time.Time)) (workout.SessionSnapshot, error) {
	session, err := s.session(ctx, id)
	if err != nil {
		return workout.SessionSnapshot{}, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	now := s.now()
	fn(session, now)
	return session.snapshot(now), nil
}

func (s *sessionDomainImpl) Get(ctx context.Context, id string) (workout.SessionSnapshot, error) {
	return s.with(ctx, id, func(*liveSession, time.Time) {})
}

func (s *sessionDomainImpl) Start(ctx context.Context, id string) (workout.SessionSnapshot, error) {
	return s.with(ctx, id, func(ls *liveSession, now time.Time) {
		ls.start(now)
	})
}

func (s *sessionDomainImpl) Pause(ctx context.Context, id string) (workout.SessionSnapshot, error) {
	return s.with(ctx, id, func(ls *liveSession, now time.Time) {
		ls.pause(now)
	})
}

func (s *sessionDomainImpl) Reset(ctx context.Context, id string) (workout.SessionSnapshot, error) {
	return s.with(ctx, id, func(ls *liveSession, now time.Time) {
		ls.reset(now)
	})
}

func (s *sessionDomainImpl) ProcessPose(ctx context.Context, id string, pose *repcount.Pose) (workout.FrameResult, error) {
	session, err := s.session(ctx, id)
	if err != nil {
		return workout.FrameResult{}, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	now := s.now()
	counted := s.feed(session, pose, now, laterOf(now, session.lastFrameAt))
	return workout.FrameResult{
		RepCounted: counted,
		Session:    session.snapshot(now),
	}, nil
}

// ProcessPoses replays a recorded batch. Frames keep their spacing so the
// debounce applies between frames rather than to the whole batch.
func (s *sessionDomainImpl) ProcessPoses(ctx context.Context, id string, poses []*repcount.Pose, frameInterval time.Duration) (workout.BatchResult, error) {
	session, err := s.session(ctx, id)
	if err != nil {
		return workout.BatchResult{}, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	now := s.now()
	times := frameTimes(poses, now, frameInterval, session.lastFrameAt)

	counted := 0
	for i, pose := range poses {
		if s.feed(session, pose, now, times[i]) {
			counted++
		}
	}

	return workout.BatchResult{
		RepsCounted: counted,
		Session:     session.snapshot(now),
	}, nil
}

// frameTimes lays a batch out on the server clock with the last frame at now.
// Client timestamps set the spacing when every pose carries one, otherwise
// frames are interval apart. Times never go back past the previous frame.
func frameTimes(poses []*repcount.Pose, now time.Time, interval time.Duration, floor time.Time) []time.Time {
	if interval <= 0 {
		interval = workout.DefaultFrameInterval
	}

	stamped := len(poses) > 0
	for _, p := range poses {
		if p == nil || p.Timestamp <= 0 {
			stamped = false
			break
		}
	}

	times := make([]time.Time, len(poses))
	last := len(poses) - 1
	for i := range poses {
		var at time.Time
		if stamped {
			at = now.Add(-time.Duration(poses[last].Timestamp-poses[i].Timestamp) * time.Millisecond)
		} else {
			at = now.Add(-time.Duration(last-i) * interval)
		}
		if at.After(now) {
			at = now
		}
		if i > 0 {
			floor = laterOf(floor, times[i-1])
		}
		times[i] = laterOf(at, floor)
	}
	return times
}

func laterOf(a, b time.Time) time.Time {
	if b.After(a) {
		return b
	}
	return a
}

func (s *sessionDomainImpl) ProcessFrame(ctx context.Context, id string, frame []byte) (workout.FrameResult, error) {
	requestID := contextPkg.GetRequestID(ctx)
	if _, err := s.session(ctx, id); err != nil {
		return workout.FrameResult{}, err
	}

	if s.estimator == nil {
		return workout.FrameResult{}, workout.ErrPoseEstimatorUnavailable
	}

	pose, err := s.estimator.EstimatePose(frame)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id":  requestID,
			"session_id":  id,
			"frame_bytes": len(frame),
			"error":       err.Error(),
		}).Error("Pose estimation failed")
		return workout.FrameResult{}, fmt.Errorf("%w: %v", workout.ErrPoseEstimatorUnavailable, err)
	}

	return s.ProcessPose(ctx, id, pose)
}

// feed hands one frame captured at at to the tracker. Frames are ignored while
// the session is paused. Caller holds ls.mu.
func (s *sessionDomainImpl) feed(ls *liveSession, pose *repcount.Pose, now, at time.Time) bool {
	ls.lastSeen = now
	exercise := ls.exercise.String()

	if !ls.active {
		s.metrics.PoseProcessed(exercise, outcomeIgnored)
		return false
	}
	ls.lastFrameAt = at
	if pose.Empty() {
		s.metrics.PoseProcessed(exercise, outcomeNoPose)
		return false
	}

	before := ls.tracker.RepCounts()
	if !ls.tracker.ProcessPoseAt(pose, at) {
		s.metrics.PoseProcessed(exercise, outcomeTracked)
		return false
	}

	after := ls.tracker.RepCounts()
	s.metrics.PoseProcessed(exercise, outcomeCounted)
	s.metrics.RepsCounted(exercise, "left", after.Left-before.Left)
	s.metrics.RepsCounted(exercise, "right", after.Right-before.Right)

	ls.history = append(ls.history, workout.HistoryPoint{
		ElapsedSeconds: ls.elapsedAt(at),
		Count:          after.Total,
	})
	return true
}

func (s *sessionDomainImpl) Discard(ctx context.Context, id string) error {
	if !s.store.remove(id) {
		return workout.ErrSessionNotFound
	}
	s.metrics.SessionClosed()

	s.log.WithFields(logrus.Fields{
		"request_id": contextPkg.GetRequestID(ctx),
		"session_id": id,
	}).Info("Workout session discarded")
	return nil
}

// EvictIdle drops sessions that have seen no frame or command for idle and
// returns how many were removed.
func (s *sessionDomainImpl) EvictIdle(idle time.Duration) int {
	now := s.now()
	evicted := 0

	for _, session := range s.store.all() {
		session.mu.Lock()
		stale := now.Sub(session.lastSeen) > idle
		session.mu.Unlock()

		if stale && s.store.remove(session.id) {
			s.metrics.SessionClosed()
			evicted++
		}
	}

	return evicted
}
