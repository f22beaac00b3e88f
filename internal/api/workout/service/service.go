package workoutService

import (
	"FitnessGolang/internal/api/workout"
	workoutRepository "FitnessGolang/internal/api/workout/repository"
	"FitnessGolang/pkg/metrics"
	"FitnessGolang/pkg/repcount"
	"FitnessGolang/pkg/utils"
	"context"
	"time"

	"github.com/sirupsen/logrus"
)

type WorkoutService interface {
	Session() SessionDomain
	Record() RecordDomain
}

// SessionDomain drives live sessions held in memory.
type SessionDomain interface {
	Create(ctx context.Context, req workout.CreateSessionRequest, userID string) (workout.SessionSnapshot, error)
	Get(ctx context.Context, id string) (workout.SessionSnapshot, error)
	Start(ctx context.Context, id string) (workout.SessionSnapshot, error)
	Pause(ctx context.Context, id string) (workout.SessionSnapshot, error)
	Reset(ctx context.Context, id string) (workout.SessionSnapshot, error)
	ProcessPose(ctx context.Context, id string, pose *repcount.Pose) (workout.FrameResult, error)
	ProcessPoses(ctx context.Context, id string, poses []*repcount.Pose, frameInterval time.Duration) (workout.BatchResult, error)
	ProcessFrame(ctx context.Context, id string, frame []byte) (workout.FrameResult, error)
	Discard(ctx context.Context, id string) error
	EvictIdle(idle time.Duration) int
}

// RecordDomain persists finished sessions and serves the dashboard.
type RecordDomain interface {
	Finish(ctx context.Context, id string, userID string) (workout.SessionSummary, error)
	History(ctx context.Context, userID string, limit int) ([]workout.SessionSummary, error)
	Detail(ctx context.Context, id string, userID string) (workout.SessionSummary, error)
	Exercises() []workout.ExerciseInfo
}

// PoseEstimator turns a camera frame into the best detected pose, or nil when
// nobody is in view.
type PoseEstimator interface {
	EstimatePose(frame []byte) (*repcount.Pose, error)
}

type Option func(*workoutService)

func WithClock(now func() time.Time) Option {
	return func(s *workoutService) {
		s.now = now
	}
}

type workoutService struct {
	log       *logrus.Logger
	repo      workoutRepository.Repository
	estimator PoseEstimator
	metrics   *metrics.Manager
	utils     utils.IUtils
	now       func() time.Time
	store     *sessionStore

	sessionDomain SessionDomain
	recordDomain  RecordDomain
}

func (s *workoutService) Session() SessionDomain {
	return s.sessionDomain
}

func (s *workoutService) Record() RecordDomain {
	return s.recordDomain
}

type sessionDomainImpl struct {
	*workoutService
}

type recordDomainImpl struct {
	*workoutService
}

func New(
	log *logrus.Logger,
	repo workoutRepository.Repository,
	estimator PoseEstimator,
	metrics *metrics.Manager,
	utils utils.IUtils,
	opts ...Option,
) WorkoutService {
	s := &workoutService{
		log:       log,
		repo:      repo,
		estimator: estimator,
		metrics:   metrics,
		utils:     utils,
		now:       time.Now,
		store:     newSessionStore(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.sessionDomain = &sessionDomainImpl{s}
	s.recordDomain = &recordDomainImpl{s}
	return s
}
