package workoutService

import (
	"FitnessGolang/internal/api/workout"
	"FitnessGolang/internal/entity"
	contextPkg "FitnessGolang/pkg/context"
	"FitnessGolang/pkg/repcount"
	"context"
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

const defaultHistoryLimit = 20

var exerciseDisplay = map[repcount.Exercise]struct{ name, joint string }{
	repcount.BicepCurl:     {"Bicep Curl", "elbow"},
	repcount.ShoulderPress: {"Shoulder Press", "elbow"},
	repcount.Squat:         {"Squat", "knee"},
}

// Finish stops the session, stores it for the dashboard and releases it. The
// session stays live when the write fails so the client can retry.
func (s *recordDomainImpl) Finish(ctx context.Context, id string, userID string) (workout.SessionSummary, error) {
	requestID := contextPkg.GetRequestID(ctx)

	session, ok := s.store.get(id)
	if !ok {
		return workout.SessionSummary{}, workout.ErrSessionNotFound
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	// A concurrent Finish may have stored and released it while we waited.
	if current, ok := s.store.get(id); !ok || current != session {
		return workout.SessionSummary{}, workout.ErrSessionNotFound
	}

	if session.userID != "" && session.userID != userID {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"session_id": id,
			"user_id":    userID,
		}).Warn("Finish attempted by non-owner")
		return workout.SessionSummary{}, workout.ErrSessionNotOwned
	}

	// The snapshot is taken without pausing, so a failed save leaves the
	// session running exactly as it was.
	now := s.now()
	snap := session.snapshot(now)

	cfg, err := jsoniter.MarshalToString(snap.Config)
	if err != nil {
		return workout.SessionSummary{}, err
	}

	startedAt := session.startedAt
	if startedAt.IsZero() {
		startedAt = session.createdAt
	}

	record := entity.WorkoutSession{
		ID:              session.id,
		UserID:          userID,
		Exercise:        session.exercise.String(),
		LeftReps:        snap.Reps.Left,
		RightReps:       snap.Reps.Right,
		TotalReps:       snap.Reps.Total,
		DurationSeconds: snap.DurationSeconds,
		RepsPerMinute:   snap.RepsPerMinute,
		Config:          cfg,
		StartedAt:       startedAt,
		FinishedAt:      now,
	}

	if err := s.save(ctx, record, snap.History); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"session_id": id,
			"error":      err.Error(),
		}).Error("Failed to save workout session")
		return workout.SessionSummary{}, fmt.Errorf("%w: %v", workout.ErrSaveSession, err)
	}

	session.pause(now)
	if s.store.remove(id) {
		s.metrics.SessionClosed()
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"session_id": id,
		"total_reps": record.TotalReps,
		"duration":   record.DurationSeconds,
	}).Info("Workout session finished")

	return s.toSummary(requestID, record, snap.History), nil
}

func (s *recordDomainImpl) save(ctx context.Context, record entity.WorkoutSession, history []workout.HistoryPoint) error {
	repo, err := s.repo.NewClient(true)
	if err != nil {
		return err
	}

	if err := repo.Sessions.CreateSession(ctx, record); err != nil {
		_ = repo.Rollback()
		return err
	}

	events := make([]entity.RepEvent, 0, len(history))
	for i, point := range history {
		events = append(events, entity.RepEvent{
			SessionID:      record.ID,
			Seq:            i,
			ElapsedSeconds: point.ElapsedSeconds,
			TotalReps:      point.Count,
		})
	}

	if err := repo.Sessions.CreateRepEvents(ctx, events); err != nil {
		_ = repo.Rollback()
		return err
	}

	return repo.Commit()
}

func (s *recordDomainImpl) History(ctx context.Context, userID string, limit int) ([]workout.SessionSummary, error) {
	requestID := contextPkg.GetRequestID(ctx)
	if limit <= 0 {
		limit = defaultHistoryLimit
	}

	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return nil, err
	}

	records, err := repo.Sessions.ListByUser(ctx, userID, limit)
	if err != nil {
		return nil, err
	}

	summaries := make([]workout.SessionSummary, 0, len(records))
	for _, record := range records {
		summaries = append(summaries, s.toSummary(requestID, record, nil))
	}
	return summaries, nil
}

func (s *recordDomainImpl) Detail(ctx context.Context, id string, userID string) (workout.SessionSummary, error) {
	requestID := contextPkg.GetRequestID(ctx)
	repo, err := s.repo.NewClient(false)
	if err != nil {
		return workout.SessionSummary{}, err
	}

	record, err := repo.Sessions.GetByID(ctx, id)
	if err != nil {
		return workout.SessionSummary{}, err
	}
	if record.UserID != userID {
		// Other users' sessions are reported as missing.
		return workout.SessionSummary{}, workout.ErrSessionNotFound
	}

	events, err := repo.Sessions.ListRepEvents(ctx, id)
	if err != nil {
		return workout.SessionSummary{}, err
	}

	history := make([]workout.HistoryPoint, 0, len(events))
	for _, e := range events {
		history = append(history, workout.HistoryPoint{ElapsedSeconds: e.ElapsedSeconds, Count: e.TotalReps})
	}
	return s.toSummary(requestID, record, history), nil
}

func (s *recordDomainImpl) Exercises() []workout.ExerciseInfo {
	exercises := repcount.Exercises()
	list := make([]workout.ExerciseInfo, 0, len(exercises))

	for _, ex := range exercises {
		cfg, err := repcount.DefaultConfig(ex)
		if err != nil {
			continue
		}
		display := exerciseDisplay[ex]
		list = append(list, workout.ExerciseInfo{
			Exercise: ex,
			Name:     display.name,
			Joint:    display.joint,
			Config:   workout.NewConfigResponse(cfg),
		})
	}
	return list
}

// toSummary still returns the counts when the stored config cannot be read;
// the config is left zero.
func (s *recordDomainImpl) toSummary(requestID string, record entity.WorkoutSession, history []workout.HistoryPoint) workout.SessionSummary {
	var cfg workout.ConfigResponse
	if err := jsoniter.UnmarshalFromString(record.Config, &cfg); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"session_id": record.ID,
			"error":      err.Error(),
		}).Warn("Failed to decode stored tracker config")
		cfg = workout.ConfigResponse{}
	}

	return workout.SessionSummary{
		ID:              record.ID,
		Exercise:        record.Exercise,
		LeftReps:        record.LeftReps,
		RightReps:       record.RightReps,
		TotalReps:       record.TotalReps,
		DurationSeconds: record.DurationSeconds,
		RepsPerMinute:   record.RepsPerMinute,
		Config:          cfg,
		StartedAt:       record.StartedAt,
		FinishedAt:      record.FinishedAt,
		History:         history,
	}
}
