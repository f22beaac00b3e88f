package workoutRepository

import (
	"FitnessGolang/internal/api/workout"
	"FitnessGolang/internal/entity"
	contextPkg "FitnessGolang/pkg/context"
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

func (r *sessionRepository) CreateSession(c context.Context, session entity.WorkoutSession) error {
	requestID := contextPkg.GetRequestID(c)

	query, args, err := sqlx.Named(queryCreateSession, session)
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to build SQL query for CreateSession")
		return err
	}
	query = r.q.Rebind(query)

	if _, err := r.q.ExecContext(c, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"session_id": session.ID,
			"error":      err.Error(),
		}).Error("Database error when creating workout session")
		return err
	}

	return nil
}

func (r *sessionRepository) CreateRepEvents(c context.Context, events []entity.RepEvent) error {
	requestID := contextPkg.GetRequestID(c)

	for _, event := range events {
		query, args, err := sqlx.Named(queryCreateRepEvent, event)
		if err != nil {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Error("Failed to build SQL query for CreateRepEvents")
			return err
		}
		query = r.q.Rebind(query)

		if _, err := r.q.ExecContext(c, query, args...); err != nil {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"session_id": event.SessionID,
				"seq":        event.Seq,
				"error":      err.Error(),
			}).Error("Database error when creating rep event")
			return err
		}
	}

	return nil
}

func (r *sessionRepository) ListByUser(c context.Context, userID string, limit int) ([]entity.WorkoutSession, error) {
	requestID := contextPkg.GetRequestID(c)

	query, args, err := sqlx.Named(queryListByUser, map[string]interface{}{
		"user_id": userID,
		"limit":   limit,
	})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("ListByUser named query preparation err")
		return nil, err
	}
	query = r.q.Rebind(query)

	var sessions []entity.WorkoutSession
	if err := sqlx.SelectContext(c, r.q, &sessions, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("ListByUser execution err")
		return nil, err
	}

	return sessions, nil
}

func (r *sessionRepository) GetByID(c context.Context, id string) (entity.WorkoutSession, error) {
	requestID := contextPkg.GetRequestID(c)

	query, args, err := sqlx.Named(queryGetByID, map[string]interface{}{"id": id})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetByID named query preparation err")
		return entity.WorkoutSession{}, err
	}
	query = r.q.Rebind(query)

	var session entity.WorkoutSession
	if err := r.q.QueryRowxContext(c, query, args...).StructScan(&session); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			r.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"session_id": id,
			}).Warn("GetByID no rows found")
			return entity.WorkoutSession{}, workout.ErrSessionNotFound
		}
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("GetByID execution err")
		return entity.WorkoutSession{}, err
	}

	return session, nil
}

func (r *sessionRepository) ListRepEvents(c context.Context, sessionID string) ([]entity.RepEvent, error) {
	requestID := contextPkg.GetRequestID(c)

	query, args, err := sqlx.Named(queryListRepEvents, map[string]interface{}{"session_id": sessionID})
	if err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("ListRepEvents named query preparation err")
		return nil, err
	}
	query = r.q.Rebind(query)

	var events []entity.RepEvent
	if err := sqlx.SelectContext(c, r.q, &events, query, args...); err != nil {
		r.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("ListRepEvents execution err")
		return nil, err
	}

	return events, nil
}
