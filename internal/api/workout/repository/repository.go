package workoutRepository

import (
	"FitnessGolang/internal/entity"
	"context"

	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

func New(db *sqlx.DB, log *logrus.Logger) Repository {
	return &repository{
		DB:  db,
		log: log,
	}
}

type repository struct {
	DB  *sqlx.DB
	log *logrus.Logger
}

type Repository interface {
	NewClient(tx bool) (Client, error)
}

type SessionStore interface {
	CreateSession(ctx context.Context, session entity.WorkoutSession) error
	CreateRepEvents(ctx context.Context, events []entity.RepEvent) error
	ListByUser(ctx context.Context, userID string, limit int) ([]entity.WorkoutSession, error)
	GetByID(ctx context.Context, id string) (entity.WorkoutSession, error)
	ListRepEvents(ctx context.Context, sessionID string) ([]entity.RepEvent, error)
}

type Client struct {
	Sessions SessionStore

	Commit   func() error
	Rollback func() error
}

func (r *repository) NewClient(tx bool) (Client, error) {
	var db sqlx.ExtContext
	var commitFunc, rollbackFunc func() error

	db = r.DB

	if tx {
		txx, err := r.DB.Beginx()
		if err != nil {
			return Client{}, err
		}

		db = txx
		commitFunc = txx.Commit
		rollbackFunc = txx.Rollback
	} else {
		commitFunc = func() error { return nil }
		rollbackFunc = func() error { return nil }
	}

	return Client{
		Sessions: &sessionRepository{q: db, log: r.log},
		Commit:   commitFunc,
		Rollback: rollbackFunc,
	}, nil
}

type sessionRepository struct {
	q   sqlx.ExtContext
	log *logrus.Logger
}
