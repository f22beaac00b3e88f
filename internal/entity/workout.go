package entity

import "time"

// WorkoutSession is a finished live session as stored for the dashboard.
type WorkoutSession struct {
	ID              string    `db:"id"`
	UserID          string    `db:"user_id"`
	Exercise        string    `db:"exercise"`
	LeftReps        int       `db:"left_reps"`
	RightReps       int       `db:"right_reps"`
	TotalReps       int       `db:"total_reps"`
	DurationSeconds int       `db:"duration_seconds"`
	RepsPerMinute   float64   `db:"reps_per_minute"`
	Config          string    `db:"config"`
	StartedAt       time.Time `db:"started_at"`
	FinishedAt      time.Time `db:"finished_at"`
}

// RepEvent is one point of the rep progress chart.
type RepEvent struct {
	SessionID      string `db:"session_id"`
	Seq            int    `db:"seq"`
	ElapsedSeconds int    `db:"elapsed_seconds"`
	TotalReps      int    `db:"total_reps"`
}
