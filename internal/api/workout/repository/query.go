package workoutRepository

const (
	queryCreateSession = `
INSERT INTO workout_sessions (id, user_id, exercise, left_reps, right_reps, total_reps,
                              duration_seconds, reps_per_minute, config, started_at, finished_at)
VALUES (:id, :user_id, :exercise, :left_reps, :right_reps, :total_reps,
        :duration_seconds, :reps_per_minute, :config, :started_at, :finished_at)`

	queryCreateRepEvent = `
INSERT INTO rep_events (session_id, seq, elapsed_seconds, total_reps)
VALUES (:session_id, :seq, :elapsed_seconds, :total_reps)`

	queryListByUser = `
SELECT id, user_id, exercise, left_reps, right_reps, total_reps, duration_seconds,
       reps_per_minute, config, started_at, finished_at
FROM workout_sessions
    WHERE user_id = :user_id
ORDER BY finished_at DESC
LIMIT :limit`

	queryGetByID = `
SELECT id, user_id, exercise, left_reps, right_reps, total_reps, duration_seconds,
       reps_per_minute, config, started_at, finished_at
FROM workout_sessions
    WHERE id = :id`

	queryListRepEvents = `
SELECT session_id, seq, elapsed_seconds, total_reps
FROM rep_events
    WHERE session_id = :session_id
ORDER BY seq`
)
