package workout

import (
	"FitnessGolang/pkg/repcount"
	"time"
)

type CreateSessionRequest struct {
	Exercise string            `json:"exercise" validate:"required,max=32"`
	Config   repcount.Override `json:"config"`
}

// DefaultFrameInterval spaces batched poses that carry no timestamps, 30 fps.
const DefaultFrameInterval = time.Second / 30

// PoseBatchRequest is a recorded clip. Frame spacing comes from the pose
// timestamps when all are set, else from FrameIntervalMs.
type PoseBatchRequest struct {
	Poses           []*repcount.Pose `json:"poses" validate:"required,min=1,max=300"`
	FrameIntervalMs int64            `json:"frame_interval_ms" validate:"omitempty,min=1,max=2000"`
}

func (r PoseBatchRequest) FrameInterval() time.Duration {
	return time.Duration(r.FrameIntervalMs) * time.Millisecond
}

// StreamQuery configures the session opened by the live WebSocket.
type StreamQuery struct {
	Exercise             string   `query:"exercise" validate:"required,max=32"`
	ExtendedAngle        *float64 `query:"extended_angle"`
	FlexedAngle          *float64 `query:"flexed_angle"`
	MinConfidence        *float64 `query:"min_confidence"`
	MinTimeBetweenRepsMs *int64   `query:"min_time_between_reps_ms"`
}

func (q StreamQuery) CreateRequest() CreateSessionRequest {
	return CreateSessionRequest{
		Exercise: q.Exercise,
		Config: repcount.Override{
			ExtendedAngle:        q.ExtendedAngle,
			FlexedAngle:          q.FlexedAngle,
			MinConfidence:        q.MinConfidence,
			MinTimeBetweenRepsMs: q.MinTimeBetweenRepsMs,
		},
	}
}

type HistoryQuery struct {
	Limit int `query:"limit" validate:"omitempty,min=1,max=100"`
}

type ConfigResponse struct {
	ExtendedAngle        float64 `json:"extended_angle"`
	FlexedAngle          float64 `json:"flexed_angle"`
	MinConfidence        float64 `json:"min_confidence"`
	MinTimeBetweenRepsMs int64   `json:"min_time_between_reps_ms"`
}

func NewConfigResponse(cfg repcount.Config) ConfigResponse {
	return ConfigResponse{
		ExtendedAngle:        cfg.ExtendedAngle,
		FlexedAngle:          cfg.FlexedAngle,
		MinConfidence:        cfg.MinConfidence,
		MinTimeBetweenRepsMs: cfg.MinTimeBetweenReps.Milliseconds(),
	}
}

// HistoryPoint is one sample of the rep progress chart: total reps after
// ElapsedSeconds of active time.
type HistoryPoint struct {
	ElapsedSeconds int `json:"elapsed_seconds"`
	Count          int `json:"count"`
}

type SessionSnapshot struct {
	ID              string             `json:"id"`
	Exercise        repcount.Exercise  `json:"exercise"`
	Active          bool               `json:"active"`
	State           repcount.Phase     `json:"state"`
	StateLabel      string             `json:"state_label"`
	Reps            repcount.RepCounts `json:"reps"`
	Angles          repcount.Angles    `json:"angles"`
	DurationSeconds int                `json:"duration_seconds"`
	RepsPerMinute   float64            `json:"reps_per_minute"`
	History         []HistoryPoint     `json:"history"`
	Config          ConfigResponse     `json:"config"`
}

type FrameResult struct {
	RepCounted bool            `json:"rep_counted"`
	Session    SessionSnapshot `json:"session"`
}

type BatchResult struct {
	RepsCounted int             `json:"reps_counted"`
	Session     SessionSnapshot `json:"session"`
}

type ExerciseInfo struct {
	Exercise repcount.Exercise `json:"exercise"`
	Name     string            `json:"name"`
	Joint    string            `json:"joint"`
	Config   ConfigResponse    `json:"config"`
}

type SessionSummary struct {
	ID              string         `json:"id"`
	Exercise        string         `json:"exercise"`
	LeftReps        int            `json:"left_reps"`
	RightReps       int            `json:"right_reps"`
	TotalReps       int            `json:"total_reps"`
	DurationSeconds int            `json:"duration_seconds"`
	RepsPerMinute   float64        `json:"reps_per_minute"`
	Config          ConfigResponse `json:"config"`
	StartedAt       time.Time      `json:"started_at"`
	FinishedAt      time.Time      `json:"finished_at"`
	History         []HistoryPoint `json:"history,omitempty"`
}

type HistoryResponse struct {
	Sessions []SessionSummary `json:"sessions"`
}

type ExercisesResponse struct {
	Exercises []ExerciseInfo `json:"exercises"`
}

// Stream command types sent by the live WebSocket client.
const (
	CommandPose   = "pose"
	CommandStart  = "start"
	CommandPause  = "pause"
	CommandReset  = "reset"
	CommandFinish = "finish"
)

// Stream message types sent back to the client.
const (
	MessageSession  = "session"
	MessageFrame    = "frame"
	MessageFinished = "finished"
	MessageError    = "error"
)

type StreamCommand struct {
	Type string         `json:"type"`
	Pose *repcount.Pose `json:"pose,omitempty"`
}

type StreamMessage struct {
	Type       string           `json:"type"`
	RepCounted bool             `json:"rep_counted"`
	Session    *SessionSnapshot `json:"session,omitempty"`
	Summary    *SessionSummary  `json:"summary,omitempty"`
	Error      string           `json:"error,omitempty"`
}
