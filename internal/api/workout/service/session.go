package workoutService

import (
	"FitnessGolang/internal/api/workout"
	"FitnessGolang/pkg/repcount"
	"math"
	"sync"
	"time"
)

// liveSession owns one tracker. mu serializes every frame and control
// command, so the tracker never sees concurrent calls.
type liveSession struct {
	mu sync.Mutex

	id        string
	userID    string
	exercise  repcount.Exercise
	tracker   repcount.Tracker
	createdAt time.Time
	lastSeen  time.Time

	// lastFrameAt is the capture time of the newest frame fed to the tracker.
	lastFrameAt time.Time

	active      bool
	startedAt   time.Time
	activeSince time.Time
	accumulated time.Duration
	history     []workout.HistoryPoint
}

func (s *liveSession) start(now time.Time) {
	s.lastSeen = now
	if s.active {
		return
	}
	if s.startedAt.IsZero() {
		s.startedAt = now
	}
	if len(s.history) == 0 {
		s.history = append(s.history, workout.HistoryPoint{})
	}
	s.active = true
	s.activeSince = now
}

func (s *liveSession) pause(now time.Time) {
	s.lastSeen = now
	if !s.active {
		return
	}
	s.accumulated += now.Sub(s.activeSince)
	s.active = false
}

func (s *liveSession) reset(now time.Time) {
	s.tracker.Reset()
	s.lastSeen = now
	s.active = false
	s.startedAt = time.Time{}
	s.activeSince = time.Time{}
	s.accumulated = 0
	s.history = nil
}

// durationSeconds is the whole seconds of active time, the unit the workout
// timer shows.
func (s *liveSession) durationSeconds(now time.Time) int {
	d := s.accumulated
	if s.active {
		d += now.Sub(s.activeSince)
	}
	return int(d / time.Second)
}

// elapsedAt places a rep captured at at on the history chart. Batched frames
// can predate the current active stretch, so the value is kept monotonic.
func (s *liveSession) elapsedAt(at time.Time) int {
	elapsed := s.durationSeconds(at)
	if n := len(s.history); n > 0 && elapsed < s.history[n-1].ElapsedSeconds {
		elapsed = s.history[n-1].ElapsedSeconds
	}
	if elapsed < 0 {
		elapsed = 0
	}
	return elapsed
}

func (s *liveSession) snapshot(now time.Time) workout.SessionSnapshot {
	counts := s.tracker.RepCounts()
	duration := s.durationSeconds(now)
	state := s.tracker.State()

	history := make([]workout.HistoryPoint, len(s.history))
	copy(history, s.history)

	return workout.SessionSnapshot{
		ID:              s.id,
		Exercise:        s.exercise,
		Active:          s.active,
		State:           state,
		StateLabel:      state.Label(),
		Reps:            counts,
		Angles:          s.tracker.CurrentAngles(),
		DurationSeconds: duration,
		RepsPerMinute:   repsPerMinute(counts.Total, duration),
		History:         history,
		Config:          workout.NewConfigResponse(s.tracker.Config()),
	}
}

func repsPerMinute(total, durationSeconds int) float64 {
	if durationSeconds <= 0 {
		return 0
	}
	return math.Round(float64(total)/float64(durationSeconds)*60*10) / 10
}

type sessionStore struct {
	mu       sync.RWMutex
	sessions map[string]*liveSession
}

func newSessionStore() *sessionStore {
	return &sessionStore{sessions: make(map[string]*liveSession)}
}

func (st *sessionStore) get(id string) (*liveSession, bool) {
	st.mu.RLock()
	defer st.mu.RUnlock()
	s, ok := st.sessions[id]
	return s, ok
}

func (st *sessionStore) put(s *liveSession) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.sessions[s.id] = s
}

func (st *sessionStore) remove(id string) bool {
	st.mu.Lock()
	defer st.mu.Unlock()
	if _, ok := st.sessions[id]; !ok {
		return false
	}
	delete(st.sessions, id)
	return true
}

func (st *sessionStore) all() []*liveSession {
	st.mu.RLock()
	defer st.mu.RUnlock()
	list := make([]*liveSession, 0, len(st.sessions))
	for _, s := range st.sessions {
		list = append(list, s)
	}
	return list
}
