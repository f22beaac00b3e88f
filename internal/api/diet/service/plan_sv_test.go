package dietService

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"FitnessGolang/internal/api/diet"
	"FitnessGolang/pkg/gemini"
	"FitnessGolang/pkg/metrics"
	"FitnessGolang/pkg/openai"
	"FitnessGolang/pkg/redis"

	jsoniter "github.com/json-iterator/go"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePlanner struct {
	name    string
	reply   string
	err     error
	calls   int
	prompts []string
}

func (f *fakePlanner) Name() string { return f.name }

func (f *fakePlanner) Complete(_ context.Context, system string, prompt string) (string, error) {
	f.calls++
	f.prompts = append(f.prompts, system+"\n"+prompt)
	return f.reply, f.err
}

type memoryCache struct {
	mu      sync.Mutex
	values  map[string]string
	readErr error
}

func newMemoryCache() *memoryCache {
	return &memoryCache{values: map[string]string{}}
}

func (m *memoryCache) SetJSON(_ context.Context, key string, value any, _ time.Duration) error {
	raw, err := jsoniter.MarshalToString(value)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = raw
	return nil
}

func (m *memoryCache) GetJSON(_ context.Context, key string, dest any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.readErr != nil {
		return m.readErr
	}
	raw, ok := m.values[key]
	if !ok {
		return redis.ErrCacheMiss
	}
	return jsoniter.UnmarshalFromString(raw, dest)
}

func (m *memoryCache) Take(context.Context, string) (string, error) { return "", redis.ErrCacheMiss }

func (m *memoryCache) Set(_ context.Context, key string, value string, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	return nil
}

func (m *memoryCache) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

func weekJSON() string {
	var parts []string
	for _, day := range diet.Days {
		parts = append(parts, fmt.Sprintf(`%q:{"breakfast":"Oats %[1]s","lunch":"Rice bowl","dinner":"Grilled fish"}`, day))
	}
	return "{" + strings.Join(parts, ",") + "}"
}

func newTestService(planner Planner, cache redis.IRedis) (IDietService, *metrics.Manager) {
	log := logrus.New()
	log.SetOutput(io.Discard)
	m := metrics.NewTestManager()
	return NewDietService(log, planner, cache, m), m
}

var request = diet.PlanRequest{Age: 29, Height: 172.5, Weight: 68}

func TestGeneratePlan(t *testing.T) {
	planner := &fakePlanner{name: ProviderOpenAI, reply: weekJSON()}
	svc, m := newTestService(planner, newMemoryCache())

	res, err := svc.GeneratePlan(context.Background(), request)
	require.NoError(t, err)
	require.Len(t, res.Days, 7)
	assert.Equal(t, "monday", res.Days[0].Day)
	assert.Equal(t, "Oats monday", res.Days[0].Breakfast)
	assert.Equal(t, "sunday", res.Days[6].Day)
	assert.Equal(t, ProviderOpenAI, res.Provider)
	assert.False(t, res.Cached)

	require.Len(t, planner.prompts, 1)
	assert.Contains(t, planner.prompts[0], "You are a helpful assistant that provides diet plans.")
	assert.Contains(t, planner.prompts[0], "User Age: 29")
	assert.Contains(t, planner.prompts[0], "Height: 172.5 cm")
	assert.Contains(t, planner.prompts[0], "Weight: 68 kg")
	assert.Equal(t, 1, testutil.CollectAndCount(m.HistLLMRequest))
}

func TestGeneratePlan_Cached(t *testing.T) {
	planner := &fakePlanner{name: ProviderOpenAI, reply: weekJSON()}
	svc, _ := newTestService(planner, newMemoryCache())

	_, err := svc.GeneratePlan(context.Background(), request)
	require.NoError(t, err)

	res, err := svc.GeneratePlan(context.Background(), request)
	require.NoError(t, err)
	assert.True(t, res.Cached)
	assert.Len(t, res.Days, 7)
	assert.Equal(t, 1, planner.calls)

	other := request
	other.Weight = 70
	_, err = svc.GeneratePlan(context.Background(), other)
	require.NoError(t, err)
	assert.Equal(t, 2, planner.calls)
}

func TestGeneratePlan_CacheFailureIgnored(t *testing.T) {
	cache := newMemoryCache()
	cache.readErr = errors.New("connection refused")
	planner := &fakePlanner{name: ProviderGemini, reply: weekJSON()}
	svc, _ := newTestService(planner, cache)

	res, err := svc.GeneratePlan(context.Background(), request)
	require.NoError(t, err)
	assert.Equal(t, ProviderGemini, res.Provider)
}

func TestGeneratePlan_Errors(t *testing.T) {
	svc, _ := newTestService(nil, nil)
	_, err := svc.GeneratePlan(context.Background(), request)
	assert.ErrorIs(t, err, diet.ErrPlannerUnavailable)

	svc, _ = newTestService(&fakePlanner{name: ProviderOpenAI, err: errors.New("quota exceeded")}, nil)
	_, err = svc.GeneratePlan(context.Background(), request)
	assert.ErrorIs(t, err, diet.ErrPlannerUnavailable)

	svc, _ = newTestService(&fakePlanner{name: ProviderOpenAI, reply: "Sorry, I cannot help."}, nil)
	_, err = svc.GeneratePlan(context.Background(), request)
	assert.ErrorIs(t, err, diet.ErrInvalidPlanResponse)
}

func TestParsePlan(t *testing.T) {
	t.Run("markdown fence", func(t *testing.T) {
		days, err := ParsePlan("```json\n" + weekJSON() + "\n```")
		require.NoError(t, err)
		assert.Len(t, days, 7)
	})

	t.Run("capitalized days", func(t *testing.T) {
		days, err := ParsePlan(strings.ReplaceAll(weekJSON(), `"monday"`, `"Monday"`))
		require.NoError(t, err)
		assert.Equal(t, "monday", days[0].Day)
	})

	t.Run("missing day", func(t *testing.T) {
		_, err := ParsePlan(`{"monday":{"breakfast":"a","lunch":"b","dinner":"c"}}`)
		assert.ErrorIs(t, err, diet.ErrInvalidPlanResponse)
		assert.Contains(t, err.Error(), "tuesday")
	})

	t.Run("empty meal", func(t *testing.T) {
		_, err := ParsePlan(strings.Replace(weekJSON(), `"Rice bowl"`, `""`, 1))
		assert.ErrorIs(t, err, diet.ErrInvalidPlanResponse)
	})

	t.Run("not json", func(t *testing.T) {
		_, err := ParsePlan("{ nope }")
		assert.ErrorIs(t, err, diet.ErrInvalidPlanResponse)
	})
}

type stubChat struct{}

func (stubChat) CompleteJSON(context.Context, string, string) (string, error) { return "{}", nil }

type stubGemini struct{}

func (stubGemini) GenerateJSON(context.Context, string, string) (string, error) { return "{}", nil }
func (stubGemini) Close() error { return nil }

func TestSelectPlanner(t *testing.T) {
	tests := []struct {
		env  string
		chat bool
		gem  bool
		want string
	}{
		{env: "", chat: true, gem: true, want: ProviderOpenAI},
		{env: "gemini", chat: true, gem: true, want: ProviderGemini},
		{env: " Gemini ", chat: true, gem: false, want: ProviderOpenAI},
		{env: "openai", chat: false, gem: true, want: ProviderGemini},
		{env: "openai", chat: false, gem: false, want: ""},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("%q/%v/%v", tt.env, tt.chat, tt.gem), func(t *testing.T) {
			t.Setenv("DIET_LLM_PROVIDER", tt.env)

			var chat openai.IChatGPT
			if tt.chat {
				chat = stubChat{}
			}
			var gem gemini.IGemini
			if tt.gem {
				gem = stubGemini{}
			}

			planner := SelectPlanner(chat, gem)
			if tt.want == "" {
				assert.Nil(t, planner)
				return
			}
			require.NotNil(t, planner)
			assert.Equal(t, tt.want, planner.Name())
		})
	}
}
