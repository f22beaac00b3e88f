package dietService

import (
	"FitnessGolang/internal/api/diet"
	"FitnessGolang/pkg/gemini"
	"FitnessGolang/pkg/metrics"
	"FitnessGolang/pkg/openai"
	"FitnessGolang/pkg/redis"
	"context"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	ProviderOpenAI = "openai"
	ProviderGemini = "gemini"

	planCacheTTL = 24 * time.Hour
)

type IDietService interface {
	GeneratePlan(ctx context.Context, req diet.PlanRequest) (diet.PlanResponse, error)
}

// Planner is one hosted language model able to answer in JSON.
type Planner interface {
	Name() string
	Complete(ctx context.Context, system string, prompt string) (string, error)
}

type openAIPlanner struct {
	client openai.IChatGPT
}

func (p openAIPlanner) Name() string { return ProviderOpenAI }

func (p openAIPlanner) Complete(ctx context.Context, system string, prompt string) (string, error) {
	return p.client.CompleteJSON(ctx, system, prompt)
}

type geminiPlanner struct {
	client gemini.IGemini
}

func (p geminiPlanner) Name() string { return ProviderGemini }

func (p geminiPlanner) Complete(ctx context.Context, system string, prompt string) (string, error) {
	return p.client.GenerateJSON(ctx, system, prompt)
}

// SelectPlanner picks the provider named by DIET_LLM_PROVIDER, falling back to
// whichever client is configured. It returns nil when neither is.
func SelectPlanner(chat openai.IChatGPT, gem gemini.IGemini) Planner {
	preferred := strings.ToLower(strings.TrimSpace(os.Getenv("DIET_LLM_PROVIDER")))

	if preferred == ProviderGemini && gem != nil {
		return geminiPlanner{client: gem}
	}
	if chat != nil {
		return openAIPlanner{client: chat}
	}
	if gem != nil {
		return geminiPlanner{client: gem}
	}
	return nil
}

type dietService struct {
	log     *logrus.Logger
	planner Planner
	cache   redis.IRedis
	metrics *metrics.Manager
}

func NewDietService(log *logrus.Logger, planner Planner, cache redis.IRedis, metrics *metrics.Manager) IDietService {
	return &dietService{
		log:     log,
		planner: planner,
		cache:   cache,
		metrics: metrics,
	}
}
