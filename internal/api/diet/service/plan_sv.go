package dietService

import (
	"FitnessGolang/internal/api/diet"
	contextPkg "FitnessGolang/pkg/context"
	"FitnessGolang/pkg/redis"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

const systemPrompt = "You are a helpful assistant that provides diet plans."

func planPrompt(req diet.PlanRequest) string {
	return fmt.Sprintf(`Generate a JSON diet plan for 7 days, containing meals for breakfast, lunch, and dinner.

- User Age: %d
- Height: %g cm
- Weight: %g kg

Return ONLY valid JSON. Do NOT include markdown formatting.

Example output format:
{
  "monday": {
    "breakfast": "Oatmeal with fruits",
    "lunch": "Grilled chicken with quinoa",
    "dinner": "Salmon with steamed vegetables"
  },
  "tuesday": { ... },
  ...
  "sunday": { ... }
}`, req.Age, req.Height, req.Weight)
}

func cacheKey(provider string, req diet.PlanRequest) string {
	return fmt.Sprintf("diet:plan:%s:%d:%g:%g", provider, req.Age, req.Height, req.Weight)
}

func (s *dietService) GeneratePlan(ctx context.Context, req diet.PlanRequest) (diet.PlanResponse, error) {
	requestID := contextPkg.GetRequestID(ctx)

	if s.planner == nil {
		s.log.WithField("request_id", requestID).Error("No diet planner configured")
		return diet.PlanResponse{}, diet.ErrPlannerUnavailable
	}

	provider := s.planner.Name()
	key := cacheKey(provider, req)

	if s.cache != nil {
		var cached diet.PlanResponse
		err := s.cache.GetJSON(ctx, key, &cached)
		switch {
		case err == nil:
			cached.Cached = true
			return cached, nil
		case !errors.Is(err, redis.ErrCacheMiss):
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Warn("Diet plan cache read failed")
		}
	}

	started := time.Now()
	reply, err := s.planner.Complete(ctx, systemPrompt, planPrompt(req))
	s.metrics.ObserveLLM(provider, started)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"provider":   provider,
			"error":      err.Error(),
		}).Error("Diet planner request failed")
		return diet.PlanResponse{}, fmt.Errorf("%w: %v", diet.ErrPlannerUnavailable, err)
	}

	days, err := ParsePlan(reply)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"provider":   provider,
			"error":      err.Error(),
		}).Warn("Diet planner returned an unusable plan")
		return diet.PlanResponse{}, err
	}

	res := diet.PlanResponse{Days: days, Provider: provider}

	if s.cache != nil {
		if err := s.cache.SetJSON(ctx, key, res, planCacheTTL); err != nil {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
				"error":      err.Error(),
			}).Warn("Diet plan cache write failed")
		}
	}

	return res, nil
}

// ParsePlan reads the JSON object in a model reply. Text around the outermost
// braces, such as a markdown fence, is ignored. Every day needs all three
// meals.
func ParsePlan(reply string) ([]diet.DayPlan, error) {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start < 0 || end <= start {
		return nil, fmt.Errorf("%w: no JSON object in reply", diet.ErrInvalidPlanResponse)
	}

	var raw map[string]diet.Meals
	if err := jsoniter.UnmarshalFromString(reply[start:end+1], &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", diet.ErrInvalidPlanResponse, err)
	}

	byDay := make(map[string]diet.Meals, len(raw))
	for day, meals := range raw {
		byDay[strings.ToLower(strings.TrimSpace(day))] = meals
	}

	days := make([]diet.DayPlan, 0, len(diet.Days))
	for _, day := range diet.Days {
		meals, ok := byDay[day]
		if !ok {
			return nil, fmt.Errorf("%w: missing %s", diet.ErrInvalidPlanResponse, day)
		}
		if strings.TrimSpace(meals.Breakfast) == "" || strings.TrimSpace(meals.Lunch) == "" || strings.TrimSpace(meals.Dinner) == "" {
			return nil, fmt.Errorf("%w: incomplete meals for %s", diet.ErrInvalidPlanResponse, day)
		}
		days = append(days, diet.DayPlan{Day: day, Meals: meals})
	}

	return days, nil
}
