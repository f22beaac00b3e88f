package diet

import (
	"FitnessGolang/pkg/response"
	"net/http"
)

var (
	ErrInvalidPlanResponse = response.NewError(http.StatusBadGateway, "invalid diet plan response from language model")
	ErrPlannerUnavailable  = response.NewError(http.StatusServiceUnavailable, "diet planner unavailable")
)
