package workout

import (
	"FitnessGolang/pkg/response"
	"net/http"
)

var (
	ErrSessionNotFound          = response.NewError(http.StatusNotFound, "workout session not found")
	ErrSessionNotOwned          = response.NewError(http.StatusForbidden, "workout session belongs to another user")
	ErrUnknownExercise          = response.NewError(http.StatusBadRequest, "unknown exercise")
	ErrInvalidConfig            = response.NewError(http.StatusBadRequest, "invalid exercise config")
	ErrPoseEstimatorUnavailable = response.NewError(http.StatusServiceUnavailable, "pose estimator unavailable")
	ErrSaveSession              = response.NewError(http.StatusInternalServerError, "failed to save workout session")
	ErrUnknownCommand           = response.NewError(http.StatusBadRequest, "unknown command")
)
