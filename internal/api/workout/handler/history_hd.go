package workoutHandler

import (
	"FitnessGolang/internal/api/workout"
	contextPkg "FitnessGolang/pkg/context"
	"FitnessGolang/pkg/handlerUtil"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
)

func (h *WorkoutHandler) GetHistory(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	userID := contextPkg.GetUserID(c)
	if userID == "" {
		return errHandler.HandleUnauthorized(ctx, requestID, "Unauthorized, access token invalid or expired")
	}

	var query workout.HistoryQuery
	if err := ctx.QueryParser(&query); err != nil {
		return errHandler.HandleBadRequest(ctx, requestID, err, ctx.Path())
	}

	if err := h.validator.Struct(query); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	sessions, err := h.workoutService.Record().History(c, userID, query.Limit)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_history")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, workout.HistoryResponse{Sessions: sessions})
	}
}

func (h *WorkoutHandler) GetHistoryDetail(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	userID := contextPkg.GetUserID(c)
	if userID == "" {
		return errHandler.HandleUnauthorized(ctx, requestID, "Unauthorized, access token invalid or expired")
	}

	res, err := h.workoutService.Record().Detail(c, ctx.Params("id"), userID)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "get_history_detail")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, res)
	}
}

func (h *WorkoutHandler) GetExercises(ctx *fiber.Ctx) error {
	return handlerUtil.New(h.log).HandleSuccess(ctx, fiber.StatusOK, workout.ExercisesResponse{
		Exercises: h.workoutService.Record().Exercises(),
	})
}
