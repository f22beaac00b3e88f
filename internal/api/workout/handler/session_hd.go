package workoutHandler

import (
	"FitnessGolang/internal/api/workout"
	contextPkg "FitnessGolang/pkg/context"
	"FitnessGolang/pkg/handlerUtil"
	"FitnessGolang/pkg/log"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
)

func (h *WorkoutHandler) CreateSession(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	var req workout.CreateSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.HandleBadRequest(ctx, requestID, err, ctx.Path())
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	// Anonymous sessions are allowed; they just cannot be finished by anyone
	// in particular.
	res, err := h.workoutService.Session().Create(c, req, contextPkg.GetUserID(c))
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "create_session")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusCreated, res)
	}
}

func (h *WorkoutHandler) GetSession(ctx *fiber.Ctx) error {
	return h.control(ctx, "get_session", h.workoutService.Session().Get)
}

func (h *WorkoutHandler) StartSession(ctx *fiber.Ctx) error {
	return h.control(ctx, "start_session", h.workoutService.Session().Start)
}

func (h *WorkoutHandler) PauseSession(ctx *fiber.Ctx) error {
	return h.control(ctx, "pause_session", h.workoutService.Session().Pause)
}

func (h *WorkoutHandler) ResetSession(ctx *fiber.Ctx) error {
	return h.control(ctx, "reset_session", h.workoutService.Session().Reset)
}

// control runs a body-less session command addressed by :id.
func (h *WorkoutHandler) control(
	ctx *fiber.Ctx,
	operation string,
	fn func(context.Context, string) (workout.SessionSnapshot, error),
) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	res, err := fn(c, ctx.Params("id"))
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), operation)
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, res)
	}
}

func (h *WorkoutHandler) ProcessPoses(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	var req workout.PoseBatchRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.HandleBadRequest(ctx, requestID, err, ctx.Path())
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	res, err := h.workoutService.Session().ProcessPoses(c, ctx.Params("id"), req.Poses, req.FrameInterval())
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "process_poses")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, res)
	}
}

func (h *WorkoutHandler) FinishSession(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), 10*time.Second)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	userID := contextPkg.GetUserID(c)
	if userID == "" {
		return errHandler.HandleUnauthorized(ctx, requestID, "Unauthorized, access token invalid or expired")
	}

	res, err := h.workoutService.Record().Finish(c, ctx.Params("id"), userID)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "finish_session")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		h.log.WithFields(log.Fields{
			"request_id": requestID,
			"session_id": res.ID,
			"total_reps": res.TotalReps,
		}).Info("Workout finished")
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, res)
	}
}
