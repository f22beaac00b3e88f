package dietHandler

import (
	"FitnessGolang/internal/api/diet"
	contextPkg "FitnessGolang/pkg/context"
	"FitnessGolang/pkg/handlerUtil"
	"FitnessGolang/pkg/log"
	"time"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/net/context"
)

// llmTimeout is longer than the usual handler budget; a week of meals takes a
// while to generate.
const llmTimeout = 60 * time.Second

func (h *DietHandler) GeneratePlan(ctx *fiber.Ctx) error {
	requestID := h.middleware.GetRequestID(ctx)
	c, cancel := context.WithTimeout(contextPkg.FromFiberCtx(ctx), llmTimeout)
	defer cancel()

	errHandler := handlerUtil.New(h.log)

	var req diet.PlanRequest
	if err := ctx.BodyParser(&req); err != nil {
		return errHandler.HandleBadRequest(ctx, requestID, err, ctx.Path())
	}

	if err := h.validator.Struct(req); err != nil {
		return errHandler.HandleValidationError(ctx, requestID, err, ctx.Path())
	}

	res, err := h.dietService.GeneratePlan(c, req)
	if err != nil {
		return errHandler.Handle(ctx, requestID, err, ctx.Path(), "generate_diet_plan")
	}

	select {
	case <-c.Done():
		return errHandler.HandleRequestTimeout(ctx)
	default:
		h.log.WithFields(log.Fields{
			"request_id": requestID,
			"provider":   res.Provider,
			"cached":     res.Cached,
		}).Info("Diet plan generated")
		return errHandler.HandleSuccess(ctx, fiber.StatusOK, res)
	}
}
