package dietHandler

import (
	dietService "FitnessGolang/internal/api/diet/service"
	"FitnessGolang/internal/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

type DietHandler struct {
	log         *logrus.Logger
	validator   *validator.Validate
	middleware  middleware.Middleware
	dietService dietService.IDietService
}

func New(
	log *logrus.Logger,
	validator *validator.Validate,
	middleware middleware.Middleware,
	ds dietService.IDietService,
) *DietHandler {
	return &DietHandler{
		log:         log,
		validator:   validator,
		middleware:  middleware,
		dietService: ds,
	}
}

func (h *DietHandler) Start(srv fiber.Router) {
	dietGroup := srv.Group("/diet")
	dietGroup.Post("/plan", h.middleware.NewRateLimiter, h.GeneratePlan)
}
