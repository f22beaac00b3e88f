package workoutHandler

import (
	workoutService "FitnessGolang/internal/api/workout/service"
	"FitnessGolang/internal/middleware"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
)

type WorkoutHandler struct {
	log            *logrus.Logger
	validator      *validator.Validate
	middleware     middleware.Middleware
	workoutService workoutService.WorkoutService
}

func New(
	log *logrus.Logger,
	validator *validator.Validate,
	middleware middleware.Middleware,
	ws workoutService.WorkoutService,
) *WorkoutHandler {
	return &WorkoutHandler{
		log:            log,
		validator:      validator,
		middleware:     middleware,
		workoutService: ws,
	}
}

func (h *WorkoutHandler) Start(srv fiber.Router) {
	wsMiddleware := func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}

	workout := srv.Group("/workout")
	workout.Use("/ws", wsMiddleware)
	workout.Get("/ws", h.middleware.NewOptionalTokenMiddleware, h.OpenStream, websocket.New(h.handleStream))

	workout.Get("/exercises", h.GetExercises)

	sessions := workout.Group("/sessions", h.middleware.NewRateLimiter)
	sessions.Post("", h.middleware.NewOptionalTokenMiddleware, h.CreateSession)
	sessions.Get("/:id", h.GetSession)
	sessions.Post("/:id/start", h.StartSession)
	sessions.Post("/:id/pause", h.PauseSession)
	sessions.Post("/:id/reset", h.ResetSession)
	sessions.Post("/:id/poses", h.ProcessPoses)
	sessions.Post("/:id/finish", h.middleware.NewTokenMiddleware, h.FinishSession)

	history := workout.Group("/history", h.middleware.NewTokenMiddleware)
	history.Get("", h.GetHistory)
	history.Get("/:id", h.GetHistoryDetail)
}
