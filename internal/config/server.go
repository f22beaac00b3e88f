package config

import (
	"FitnessGolang/database/migrations"
	"FitnessGolang/database/postgres"
	authHandler "FitnessGolang/internal/api/auth/handler"
	authRepository "FitnessGolang/internal/api/auth/repository"
	authService "FitnessGolang/internal/api/auth/service"
	dietHandler "FitnessGolang/internal/api/diet/handler"
	dietService "FitnessGolang/internal/api/diet/service"
	workoutHandler "FitnessGolang/internal/api/workout/handler"
	workoutRepository "FitnessGolang/internal/api/workout/repository"
	workoutService "FitnessGolang/internal/api/workout/service"
	"FitnessGolang/internal/middleware"
	"FitnessGolang/pkg/bcrypt"
	"FitnessGolang/pkg/gemini"
	"FitnessGolang/pkg/google"
	"FitnessGolang/pkg/metrics"
	"FitnessGolang/pkg/openai"
	"FitnessGolang/pkg/redis"
	"FitnessGolang/pkg/utils"
	websocketPkg "FitnessGolang/pkg/websocket"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
)

const (
	sessionIdleTimeout = 30 * time.Minute
	sessionSweepEvery  = time.Minute
)

type ServerOption func(*Server) error

type Server struct {
	engine         *fiber.App
	db             *sqlx.DB
	log            *logrus.Logger
	middleware     middleware.Middleware
	validator      *validator.Validate
	utils          utils.IUtils
	bcryptUtils    bcrypt.IBcrypt
	handlers       []handler
	googleProvider google.ItfGoogle
	redisServer    redis.IRedis
	poseEstimator  websocketPkg.IPoseEstimator
	geminiClient   gemini.IGemini
	openAIClient   openai.IChatGPT
	metrics        *metrics.Manager
	stop           chan struct{}
}

type handler interface {
	Start(srv fiber.Router)
}

func NewServer(options ...ServerOption) (*Server, error) {
	server := &Server{stop: make(chan struct{})}

	for _, option := range options {
		if err := option(server); err != nil {
			return nil, fmt.Errorf("failed to apply option: %w", err)
		}
	}

	if server.engine == nil {
		return nil, fmt.Errorf("fiber app is required")
	}
	if server.log == nil {
		return nil, fmt.Errorf("logger is required")
	}
	if server.metrics == nil {
		server.metrics = metrics.NewManager()
	}

	return server, nil
}

func WithFiber(fiberApp *fiber.App) ServerOption {
	return func(s *Server) error {
		s.engine = fiberApp
		return nil
	}
}

func WithLogger(logger *logrus.Logger) ServerOption {
	return func(s *Server) error {
		s.log = logger
		return nil
	}
}

func WithValidator(validator *validator.Validate) ServerOption {
	return func(s *Server) error {
		s.validator = validator
		return nil
	}
}

// WithDatabase connects to Postgres and brings the schema up to date.
func WithDatabase() ServerOption {
	return func(s *Server) error {
		db, err := postgres.New()
		if err != nil {
			if s.log != nil {
				s.log.Errorf("Failed to connect to database: %v", err)
			}
			return fmt.Errorf("failed to create database connection: %w", err)
		}

		if err := migrations.Up(postgres.DSN()); err != nil {
			_ = db.Close()
			return fmt.Errorf("failed to run migrations: %w", err)
		}

		s.db = db
		return nil
	}
}

func WithGoogleProvider(provider google.ItfGoogle) ServerOption {
	return func(s *Server) error {
		s.googleProvider = provider
		return nil
	}
}

func WithRedisServer(redisServer redis.IRedis) ServerOption {
	return func(s *Server) error {
		s.redisServer = redisServer
		return nil
	}
}

func WithPoseEstimator(estimator websocketPkg.IPoseEstimator) ServerOption {
	return func(s *Server) error {
		s.poseEstimator = estimator
		return nil
	}
}

func WithMetrics(m *metrics.Manager) ServerOption {
	return func(s *Server) error {
		s.metrics = m
		return nil
	}
}

func WithMiddleware() ServerOption {
	return func(s *Server) error {
		if s.log == nil {
			return fmt.Errorf("logger must be initialized before middleware")
		}
		s.middleware = middleware.New(s.log)
		return nil
	}
}

// WithGeminiClient is optional: without GEMINI_API_KEY the diet planner falls
// back to OpenAI.
func WithGeminiClient() ServerOption {
	return func(s *Server) error {
		client, err := gemini.NewGeminiClient()
		if err != nil {
			if s.log != nil {
				s.log.Warnf("Gemini client disabled: %v", err)
			}
			return nil
		}
		s.geminiClient = client
		return nil
	}
}

func WithOpenAIClient() ServerOption {
	return func(s *Server) error {
		client, err := openai.NewChatGPT()
		if err != nil {
			if s.log != nil {
				s.log.Warnf("OpenAI client disabled: %v", err)
			}
			return nil
		}
		s.openAIClient = client
		return nil
	}
}

func WithUtils() ServerOption {
	return func(s *Server) error {
		s.utils = utils.New()
		return nil
	}
}

func WithBcryptUtils() ServerOption {
	return func(s *Server) error {
		s.bcryptUtils = bcrypt.New()
		return nil
	}
}

func (s *Server) RegisterHandler() {
	// Auth Domain
	authRepo := authRepository.New(s.db, s.log)
	authServices := authService.New(s.log, authRepo, s.googleProvider, s.redisServer, s.bcryptUtils, s.utils)
	authHandlers := authHandler.New(s.log, authServices, s.validator, s.middleware)

	// Workout
	var estimator workoutService.PoseEstimator
	if s.poseEstimator != nil {
		estimator = s.poseEstimator
	}
	workoutRepo := workoutRepository.New(s.db, s.log)
	workoutServices := workoutService.New(s.log, workoutRepo, estimator, s.metrics, s.utils)
	workoutHandlers := workoutHandler.New(s.log, s.validator, s.middleware, workoutServices)
	go s.sweepIdleSessions(workoutServices.Session())

	// Diet
	planner := dietService.SelectPlanner(s.openAIClient, s.geminiClient)
	if planner == nil {
		s.log.Warn("No language model configured, diet plans are unavailable")
	}
	dietServices := dietService.NewDietService(s.log, planner, s.redisServer, s.metrics)
	dietHandlers := dietHandler.New(s.log, s.validator, s.middleware, dietServices)

	s.setupHealthCheck()
	s.engine.Get("/metrics", s.metrics.Handler())
	s.handlers = append(s.handlers, authHandlers, workoutHandlers, dietHandlers)
}

func (s *Server) sweepIdleSessions(sessions workoutService.SessionDomain) {
	ticker := time.NewTicker(sessionSweepEvery)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			if n := sessions.EvictIdle(sessionIdleTimeout); n > 0 {
				s.log.WithField("evicted", n).Info("Evicted idle workout sessions")
			}
		}
	}
}

func (s *Server) Run() error {
	s.engine.Use(s.middleware.NewRequestIDMiddleware())
	s.engine.Use(s.middleware.NewLoggerMiddleware())
	router := s.engine.Group("/api/v1")

	for _, h := range s.handlers {
		h.Start(router)
	}

	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "3000"
	}

	return s.engine.Listen(fmt.Sprintf(":%s", port))
}

// Shutdown stops accepting requests and releases the outbound clients.
func (s *Server) Shutdown(timeout time.Duration) error {
	close(s.stop)
	err := s.engine.ShutdownWithTimeout(timeout)

	if s.poseEstimator != nil {
		s.poseEstimator.Close()
	}
	if s.geminiClient != nil {
		if cerr := s.geminiClient.Close(); cerr != nil {
			s.log.WithError(cerr).Warn("Failed to close Gemini client")
		}
	}
	if s.db != nil {
		if cerr := s.db.Close(); cerr != nil {
			s.log.WithError(cerr).Warn("Failed to close database")
		}
	}
	return err
}

func (s *Server) setupHealthCheck() {
	s.engine.Get("/", func(ctx *fiber.Ctx) error {
		return ctx.JSON(fiber.Map{
			"message": "Server is Healthy!",
		})
	})
}
