package main

import (
	"FitnessGolang/internal/config"
	"FitnessGolang/pkg/google"
	"FitnessGolang/pkg/log"
	"FitnessGolang/pkg/metrics"
	"FitnessGolang/pkg/redis"
	websocketPkg "FitnessGolang/pkg/websocket"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
)

func main() {
	logger := log.NewLogger()
	if err := godotenv.Load(); err != nil {
		logger.Warnf("No .env file loaded, using process environment: %v", err)
	}

	fiberApp := config.NewFiber(logger)
	validator := config.NewValidator()
	googleProvider := google.New(logger)
	redisServer := redis.New(logger)
	poseEstimator := websocketPkg.NewPoseEstimatorClient(logger)

	server, err := config.NewServer(
		config.WithFiber(fiberApp),
		config.WithLogger(logger),
		config.WithValidator(validator),
		config.WithDatabase(),
		config.WithGoogleProvider(googleProvider),
		config.WithRedisServer(redisServer),
		config.WithPoseEstimator(poseEstimator),
		config.WithMetrics(metrics.NewManager()),
		config.WithMiddleware(),
		config.WithGeminiClient(),
		config.WithOpenAIClient(),
		config.WithBcryptUtils(),
		config.WithUtils(),
	)
	if err != nil {
		logger.Fatal(err)
	}

	server.RegisterHandler()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := server.Run(); err != nil {
			logger.Fatalf("Error starting server: %v", err)
		}
	}()

	logger.Info("Server started successfully")

	<-sigChan
	logger.Info("Shutting down server...")
	if err := server.Shutdown(10 * time.Second); err != nil {
		logger.WithError(err).Error("Server shutdown failed")
	}
}
