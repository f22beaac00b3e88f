package authService

import (
	"FitnessGolang/internal/api/auth"
	"FitnessGolang/internal/entity"
	contextPkg "FitnessGolang/pkg/context"
	"context"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

func (s *userDomainImpl) Register(c context.Context, req auth.RegisterRequest) (auth.UserResponse, error) {
	requestID := contextPkg.GetRequestID(c)

	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return auth.UserResponse{}, err
	}

	hashed, err := s.bcryptUtils.HashPassword(req.Password)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to hash password")
		return auth.UserResponse{}, err
	}

	now := time.Now()
	id, err := s.utils.NewULIDFromTimestamp(now)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to generate ULID")
		return auth.UserResponse{}, err
	}

	user := entity.User{
		ID:        id,
		Email:     strings.ToLower(strings.TrimSpace(req.Email)),
		Name:      strings.TrimSpace(req.Name),
		Password:  hashed,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := repo.Users.CreateUser(c, user); err != nil {
		return auth.UserResponse{}, err
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"user_id":    id,
	}).Info("User registered")

	return toUserResponse(user), nil
}

func (s *userDomainImpl) Profile(c context.Context, id string) (auth.UserResponse, error) {
	repo, err := s.repo.NewClient(false)
	if err != nil {
		return auth.UserResponse{}, err
	}

	user, err := repo.Users.GetByID(c, id)
	if err != nil {
		return auth.UserResponse{}, err
	}

	return toUserResponse(user), nil
}
