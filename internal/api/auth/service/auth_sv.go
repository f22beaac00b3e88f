package authService

import (
	"FitnessGolang/internal/api/auth"
	"FitnessGolang/internal/entity"
	contextPkg "FitnessGolang/pkg/context"
	"FitnessGolang/pkg/redis"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	oauthStatePrefix = "oauth:state:"
	oauthStateTTL    = 10 * time.Minute
)

func (s *authDomainImpl) Login(c context.Context, req auth.LoginUserRequest) (auth.LoginUserResponse, error) {
	requestID := contextPkg.GetRequestID(c)
	repo, err := s.repo.NewClient(false)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to create repository client")
		return auth.LoginUserResponse{}, err
	}

	user, err := repo.Users.GetByEmail(c, strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
			}).Warn("Login with unknown email")
			return auth.LoginUserResponse{}, auth.ErrInvalidEmailOrPassword
		}
		return auth.LoginUserResponse{}, err
	}

	ok, err := s.bcryptUtils.ComparePassword(user.Password, req.Password)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Password comparison failed")
		return auth.LoginUserResponse{}, err
	}
	if !ok {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"user_id":    user.ID,
		}).Warn("Wrong password")
		return auth.LoginUserResponse{}, auth.ErrInvalidEmailOrPassword
	}

	res, err := issueToken(user)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to sign token")
		return auth.LoginUserResponse{}, err
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"user_id":    user.ID,
	}).Info("Token created")

	return res, nil
}

// GoogleLoginURL builds the consent URL with a one-time state kept in Redis.
func (s *authDomainImpl) GoogleLoginURL(c context.Context) (string, error) {
	requestID := contextPkg.GetRequestID(c)

	state, err := s.utils.RandomToken(32)
	if err != nil {
		return "", err
	}

	if err := s.redisServer.Set(c, oauthStatePrefix+state, requestID, oauthStateTTL); err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to store oauth state")
		return "", err
	}

	return s.googleProvider.AuthCodeURL(state), nil
}

func (s *authDomainImpl) GoogleCallback(c context.Context, query auth.GoogleCallbackQuery) (auth.LoginUserResponse, error) {
	requestID := contextPkg.GetRequestID(c)

	if query.State == "" {
		return auth.LoginUserResponse{}, auth.ErrInvalidOAuthState
	}
	if _, err := s.redisServer.Take(c, oauthStatePrefix+query.State); err != nil {
		if errors.Is(err, redis.ErrCacheMiss) {
			s.log.WithFields(logrus.Fields{
				"request_id": requestID,
			}).Warn("Unknown or expired oauth state")
			return auth.LoginUserResponse{}, auth.ErrInvalidOAuthState
		}
		return auth.LoginUserResponse{}, err
	}

	if query.Error != "" || query.Code == "" {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"reason":     query.Error,
		}).Info("Google sign-in not completed")
		return auth.LoginUserResponse{}, auth.ErrGoogleAccessDenied
	}

	info, err := s.googleProvider.UserInfo(c, query.Code)
	if err != nil {
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"error":      err.Error(),
		}).Error("Failed to fetch Google profile")
		return auth.LoginUserResponse{}, fmt.Errorf("%w: %v", auth.ErrGoogleSignInFailed, err)
	}
	if !info.VerifiedEmail {
		return auth.LoginUserResponse{}, auth.ErrGoogleEmailUnverified
	}

	user, err := s.upsertGoogleUser(c, info.ID, info.Email, info.Name)
	if err != nil {
		return auth.LoginUserResponse{}, err
	}

	return issueToken(user)
}

// upsertGoogleUser finds the account by Google subject, then by email (linking
// it), and creates one when neither exists.
func (s *authDomainImpl) upsertGoogleUser(c context.Context, googleID, email, name string) (entity.User, error) {
	requestID := contextPkg.GetRequestID(c)
	email = strings.ToLower(strings.TrimSpace(email))

	repo, err := s.repo.NewClient(false)
	if err != nil {
		return entity.User{}, err
	}

	user, err := repo.Users.GetByGoogleID(c, googleID)
	if err == nil {
		return user, nil
	}
	if !errors.Is(err, auth.ErrUserNotFound) {
		return entity.User{}, err
	}

	user, err = repo.Users.GetByEmail(c, email)
	switch {
	case err == nil:
		if err := repo.Users.LinkGoogleID(c, user.ID, googleID); err != nil {
			return entity.User{}, err
		}
		user.GoogleID = googleID
		s.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"user_id":    user.ID,
		}).Info("Linked Google account to existing user")
		return user, nil
	case !errors.Is(err, auth.ErrUserNotFound):
		return entity.User{}, err
	}

	now := time.Now()
	id, err := s.utils.NewULIDFromTimestamp(now)
	if err != nil {
		return entity.User{}, err
	}

	if strings.TrimSpace(name) == "" {
		name = email
	}
	user = entity.User{
		ID:        id,
		Email:     email,
		Name:      name,
		GoogleID:  googleID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := repo.Users.CreateUser(c, user); err != nil {
		return entity.User{}, err
	}

	s.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"user_id":    id,
	}).Info("User registered with Google")
	return user, nil
}
