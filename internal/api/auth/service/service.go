package authService

import (
	"FitnessGolang/internal/api/auth"
	authRepository "FitnessGolang/internal/api/auth/repository"
	"FitnessGolang/pkg/bcrypt"
	"FitnessGolang/pkg/google"
	"FitnessGolang/pkg/redis"
	"FitnessGolang/pkg/utils"
	"context"

	"github.com/sirupsen/logrus"
)

type AuthService interface {
	User() UserDomain
	Auth() AuthDomain
}

type UserDomain interface {
	Register(c context.Context, req auth.RegisterRequest) (auth.UserResponse, error)
	Profile(c context.Context, id string) (auth.UserResponse, error)
}

type AuthDomain interface {
	Login(c context.Context, req auth.LoginUserRequest) (auth.LoginUserResponse, error)
	GoogleLoginURL(c context.Context) (string, error)
	GoogleCallback(c context.Context, query auth.GoogleCallbackQuery) (auth.LoginUserResponse, error)
}

type authService struct {
	userDomain UserDomain
	authDomain AuthDomain
}

func (a *authService) User() UserDomain {
	return a.userDomain
}

func (a *authService) Auth() AuthDomain {
	return a.authDomain
}

type userDomainImpl struct {
	log         *logrus.Logger
	repo        authRepository.Repository
	bcryptUtils bcrypt.IBcrypt
	utils       utils.IUtils
}

type authDomainImpl struct {
	log            *logrus.Logger
	repo           authRepository.Repository
	googleProvider google.ItfGoogle
	redisServer    redis.IRedis
	bcryptUtils    bcrypt.IBcrypt
	utils          utils.IUtils
}

func New(log *logrus.Logger,
	authRepo authRepository.Repository,
	googleProvider google.ItfGoogle,
	redisServer redis.IRedis,
	bcryptUtils bcrypt.IBcrypt,
	utils utils.IUtils,
) AuthService {
	return &authService{
		userDomain: &userDomainImpl{log: log, repo: authRepo, bcryptUtils: bcryptUtils, utils: utils},
		authDomain: &authDomainImpl{log: log, repo: authRepo, googleProvider: googleProvider, redisServer: redisServer, bcryptUtils: bcryptUtils, utils: utils},
	}
}
