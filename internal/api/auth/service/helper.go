package authService

import (
	"FitnessGolang/internal/api/auth"
	"FitnessGolang/internal/entity"
	jwtPkg "FitnessGolang/pkg/jwt"
	"time"
)

const accessTokenTTL = time.Hour

func MakeUserData(user entity.User) map[string]interface{} {
	return map[string]interface{}{
		"id":    user.ID,
		"email": user.Email,
		"name":  user.Name,
	}
}

func issueToken(user entity.User) (auth.LoginUserResponse, error) {
	token, expired, err := jwtPkg.Sign(MakeUserData(user), accessTokenTTL)
	if err != nil {
		return auth.LoginUserResponse{}, err
	}

	return auth.LoginUserResponse{
		AccessToken:   token,
		ExpiresInHour: time.Until(time.Unix(expired, 0)).Hours(),
	}, nil
}

func toUserResponse(user entity.User) auth.UserResponse {
	return auth.UserResponse{
		ID:           user.ID,
		Email:        user.Email,
		Name:         user.Name,
		HasPassword:  user.Password != "",
		GoogleLinked: user.GoogleID != "",
		CreatedAt:    user.CreatedAt,
		UpdatedAt:    user.UpdatedAt,
	}
}
