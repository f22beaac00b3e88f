package auth

import (
	"FitnessGolang/pkg/response"
	"net/http"
)

var (
	ErrEmailAlreadyExists     = response.NewError(http.StatusConflict, "email already exists")
	ErrInvalidEmailOrPassword = response.NewError(http.StatusBadRequest, "email or password is wrong")
	ErrUserNotFound           = response.NewError(http.StatusNotFound, "user not found")
	ErrInvalidOAuthState      = response.NewError(http.StatusBadRequest, "invalid or expired oauth state")
	ErrGoogleAccessDenied     = response.NewError(http.StatusUnauthorized, "google sign-in was cancelled")
	ErrGoogleEmailUnverified  = response.NewError(http.StatusForbidden, "google account email is not verified")
	ErrGoogleSignInFailed     = response.NewError(http.StatusBadGateway, "google sign-in failed")
)
