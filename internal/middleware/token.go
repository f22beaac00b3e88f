package middleware

import (
	contextPkg "FitnessGolang/pkg/context"
	"FitnessGolang/pkg/handlerUtil"
	jwtPkg "FitnessGolang/pkg/jwt"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

const unauthorizedMessage = "Unauthorized, access token invalid or expired"

// NewTokenMiddleware rejects requests without a valid access token and puts
// the caller's id on the user context (contextPkg.GetUserID).
func (m *middleware) NewTokenMiddleware(ctx *fiber.Ctx) error {
	requestID := m.GetRequestID(ctx)

	if err := m.authenticate(ctx); err != nil {
		m.log.WithFields(logrus.Fields{
			"request_id": requestID,
			"path":       ctx.Path(),
			"method":     ctx.Method(),
			"client_ip":  ctx.IP(),
			"error":      err.Error(),
		}).Warn("Token verification failed")
		return handlerUtil.New(m.log).HandleUnauthorized(ctx, requestID, unauthorizedMessage)
	}

	return ctx.Next()
}

// NewOptionalTokenMiddleware authenticates when a token is present and lets
// anonymous requests through. A token that is present but invalid is still
// rejected.
func (m *middleware) NewOptionalTokenMiddleware(ctx *fiber.Ctx) error {
	err := m.authenticate(ctx)
	if err == nil || errors.Is(err, jwtPkg.ErrMissingToken) {
		return ctx.Next()
	}

	requestID := m.GetRequestID(ctx)
	m.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"path":       ctx.Path(),
		"error":      err.Error(),
	}).Warn("Optional token rejected")
	return handlerUtil.New(m.log).HandleUnauthorized(ctx, requestID, unauthorizedMessage)
}

func (m *middleware) authenticate(ctx *fiber.Ctx) error {
	userToken, err := jwtPkg.VerifyTokenHeader(ctx, jwtPkg.AccessTokenSecretEnv)
	if err != nil {
		return err
	}

	user, err := jwtPkg.UserFromClaims(userToken)
	if err != nil {
		return err
	}

	ctx.SetUserContext(contextPkg.WithUserID(ctx.UserContext(), user.ID))

	m.log.WithFields(logrus.Fields{
		"request_id": m.GetRequestID(ctx),
		"user_id":    user.ID,
	}).Debug("Authentication successful")
	return nil
}
